package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
	"github.com/roach88/bowtie/internal/schema"
	"github.com/roach88/bowtie/internal/testcase"
)

// RequestOptions holds flags for the request command.
type RequestOptions struct {
	*RootOptions
	Seq     int64
	Dialect string
}

// NewRequestCommand creates the request command.
func NewRequestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RequestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "request <fixture>",
		Short: "Print the run request for a fixture",
		Long: `Print the validated run request an implementation would receive for a
fixture. Expected results are stripped.

Exit codes:
  0 - Request printed
  2 - Fixture unreadable or request invalid

Examples:
  bowtie request ./cases/minimum.yaml
  bowtie request ./cases/minimum.yaml --seq 7 --dialect 2019-09`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seq, "seq", 1, "sequence number for the run")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "dialect URI or short name (default from config)")

	return cmd
}

func runRequest(opts *RequestOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	tc, codec, err := loadFixture(opts.RootOptions, path, opts.Dialect)
	if err != nil {
		_ = out.Error(ErrCodeFixture, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	run := protocol.Run{Seq: result.Seq(opts.Seq), Case: tc.WithoutExpectedResults()}
	request, err := protocol.ToRequest(run, codec)
	if err != nil {
		_ = out.Error(ErrCodeRequest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid run request", err)
	}
	data, err := protocol.Marshal(request)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode request", err)
	}

	opts.logger().Debug("built run request", "seq", opts.Seq, "tests", tc.Len())
	return out.Success(request, string(data))
}

// loadFixture reads a fixture and builds a validating codec for the
// configured URI scheme. dialect overrides the configured dialect.
func loadFixture(opts *RootOptions, path, dialect string) (testcase.TestCase, protocol.Codec, error) {
	cfg := opts.settings()
	d := cfg.DialectURI()
	if dialect != "" {
		named, ok := testcase.DialectNamed(dialect)
		if !ok {
			return testcase.TestCase{}, protocol.Codec{}, fmt.Errorf("unknown dialect %q", dialect)
		}
		d = named
	}

	tc, err := testcase.LoadFile(path, d)
	if err != nil {
		return testcase.TestCase{}, protocol.Codec{}, err
	}

	scheme, err := cfg.URIScheme()
	if err != nil {
		return testcase.TestCase{}, protocol.Codec{}, err
	}
	codec, err := schema.NewCodec(scheme)
	if err != nil {
		return testcase.TestCase{}, protocol.Codec{}, fmt.Errorf("compiling IO schemas: %w", err)
	}
	return tc, codec, nil
}
