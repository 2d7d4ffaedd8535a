package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bowtie/internal/protocol"
	"github.com/roach88/bowtie/internal/result"
	"github.com/roach88/bowtie/internal/testcase"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	Implementation string
	Seq            int64
	Dialect        string
}

// TestReport is one test's line in decode output.
type TestReport struct {
	Description string          `json:"description"`
	Outcome     string          `json:"outcome"`
	Reason      string          `json:"reason"`
	Expected    result.Validity `json:"expected"`
	Failed      bool            `json:"failed"`
}

// DecodeResult is the decode command's output.
type DecodeResult struct {
	Implementation string              `json:"implementation"`
	Seq            result.Seq          `json:"seq"`
	Kind           string              `json:"kind"`
	Tests          []TestReport        `json:"tests"`
	Unsuccessful   result.Unsuccessful `json:"unsuccessful"`
	Failed         bool                `json:"failed"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <fixture> <response>",
		Short: "Decode a saved run response against a fixture",
		Long: `Decode an implementation's saved run response and compare it with the
fixture's expected results.

A response that cannot be decoded is reported the way the harness would
record it: as an error the implementation did not report itself.

Exit codes:
  0 - No test failed
  1 - At least one test failed
  2 - Command error (unreadable fixture or response file)

Examples:
  bowtie decode ./cases/minimum.yaml ./responses/go-fake.json
  bowtie decode ./cases/minimum.yaml ./responses/go-fake.json --seq 3 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Implementation, "implementation", "implementation", "implementation id to attribute results to")
	cmd.Flags().Int64Var(&opts.Seq, "seq", 0, "expected response seq (0 accepts any)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "dialect URI or short name (default from config)")

	return cmd
}

func runDecode(opts *DecodeOptions, fixturePath, responsePath string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	tc, codec, err := loadFixture(opts.RootOptions, fixturePath, opts.Dialect)
	if err != nil {
		_ = out.Error(ErrCodeFixture, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}
	raw, err := os.ReadFile(responsePath)
	if err != nil {
		_ = out.Error(ErrCodeResponse, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read response", err)
	}

	outcome := decodeOutcome(opts, tc, codec, raw)
	report := buildDecodeResult(tc, outcome)
	opts.logger().Debug("decoded response",
		"implementation", report.Implementation,
		"seq", report.Seq,
		"kind", report.Kind,
	)

	if err := out.Success(report, renderDecodeText(report)); err != nil {
		return err
	}
	if report.Failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d test(s) failed", report.Unsuccessful.Failed))
	}
	return nil
}

func decodeOutcome(opts *DecodeOptions, tc testcase.TestCase, codec protocol.Codec, raw []byte) result.CaseOutcome {
	expected := tc.Expected()
	seq := result.Seq(opts.Seq)
	run := protocol.Run{Seq: seq, Case: tc.WithoutExpectedResults()}

	response, err := protocol.FromResponse(run, []byte(strings.TrimSpace(string(raw))), codec)
	if err != nil {
		return result.Uncaught(opts.Implementation, seq, expected, map[string]any{"message": err.Error()})
	}
	if seq != 0 && response.Seq != seq {
		return result.Uncaught(opts.Implementation, seq, expected, map[string]any{
			"message": fmt.Sprintf("response seq %d does not match request seq %d", response.Seq, seq),
		})
	}
	return response.Bind(opts.Implementation, expected)
}

func outcomeKind(outcome result.CaseOutcome) string {
	switch o := outcome.(type) {
	case result.CaseResult:
		return "results"
	case result.CaseSkipped:
		return "skipped"
	case result.CaseErrored:
		if o.Caught {
			return "errored"
		}
		return "uncaught"
	case result.Empty:
		return "no_response"
	default:
		return "unknown"
	}
}

func testOutcomeName(o result.TestOutcome, failed bool) string {
	switch {
	case o.Skipped():
		return "skipped"
	case o.Errored():
		return "errored"
	case failed:
		return "failed"
	default:
		return "passed"
	}
}

func buildDecodeResult(tc testcase.TestCase, outcome result.CaseOutcome) DecodeResult {
	tests := tc.Tests()
	comparisons := result.Compare(outcome.Outcomes(), outcome.Expectations())

	reports := make([]TestReport, len(comparisons))
	for i, c := range comparisons {
		reports[i] = TestReport{
			Description: tests[i].Description,
			Outcome:     testOutcomeName(c.Outcome, c.Failed),
			Reason:      c.Outcome.Reason(),
			Expected:    c.Expected,
			Failed:      c.Failed,
		}
	}

	about := outcome.About()
	return DecodeResult{
		Implementation: about.Implementation,
		Seq:            about.Seq,
		Kind:           outcomeKind(outcome),
		Tests:          reports,
		Unsuccessful:   outcome.Unsuccessful(),
		Failed:         outcome.Failed(),
	}
}

var outcomeMarks = map[string]string{
	"passed":  "✓",
	"failed":  "✗",
	"skipped": "-",
	"errored": "!",
}

func renderDecodeText(r DecodeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s seq %d: %s\n", r.Implementation, r.Seq, r.Kind)
	for _, t := range r.Tests {
		fmt.Fprintf(&b, "%s %s: %s", outcomeMarks[t.Outcome], t.Description, t.Reason)
		if t.Failed {
			fmt.Fprintf(&b, " (expected %s)", t.Expected)
		}
		b.WriteString("\n")
	}
	b.WriteString(r.Unsuccessful.String())
	return b.String()
}
