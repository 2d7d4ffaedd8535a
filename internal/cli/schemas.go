package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/bowtie/internal/schema"
)

// SchemaURIs pairs a command with its request and response schema URIs.
type SchemaURIs struct {
	Command  string `json:"command"`
	Request  string `json:"request"`
	Response string `json:"response"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the IO schema URIs for each command",
		Long: `List the request and response schema URIs for each protocol command
under the configured URI scheme.

Examples:
  bowtie schemas
  BOWTIE_SCHEME=tag bowtie schemas --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(rootOpts, cmd)
		},
	}
}

func runSchemas(opts *RootOptions, cmd *cobra.Command) error {
	scheme, err := opts.settings().URIScheme()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid scheme", err)
	}

	uris := make([]SchemaURIs, len(schema.Commands))
	var b strings.Builder
	for i, name := range schema.Commands {
		uris[i] = SchemaURIs{Command: name, Request: scheme.Request(name), Response: scheme.Response(name)}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-8s request  %s\n%-8s response %s", name, uris[i].Request, "", uris[i].Response)
	}
	return opts.formatter(cmd).Success(uris, b.String())
}
