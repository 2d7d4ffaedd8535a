// Command bowtie inspects the bowtie command protocol offline.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/bowtie/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bowtie:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
