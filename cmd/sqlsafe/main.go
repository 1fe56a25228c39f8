// Command sqlsafe builds injection-safe SQL SELECT statements from query
// documents.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sqlsafe/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
