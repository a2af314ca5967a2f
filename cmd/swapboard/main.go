// Command swapboard plays, simulates and tests match-3 games.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/swapboard/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
