// Command sleuth tracks a game of Clue and deduces the solution.
package main

import (
	"os"

	"github.com/roach88/sleuth/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
