// Command hashassin is the entry point for the CLI.
package main

import (
	"os"

	"github.com/hashassin/hashassin/cmd"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

func main() {
	err := cmd.Execute()
	os.Exit(hashassinerrors.ExitCode(err))
}
