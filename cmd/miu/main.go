package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/miu/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()

	// ExitErrors have already been reported by the command.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(cli.GetExitCode(err))
}
