package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

const (
	exitOK      = 0
	exitFailure = 1
	exitNoMode  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	if len(args) == 0 {
		if err := renderHelp(stdout, cmd); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		return exitOK
	}
	cmd.SetArgs(args)
	return exitCode(cmd.Execute(), cmd, stderr)
}

func exitCode(err error, cmd *rootCmd, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "%s: %v\n\n", cmd.Name(), uerr.Err)
		if help, herr := uerr.Help(); herr == nil {
			fmt.Fprint(stderr, help)
		}
		return uerr.Code
	}
	fmt.Fprintf(stderr, "%s: %v\n", cmd.Name(), err)
	return exitFailure
}
