package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(stdin, stdout)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var ce *cliError
		if errors.As(err, &ce) {
			fmt.Fprintf(stderr, FmtErrorWithCause, ce.msg, ce.err)
			return ce.code
		}
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgUsage, err)
		return ExitCodeUsageError
	}
	return ExitCodeSuccess
}

// cliError carries the exit code a command failed with.
type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

func fail(code int, msg string, err error) error {
	return &cliError{code: code, msg: msg, err: err}
}

// globalFlags are shared by every command.
type globalFlags struct {
	config string
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           CLIName,
		Short:         HelpRootShort,
		Long:          HelpRootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.config, FlagConfig, FlagConfigShort, "", HelpFlagConfig)

	root.AddCommand(
		compileCmd(g, stdin, stdout),
		renderCmd(g, stdin, stdout),
		stripCmd(stdin, stdout),
		inspectCmd(stdin, stdout),
		versionCmd(stdout),
	)
	return root
}
