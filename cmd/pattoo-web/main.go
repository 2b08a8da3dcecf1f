package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"pattooweb/internal/execx"
	"pattooweb/internal/exitcode"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	reportError(os.Stderr, err)
	os.Exit(exitcode.For(err))
}

// reportError prints err for the operator. Fail-fast command errors were
// already reported line by line by the runner.
func reportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	var cmdErr *execx.CommandError
	if errors.As(err, &cmdErr) {
		return
	}
	if exitcode.For(err) == exitcode.Fatal {
		fmt.Fprintf(w, "\nPATTOO Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, err)
}
