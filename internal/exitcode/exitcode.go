// Package exitcode maps errors returned by the install and start flows to
// process exit statuses. It is consulted only by the CLI entry point.
package exitcode

import (
	"errors"

	"pattooweb/internal/execx"
	"pattooweb/internal/install"
)

const (
	Success = 0
	// Layout reports that the binary is not inside a pattoo-web/bin directory.
	Layout = 2
	// CommandFailure reports a fail-fast command that exited non-zero.
	CommandFailure = 2
	// Fatal covers every other preflight or orchestration failure.
	Fatal = 3
)

// For returns the exit status for err. A nil error is Success.
func For(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, install.ErrStructuralLayout) {
		return Layout
	}
	var cmdErr *execx.CommandError
	if errors.As(err, &cmdErr) {
		return CommandFailure
	}
	return Fatal
}
