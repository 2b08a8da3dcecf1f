package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"pattooweb/internal/logging"
)

// SpawnFailureCode is the exit code reported when a command cannot be launched.
const SpawnFailureCode = 127

// SignaledCode is reported when a launched command was terminated by a signal,
// including the kill issued on context cancellation.
const SignaledCode = -1

// ErrEmptyCommand is returned when a Spec has no program token.
var ErrEmptyCommand = errors.New("execx: empty command")

// Spec is a program followed by its arguments.
type Spec []string

// Split tokenizes a command line on whitespace. No quoting or expansion is applied.
func Split(line string) Spec {
	return Spec(strings.Fields(line))
}

func (s Spec) String() string {
	return strings.Join(s, " ")
}

// Result captures the outcome of one command execution.
type Result struct {
	Command  Spec
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// StdoutLines splits captured stdout into lines.
func (r Result) StdoutLines() []string {
	return splitLines(r.Stdout)
}

// StderrLines splits captured stderr into lines.
func (r Result) StderrLines() []string {
	return splitLines(r.Stderr)
}

// CommandError reports a non-zero exit from a fail-fast command.
type CommandError struct {
	Result Result
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed with return code %d", e.Result.Command.String(), e.Result.ExitCode)
}

// Runner executes commands. Implementations must not retain process handles
// beyond a single Run call.
type Runner interface {
	Run(ctx context.Context, spec Spec, failFast bool) (Result, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct {
	// Out receives operator-facing progress and diagnostics. Defaults to stdout.
	Out    io.Writer
	Logger *slog.Logger
	// Dir is the working directory for launched commands.
	Dir string
}

// Run launches spec and waits for it to exit. With failFast unset, a
// non-zero exit is returned as data with a nil error; the only error in that
// mode is cancellation of ctx.
func (r ExecRunner) Run(ctx context.Context, spec Spec, failFast bool) (Result, error) {
	if len(spec) == 0 || strings.TrimSpace(spec[0]) == "" {
		return Result{ExitCode: SpawnFailureCode}, ErrEmptyCommand
	}
	if ctx == nil {
		ctx = context.Background()
	}
	out := r.out()
	logger := logging.NewComponentLogger(r.Logger, "execx")

	fmt.Fprintf(out, "Running Command: \"%s\"\n", spec.String())
	logger.Debug("running command", logging.String(logging.FieldCommand, spec.String()))

	result := Result{Command: append(Spec(nil), spec...)}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, spec[0], spec[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.Bytes()
	result.Stderr = stderr.Bytes()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			result.ExitCode = exitCodeOf(cmd, err)
			return result, fmt.Errorf("run %q: %w", spec.String(), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = SpawnFailureCode
			result.Stderr = []byte(fmt.Sprintf("execution error: %v", err))
		}
	}

	if result.Success() {
		return result, nil
	}

	r.report(out, logger, result)
	if failFast {
		return result, &CommandError{Result: result}
	}
	return result, nil
}

func (r ExecRunner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

// report writes the return code and every captured line.
func (r ExecRunner) report(out io.Writer, logger *slog.Logger, result Result) {
	fmt.Fprintf(out, "Return code:%d\n", result.ExitCode)
	for _, line := range result.StdoutLines() {
		fmt.Fprintf(out, "STDOUT: %s\n", line)
	}
	for _, line := range result.StderrLines() {
		fmt.Fprintf(out, "STDERR: %s\n", line)
	}
	logger.Error("command failed",
		logging.String(logging.FieldCommand, result.Command.String()),
		logging.Int(logging.FieldExitCode, result.ExitCode),
		logging.String("stderr", strings.TrimSpace(string(result.Stderr))),
	)
}

func exitCodeOf(cmd *exec.Cmd, err error) int {
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code > 0 {
			return code
		}
		return SignaledCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return SpawnFailureCode
}

func splitLines(data []byte) []string {
	text := strings.TrimRight(string(data), "\r\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	return lines
}
