// Package execx runs external commands and captures their outcome as data.
//
// Commands are discrete argument vectors, never shell strings. Every call
// blocks until the child exits and returns a Result holding the exit code and
// both output streams. A child that cannot be launched at all still produces
// a Result (exit code 127 with the launch error in place of stderr), so
// callers always branch on Result.Success instead of on error types.
//
// Callers that cannot continue after a failing command pass failFast; the
// runner then surfaces the full diagnostics and returns a *CommandError that
// the CLI boundary turns into exit status 2.
package execx
