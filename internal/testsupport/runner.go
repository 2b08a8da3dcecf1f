package testsupport

import (
	"context"
	"sync"

	"pattooweb/internal/execx"
)

// FakeRunner returns canned exit codes keyed by the rendered command line and
// records every call. Unknown commands succeed.
type FakeRunner struct {
	mu    sync.Mutex
	codes map[string]int
	calls []execx.Spec
}

// NewFakeRunner builds a FakeRunner from command line to exit code.
func NewFakeRunner(codes map[string]int) *FakeRunner {
	return &FakeRunner{codes: codes}
}

func (f *FakeRunner) Run(_ context.Context, spec execx.Spec, failFast bool) (execx.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append(execx.Spec(nil), spec...))
	code := f.codes[spec.String()]
	f.mu.Unlock()

	result := execx.Result{Command: spec, ExitCode: code}
	if code != 0 {
		result.Stderr = []byte("simulated failure")
		if failFast {
			return result, &execx.CommandError{Result: result}
		}
	}
	return result, nil
}

// Calls returns the rendered command lines in invocation order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, spec := range f.calls {
		out = append(out, spec.String())
	}
	return out
}
