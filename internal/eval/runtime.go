package eval

import (
	"errors"

	"github.com/sunholo/lwlang/internal/core"
)

// ErrStepLimit is reported by Run when the step budget is exhausted
// before the program finishes.
var ErrStepLimit = errors.New("step limit exceeded")

// Runtime drives a compiled program step by step. It owns its variable
// store; the initial locals are kept aside so Reset restores them
// exactly.
type Runtime struct {
	exec    Exec
	initial Variables
	locals  Variables
	running bool
}

// NewRuntime builds a Runtime over a kernel program. locals may be nil.
func NewRuntime(prog core.Expr, locals Variables) *Runtime {
	if locals == nil {
		locals = make(Variables)
	}
	return &Runtime{
		exec:    NewExec(prog),
		initial: locals.Clone(),
		locals:  locals.Clone(),
		running: true,
	}
}

// Step executes one atomic action and reports the source line plus the
// changed identifiers, or nil once the program has finished.
func (r *Runtime) Step() *StepResult {
	result := r.exec.Step(r.locals)
	if result == nil {
		r.running = false
	}
	return result
}

// Reset restores the initial locals and renews every executable state.
func (r *Runtime) Reset() {
	r.locals = r.initial.Clone()
	r.exec = r.exec.Renew()
	r.running = true
}

// IsRunning reports whether the program still has steps left.
func (r *Runtime) IsRunning() bool { return r.running }

// Context returns a snapshot of the current locals.
func (r *Runtime) Context() Variables { return r.locals.Clone() }

// Run steps the program to completion. With a positive limit it stops
// after that many steps and reports ErrStepLimit; a limit of zero means
// unbounded. It returns the number of steps taken.
func (r *Runtime) Run(limit int) (int, error) {
	steps := 0
	for r.running {
		if limit > 0 && steps >= limit {
			return steps, ErrStepLimit
		}
		r.Step()
		steps++
	}
	return steps, nil
}
