package eval

import "github.com/sunholo/lwlang/internal/core"

// whileExec re-evaluates its head comparison before every body run.
// The check itself is not a step; it is rolled into the next body step.
type whileExec struct {
	comp comparisonExec
	body Exec

	check     bool
	exhausted bool
}

func newWhileExec(w core.While) *whileExec {
	return &whileExec{
		comp:  newComparisonExec(w.Comp),
		body:  NewExec(w.Body),
		check: true,
	}
}

func (w *whileExec) Step(locals Variables) *StepResult {
	for {
		if w.check {
			w.check = false
			w.exhausted = !w.comp.exec(locals)
		}
		if w.exhausted {
			return nil
		}

		if result := w.body.Step(locals); result != nil {
			return result
		}
		w.body = w.body.Renew()
		w.check = true
	}
}

func (w *whileExec) Renew() Exec {
	return &whileExec{
		comp:  w.comp,
		body:  w.body.Renew(),
		check: true,
	}
}
