package eval

import (
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
)

// loopExec runs its body a fixed number of times. The iteration count
// is captured from the loop variable on the first step, so later writes
// to it do not change the trip count.
type loopExec struct {
	lno   ast.LineNo
	ident string
	body  Exec

	init  bool
	cur   *big.Int
	iters *big.Int
}

func newLoopExec(l core.Loop) *loopExec {
	return &loopExec{
		lno:   l.Lno,
		ident: l.Ident.Name,
		body:  NewExec(l.Body),
		cur:   big.NewInt(0),
		iters: big.NewInt(0),
	}
}

func (l *loopExec) Step(locals Variables) *StepResult {
	// Capturing the iteration count is itself one step, visible to
	// introspection as a synthetic change.
	if !l.init {
		l.init = true
		l.iters = new(big.Int).Set(locals.Get(l.ident))

		return &StepResult{Line: l.lno.Line(), Changed: []string{InternalChange}}
	}

	for l.cur.Cmp(l.iters) < 0 {
		if result := l.body.Step(locals); result != nil {
			return result
		}
		l.body = l.body.Renew()
		l.cur.Add(l.cur, big.NewInt(1))
	}
	return nil
}

func (l *loopExec) Renew() Exec {
	return &loopExec{
		lno:   l.lno,
		ident: l.ident,
		body:  l.body.Renew(),
		cur:   big.NewInt(0),
		iters: big.NewInt(0),
	}
}
