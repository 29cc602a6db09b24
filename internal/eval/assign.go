package eval

import (
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
)

// binOpExec evaluates the kernel arithmetic form `x ± c`. Subtraction
// saturates at zero.
type binOpExec struct {
	lhs  string
	verb ast.OpVerb
	rhs  *big.Int
}

func newBinOpExec(b core.BinOp) binOpExec {
	return binOpExec{lhs: b.Lhs.Name, verb: b.Verb, rhs: b.Rhs.Value}
}

func (b binOpExec) exec(locals Variables) *big.Int {
	lhs := locals.Get(b.lhs)

	switch b.verb {
	case ast.OpPlus:
		return new(big.Int).Add(lhs, b.rhs)
	case ast.OpMinus:
		if lhs.Cmp(b.rhs) <= 0 {
			return big.NewInt(0)
		}
		return new(big.Int).Sub(lhs, b.rhs)
	default:
		panic("cannot multiply in LOOP/WHILE")
	}
}

// assignExec writes one assignment and is exhausted afterwards.
type assignExec struct {
	lhs       string
	rhs       binOpExec
	lno       ast.LineNo
	exhausted bool
}

func newAssignExec(a core.Assign) *assignExec {
	return &assignExec{
		lhs: a.Lhs.Name,
		rhs: newBinOpExec(a.Rhs),
		lno: a.Lno,
	}
}

func (a *assignExec) Step(locals Variables) *StepResult {
	if a.exhausted {
		return nil
	}

	locals[a.lhs] = a.rhs.exec(locals)
	a.exhausted = true

	return &StepResult{Line: a.lno.Line(), Changed: []string{a.lhs}}
}

func (a *assignExec) Renew() Exec {
	return &assignExec{lhs: a.lhs, rhs: a.rhs, lno: a.lno}
}
