package eval

import (
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
)

// compSide is one operand of a comparison: a variable or a literal.
type compSide struct {
	ident string
	value *big.Int // nil when ident is set
}

func newCompSide(op core.Operand) compSide {
	switch o := op.(type) {
	case core.Ident:
		return compSide{ident: o.Name}
	case core.Nat:
		return compSide{value: o.Value}
	default:
		panic("comparison operand must be an identifier or a number")
	}
}

func (s compSide) resolve(locals Variables) *big.Int {
	if s.value != nil {
		return s.value
	}
	return locals.Get(s.ident)
}

// comparisonExec evaluates a while-head comparison against the store.
type comparisonExec struct {
	lhs  compSide
	verb ast.CompVerb
	rhs  compSide
}

func newComparisonExec(c core.Comparison) comparisonExec {
	return comparisonExec{
		lhs:  newCompSide(c.Lhs),
		verb: c.Verb,
		rhs:  newCompSide(c.Rhs),
	}
}

func (c comparisonExec) exec(locals Variables) bool {
	cmp := c.lhs.resolve(locals).Cmp(c.rhs.resolve(locals))

	switch c.verb {
	case ast.CompEq:
		return cmp == 0
	case ast.CompNe:
		return cmp != 0
	case ast.CompGt:
		return cmp > 0
	case ast.CompGe:
		return cmp >= 0
	case ast.CompLt:
		return cmp < 0
	case ast.CompLe:
		return cmp <= 0
	}
	return false
}
