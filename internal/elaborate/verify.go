package elaborate

import (
	"fmt"

	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/flags"
)

// constIdents are the variables that may not be assigned when
// CNF_CONST is set.
var constIdents = map[string]bool{ZeroIdent: true}

// Verify walks a lowered program and reports assignments to const
// variables. It is a no-op unless CNF_CONST is set.
func Verify(f flags.CompileFlags, e core.Expr) errors.List {
	if !f.Has(flags.Const) {
		return nil
	}
	return verifyExpr(e)
}

func verifyExpr(e core.Expr) errors.List {
	var errs errors.List

	switch n := e.(type) {
	case core.Assign:
		if constIdents[n.Lhs.Name] {
			lno := n.Lno
			errs = errs.Append(&errors.Error{
				Code: errors.ConstAssignment,
				Lno:  &lno,
				Message: fmt.Sprintf(
					"tried to assign a value to declared CONST %s, not allowed with compilation flag CNF_CONST",
					n.Lhs.Name),
			})
		}
	case core.Loop:
		errs = errs.Merge(verifyExpr(n.Body))
	case core.While:
		errs = errs.Merge(verifyExpr(n.Body))
	case core.Terms:
		for _, child := range n.List {
			errs = errs.Merge(verifyExpr(child))
		}
	}

	return errs
}
