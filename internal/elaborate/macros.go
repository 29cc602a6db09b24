package elaborate

import (
	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/flags"
)

// ZeroIdent is the reserved constant-zero variable emitted by the
// OPT_ZERO expansion. With CNF_CONST set it may never be assigned.
const ZeroIdent = "_zero"

// Macro expansion for `x := y`:
//
//	x := y + 0
func lowerAssignIdent(ctx *CompileContext, n *ast.AssignIdent) (core.Expr, errors.List) {
	return Lower(ctx, &ast.Assign{
		Lno: n.Lno,
		Lhs: n.Lhs,
		Rhs: &ast.BinOp{Lhs: n.Rhs, Verb: ast.OpPlus, Rhs: ast.NewNat(0)},
	})
}

// Macro expansion for `x := 0`:
//
//	LOOP x DO x := x - 1 END
//
// or, with OPT_ZERO, `x := _zero + 0`.
func lowerAssignZero(ctx *CompileContext, n *ast.AssignZero) (core.Expr, errors.List) {
	if ctx.Flags.Has(flags.OptZero) {
		return Lower(ctx, &ast.Assign{
			Lno: n.Lno,
			Lhs: n.Lhs,
			Rhs: &ast.BinOp{
				Lhs:  &ast.Ident{Name: ZeroIdent},
				Verb: ast.OpPlus,
				Rhs:  ast.NewNat(0),
			},
		})
	}

	return Lower(ctx, &ast.Loop{
		Lno:   n.Lno,
		Ident: n.Lhs,
		Body: &ast.Terms{List: []ast.Node{
			&ast.Assign{
				Lno: n.Lno,
				Lhs: n.Lhs,
				Rhs: &ast.BinOp{Lhs: n.Lhs, Verb: ast.OpMinus, Rhs: ast.NewNat(1)},
			},
		}},
	})
}

// Macro expansion for `x := n`:
//
//	x := 0
//	x := x + n
//
// or, with OPT_ZERO, `x := _zero + n`.
func lowerAssignValue(ctx *CompileContext, n *ast.AssignValue) (core.Expr, errors.List) {
	if ctx.Flags.Has(flags.OptZero) {
		return Lower(ctx, &ast.Assign{
			Lno: n.Lno,
			Lhs: n.Lhs,
			Rhs: &ast.BinOp{Lhs: &ast.Ident{Name: ZeroIdent}, Verb: ast.OpPlus, Rhs: n.Rhs},
		})
	}

	return Lower(ctx, &ast.Terms{List: []ast.Node{
		&ast.AssignZero{Lno: n.Lno, Lhs: n.Lhs},
		&ast.Assign{
			Lno: n.Lno,
			Lhs: n.Lhs,
			Rhs: &ast.BinOp{Lhs: n.Lhs, Verb: ast.OpPlus, Rhs: n.Rhs},
		},
	}})
}

// Macro expansion for `x := y ⊕ z` with identifier operands.
func lowerAssignBinOp(ctx *CompileContext, n *ast.AssignBinOp) (core.Expr, errors.List) {
	if n.Rhs.Verb == ast.OpMultiply {
		// x := 0
		// LOOP y DO x := x + z END
		return Lower(ctx, &ast.Terms{List: []ast.Node{
			&ast.AssignZero{Lno: n.Lno, Lhs: n.Lhs},
			&ast.Loop{
				Lno:   n.Lno,
				Ident: n.Rhs.Lhs,
				Body: &ast.Terms{List: []ast.Node{
					&ast.AssignBinOp{
						Lno: n.Lno,
						Lhs: n.Lhs,
						Rhs: ast.MacroAssign{Lhs: n.Lhs, Verb: ast.OpPlus, Rhs: n.Rhs.Rhs},
					},
				}},
			},
		}})
	}

	// x := y
	// LOOP z DO x := x ± 1 END
	return Lower(ctx, &ast.Terms{List: []ast.Node{
		&ast.AssignIdent{Lno: n.Lno, Lhs: n.Lhs, Rhs: n.Rhs.Lhs},
		&ast.Loop{
			Lno:   n.Lno,
			Ident: n.Rhs.Rhs,
			Body: &ast.Terms{List: []ast.Node{
				&ast.Assign{
					Lno: n.Lno,
					Lhs: n.Lhs,
					Rhs: &ast.BinOp{Lhs: n.Lhs, Verb: n.Rhs.Verb, Rhs: ast.NewNat(1)},
				},
			}},
		},
	}})
}

// Macro expansion for `x := y * n` with a literal operand:
//
//	_k := n
//	x := y * _k
func lowerAssignBinOpValue(ctx *CompileContext, n *ast.AssignBinOpValue) (core.Expr, errors.List) {
	if n.Rhs.Verb != ast.OpMultiply {
		return nil, errors.List{unexpected(&n.Lno, "Multiply", n.Rhs.Rhs)}
	}

	value, err := natValue(n.Rhs.Rhs, &n.Lno)
	if err != nil {
		return nil, errors.List{err}
	}

	tmp := &ast.Ident{Name: ctx.FreshIdent()}

	var load ast.Node
	if value.Sign() == 0 {
		load = &ast.AssignZero{Lno: n.Lno, Lhs: tmp}
	} else {
		load = &ast.AssignValue{Lno: n.Lno, Lhs: tmp, Rhs: &ast.Nat{Value: value}}
	}

	return Lower(ctx, &ast.Terms{List: []ast.Node{
		load,
		&ast.AssignBinOp{
			Lno: n.Lno,
			Lhs: n.Lhs,
			Rhs: ast.MacroAssign{Lhs: n.Rhs.Lhs, Verb: ast.OpMultiply, Rhs: tmp},
		},
	}})
}
