package elaborate

import (
	"fmt"
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/flags"
)

// Lower compiles a surface node to the kernel language. Errors are
// accumulated: a failing sibling does not stop the others from being
// checked.
func Lower(ctx *CompileContext, node ast.Node) (core.Expr, errors.List) {
	switch n := node.(type) {
	case *ast.Terms:
		return lowerTerms(ctx, n.List)
	case *ast.NoOp:
		return core.Terms{}, nil
	case *ast.Assign:
		return lowerAssign(ctx, n)
	case *ast.Loop:
		return lowerLoop(ctx, n)
	case *ast.While:
		return lowerWhile(ctx, n)

	case *ast.AssignIdent:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerAssignIdent(ctx, n)
		})
	case *ast.AssignZero:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerAssignZero(ctx, n)
		})
	case *ast.AssignValue:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerAssignValue(ctx, n)
		})
	case *ast.AssignBinOp:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerAssignBinOp(ctx, n)
		})
	case *ast.AssignBinOpValue:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerAssignBinOpValue(ctx, n)
		})
	case *ast.Cond:
		return lowerMacro(ctx, &n.Lno, func() (core.Expr, errors.List) {
			return lowerCond(ctx, n)
		})

	case *ast.Call:
		return lowerCall(ctx, n)

	default:
		return nil, errors.List{errors.Newf(errors.UnexpectedExprType, nil,
			"cannot lower %T", node)}
	}
}

// lowerMacro gates macro expansion behind the strict flags.
func lowerMacro(ctx *CompileContext, lno *ast.LineNo, expand func() (core.Expr, errors.List)) (core.Expr, errors.List) {
	if ctx.Flags.NoMacros() {
		return nil, errors.List{{
			Code:    errors.StrictModeViolation,
			Lno:     lno,
			Kind:    "macro",
			Message: "macro constructs are forbidden in strict mode",
		}}
	}
	return expand()
}

func lowerTerms(ctx *CompileContext, list []ast.Node) (core.Expr, errors.List) {
	var errs errors.List
	terms := make([]core.Expr, 0, len(list))

	for _, node := range list {
		expr, nodeErrs := Lower(ctx, node)
		if len(nodeErrs) > 0 {
			errs = errs.Merge(nodeErrs)
			continue
		}
		terms = append(terms, expr)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return core.Terms{List: terms}, nil
}

// lowerAssign narrows a pure assignment into the kernel shape
// `ident := ident ± nat`.
func lowerAssign(ctx *CompileContext, n *ast.Assign) (core.Expr, errors.List) {
	var errs errors.List

	lhs, err := identName(n.Lhs, &n.Lno)
	if err != nil {
		errs = errs.Append(err)
	}

	binop, ok := n.Rhs.(*ast.BinOp)
	if !ok {
		errs = errs.Append(unexpected(&n.Lno, "BinaryOp", n.Rhs))
		return nil, errs
	}

	opLhs, err := identName(binop.Lhs, &n.Lno)
	if err != nil {
		errs = errs.Append(err)
	}
	opRhs, ok := binop.Rhs.(*ast.Nat)
	if !ok {
		errs = errs.Append(unexpected(&n.Lno, "NaturalNumber", binop.Rhs))
	}
	if binop.Verb == ast.OpMultiply {
		errs = errs.Append(errors.Newf(errors.UnsupportedConstruct, &n.Lno,
			"multiplication is not a kernel operation"))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return core.Assign{
		Lno: n.Lno,
		Lhs: core.Ident{Name: lhs},
		Rhs: core.BinOp{
			Lhs:  core.Ident{Name: opLhs},
			Verb: binop.Verb,
			Rhs:  core.Nat{Value: opRhs.Value},
		},
	}, nil
}

// lowerLoop lowers `LOOP x DO body END`, rewriting it into a
// WHILE-decrement form when only WHILE is enabled.
func lowerLoop(ctx *CompileContext, n *ast.Loop) (core.Expr, errors.List) {
	var errs errors.List

	ident, err := identName(n.Ident, &n.Lno)
	if err != nil {
		errs = errs.Append(err)
	}
	body, bodyErrs := Lower(ctx, n.Body)
	errs = errs.Merge(bodyErrs)

	if !ctx.Flags.Intersects(flags.LoopAndWhile) {
		errs = errs.Append(errors.Newf(errors.UnsupportedConstruct, &n.Lno,
			"cannot use LOOP if LOOP and WHILE are not enabled"))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if ctx.Flags.Has(flags.Loop) {
		return core.Loop{Lno: n.Lno, Ident: core.Ident{Name: ident}, Body: body}, nil
	}

	// WHILE-only mode: LOOP x DO B END becomes
	//   _k := x
	//   WHILE _k != 0 DO B; _k := _k - 1 END
	if ctx.Flags.Has(flags.StrictMode) {
		return nil, errors.List{errors.Newf(errors.UnsupportedConstruct, &n.Lno,
			"strict mode forbids rewriting LOOP into WHILE")}
	}

	tmp := ctx.FreshIdent()
	counter, initErrs := Lower(ctx, &ast.AssignIdent{
		Lno: n.Lno,
		Lhs: &ast.Ident{Name: tmp},
		Rhs: &ast.Ident{Name: ident},
	})
	if len(initErrs) > 0 {
		return nil, initErrs
	}

	return core.Terms{List: []core.Expr{
		counter,
		core.While{
			Lno: n.Lno,
			Comp: core.Comparison{
				Lhs:  core.Ident{Name: tmp},
				Verb: ast.CompNe,
				Rhs:  core.NewNat(0),
			},
			Body: core.Terms{List: []core.Expr{
				body,
				core.Assign{
					Lno: n.Lno,
					Lhs: core.Ident{Name: tmp},
					Rhs: core.BinOp{
						Lhs:  core.Ident{Name: tmp},
						Verb: ast.OpMinus,
						Rhs:  core.NewNat(1),
					},
				},
			}},
		},
	}}, nil
}

// lowerWhile lowers `WHILE x != 0 DO body END`. The head must already
// be the kernel comparison; anything else cannot be replicated.
func lowerWhile(ctx *CompileContext, n *ast.While) (core.Expr, errors.List) {
	var errs errors.List

	body, bodyErrs := Lower(ctx, n.Body)
	errs = errs.Merge(bodyErrs)

	if !ctx.Flags.Has(flags.While) {
		errs = errs.Append(errors.Newf(errors.UnsupportedConstruct, &n.Lno,
			"cannot replicate WHILE in LOOP mode"))
	}

	comp, ok := n.Comp.(*ast.Comparison)
	if !ok {
		errs = errs.Append(unexpected(&n.Lno, "Comparison", n.Comp))
		return nil, errs
	}
	lhs, err := identName(comp.Lhs, &n.Lno)
	if err != nil {
		errs = errs.Append(err)
	}
	rhs, isNat := comp.Rhs.(*ast.Nat)
	if comp.Verb != ast.CompNe || !isNat || rhs.Value.Sign() != 0 {
		errs = errs.Append(errors.Newf(errors.UnsupportedConstruct, &n.Lno,
			"WHILE head must be of the form `x != 0`"))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return core.While{
		Lno: n.Lno,
		Comp: core.Comparison{
			Lhs:  core.Ident{Name: lhs},
			Verb: ast.CompNe,
			Rhs:  core.NewNat(0),
		},
		Body: body,
	}, nil
}

// Narrowing helpers.

func identName(n ast.Node, lno *ast.LineNo) (string, *errors.Error) {
	if id, ok := n.(*ast.Ident); ok {
		return id.Name, nil
	}
	return "", unexpected(lno, "Ident", n)
}

func natValue(n ast.Node, lno *ast.LineNo) (*big.Int, *errors.Error) {
	if nat, ok := n.(*ast.Nat); ok {
		return nat.Value, nil
	}
	return nil, unexpected(lno, "NaturalNumber", n)
}

func unexpected(lno *ast.LineNo, expected string, got ast.Node) *errors.Error {
	return &errors.Error{
		Code:     errors.UnexpectedExprType,
		Lno:      lno,
		Expected: expected,
		Got:      fmt.Sprintf("%T", got),
		Message:  fmt.Sprintf("expected %s, got %T", expected, got),
	}
}
