package elaborate

import (
	"math/big"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
)

// compSide is one comparison operand: an identifier or a literal that
// still has to be materialized into a temporary.
type compSide struct {
	ident string
	value *big.Int // nil when ident is set
}

func (s compSide) isValue() bool { return s.value != nil }

// lowerCond expands `IF a ⋈ b THEN I [ELSE E] END` for all six verbs.
// Every verb reduces to the `>` or `!= 0` schema; literals are
// materialized as temporaries first.
func lowerCond(ctx *CompileContext, n *ast.Cond) (core.Expr, errors.List) {
	comp, ok := n.Comp.(*ast.Comparison)
	if !ok {
		return nil, errors.List{unexpected(&n.Lno, "Comparison", n.Comp)}
	}

	lhs, err := compOperand(comp.Lhs, &n.Lno)
	if err != nil {
		return nil, errors.List{err}
	}
	rhs, err := compOperand(comp.Rhs, &n.Lno)
	if err != nil {
		return nil, errors.List{err}
	}

	switch comp.Verb {
	case ast.CompGt:
		return lowerCompGt(ctx, n.Lno, nil, lhs, rhs, n.If, n.Else)
	case ast.CompGe:
		return lowerCompGte(ctx, n.Lno, nil, lhs, rhs, n.If, n.Else)
	case ast.CompLt:
		// a < b  ==  b > a
		return lowerCompGt(ctx, n.Lno, nil, rhs, lhs, n.If, n.Else)
	case ast.CompLe:
		// a <= b  ==  b >= a
		return lowerCompGte(ctx, n.Lno, nil, rhs, lhs, n.If, n.Else)
	case ast.CompNe:
		if rhs.isValue() && rhs.value.Sign() == 0 {
			return lowerCompNotZero(ctx, n.Lno, nil, lhs, n.If, n.Else)
		}
		return lowerCompNeq(ctx, n.Lno, lhs, rhs, n.If, n.Else)
	case ast.CompEq:
		return lowerCompEq(ctx, n.Lno, lhs, rhs, n.If, n.Else)
	}

	return nil, errors.List{errors.Newf(errors.UnsupportedConstruct, &n.Lno,
		"unsupported comparison verb %s", comp.Verb)}
}

// Macro expansion for `IF a != 0 THEN I [ELSE E] END`:
//
//	_1 := 0
//	_2 := 1
//	LOOP a DO _1 := 1; _2 := 0 END
//	LOOP _1 DO I END
//	LOOP _2 DO E END
func lowerCompNotZero(ctx *CompileContext, lno ast.LineNo, initial []ast.Node, lhs compSide, ifTerms, elseTerms ast.Node) (core.Expr, errors.List) {
	ident := materialize(ctx, lno, lhs, &initial)

	tmp1 := ctx.FreshIdent()
	tmp2 := ctx.FreshIdent()

	initial = append(initial,
		&ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: tmp1}},
		&ast.AssignValue{Lno: lno, Lhs: &ast.Ident{Name: tmp2}, Rhs: ast.NewNat(1)},
		&ast.Loop{
			Lno:   lno,
			Ident: &ast.Ident{Name: ident},
			Body: &ast.Terms{List: []ast.Node{
				&ast.AssignValue{Lno: lno, Lhs: &ast.Ident{Name: tmp1}, Rhs: ast.NewNat(1)},
				&ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: tmp2}},
			}},
		},
	)

	return condBody(ctx, lno, initial, tmp1, ifTerms, tmp2, elseTerms)
}

// Macro expansion for `IF a > b THEN I [ELSE E] END`:
//
//	_1 := a - b
//	_2 := 0
//	_3 := 1
//	LOOP _1 DO _2 := 1; _3 := 0 END
//	LOOP _2 DO I END
//	LOOP _3 DO E END
func lowerCompGt(ctx *CompileContext, lno ast.LineNo, initial []ast.Node, lhs, rhs compSide, ifTerms, elseTerms ast.Node) (core.Expr, errors.List) {
	x := materialize(ctx, lno, lhs, &initial)
	y := materialize(ctx, lno, rhs, &initial)

	tmp1 := ctx.FreshIdent()
	tmp2 := ctx.FreshIdent()
	tmp3 := ctx.FreshIdent()

	initial = append(initial,
		&ast.AssignBinOp{
			Lno: lno,
			Lhs: &ast.Ident{Name: tmp1},
			Rhs: ast.MacroAssign{
				Lhs:  &ast.Ident{Name: x},
				Verb: ast.OpMinus,
				Rhs:  &ast.Ident{Name: y},
			},
		},
		&ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: tmp2}},
		&ast.AssignValue{Lno: lno, Lhs: &ast.Ident{Name: tmp3}, Rhs: ast.NewNat(1)},
		&ast.Loop{
			Lno:   lno,
			Ident: &ast.Ident{Name: tmp1},
			Body: &ast.Terms{List: []ast.Node{
				&ast.AssignValue{Lno: lno, Lhs: &ast.Ident{Name: tmp2}, Rhs: ast.NewNat(1)},
				&ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: tmp3}},
			}},
		},
	)

	return condBody(ctx, lno, initial, tmp2, ifTerms, tmp3, elseTerms)
}

// Macro expansion for `IF a >= b THEN … END`, rewritten as
// `(a + 1) > b`.
func lowerCompGte(ctx *CompileContext, lno ast.LineNo, initial []ast.Node, lhs, rhs compSide, ifTerms, elseTerms ast.Node) (core.Expr, errors.List) {
	if lhs.isValue() {
		lhs = compSide{value: new(big.Int).Add(lhs.value, big.NewInt(1))}
	} else {
		tmp := ctx.FreshIdent()
		initial = append(initial, &ast.Assign{
			Lno: lno,
			Lhs: &ast.Ident{Name: tmp},
			Rhs: &ast.BinOp{
				Lhs:  &ast.Ident{Name: lhs.ident},
				Verb: ast.OpPlus,
				Rhs:  ast.NewNat(1),
			},
		})
		lhs = compSide{ident: tmp}
	}

	return lowerCompGt(ctx, lno, initial, lhs, rhs, ifTerms, elseTerms)
}

// Macro expansion for `IF a == b THEN I ELSE E END`, constructed as
//
//	IF a >= b THEN
//	    IF a <= b THEN I ELSE E END
//	ELSE
//	    E
//	END
func lowerCompEq(ctx *CompileContext, lno ast.LineNo, lhs, rhs compSide, ifTerms, elseTerms ast.Node) (core.Expr, errors.List) {
	inner := &ast.Cond{
		Lno:  lno,
		Comp: &ast.Comparison{Lhs: lhs.node(), Verb: ast.CompLe, Rhs: rhs.node()},
		If:   ifTerms,
		Else: elseTerms,
	}
	outer := &ast.Cond{
		Lno:  lno,
		Comp: &ast.Comparison{Lhs: lhs.node(), Verb: ast.CompGe, Rhs: rhs.node()},
		If:   &ast.Terms{List: []ast.Node{inner}},
		Else: elseTerms,
	}
	return Lower(ctx, outer)
}

// Macro expansion for `IF a != b THEN I [ELSE E] END`: equality with
// the branches swapped, the ELSE branch defaulting to no statements.
func lowerCompNeq(ctx *CompileContext, lno ast.LineNo, lhs, rhs compSide, ifTerms, elseTerms ast.Node) (core.Expr, errors.List) {
	if elseTerms == nil {
		elseTerms = &ast.Terms{}
	}
	return lowerCompEq(ctx, lno, lhs, rhs, elseTerms, ifTerms)
}

// condBody lowers the comparison scaffold plus the guarded branch
// loops. The branches run under `LOOP flag DO … END` with the flag
// holding zero or one.
func condBody(ctx *CompileContext, lno ast.LineNo, scaffold []ast.Node, ifIdent string, ifTerms ast.Node, elseIdent string, elseTerms ast.Node) (core.Expr, errors.List) {
	var errs errors.List
	var terms []core.Expr

	head, headErrs := lowerTerms(ctx, scaffold)
	if len(headErrs) > 0 {
		errs = errs.Merge(headErrs)
	} else {
		terms = append(terms, head)
	}

	ifLoop, ifErrs := Lower(ctx, &ast.Loop{
		Lno:   lno,
		Ident: &ast.Ident{Name: ifIdent},
		Body:  ifTerms,
	})
	if len(ifErrs) > 0 {
		errs = errs.Merge(ifErrs)
	} else {
		terms = append(terms, ifLoop)
	}

	if elseTerms != nil {
		elseLoop, elseErrs := Lower(ctx, &ast.Loop{
			Lno:   lno,
			Ident: &ast.Ident{Name: elseIdent},
			Body:  elseTerms,
		})
		if len(elseErrs) > 0 {
			errs = errs.Merge(elseErrs)
		} else {
			terms = append(terms, elseLoop)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return core.Terms{List: terms}, nil
}

// materialize returns an identifier for the operand, loading literal
// values into a fresh temporary first.
func materialize(ctx *CompileContext, lno ast.LineNo, side compSide, initial *[]ast.Node) string {
	if !side.isValue() {
		return side.ident
	}

	tmp := ctx.FreshIdent()
	if side.value.Sign() == 0 {
		*initial = append(*initial, &ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: tmp}})
	} else {
		*initial = append(*initial, &ast.AssignValue{
			Lno: lno,
			Lhs: &ast.Ident{Name: tmp},
			Rhs: &ast.Nat{Value: side.value},
		})
	}
	return tmp
}

func (s compSide) node() ast.Node {
	if s.isValue() {
		return &ast.Nat{Value: s.value}
	}
	return &ast.Ident{Name: s.ident}
}

func compOperand(n ast.Node, lno *ast.LineNo) (compSide, *errors.Error) {
	switch v := n.(type) {
	case *ast.Ident:
		return compSide{ident: v.Name}, nil
	case *ast.Nat:
		return compSide{value: v.Value}, nil
	}
	return compSide{}, unexpected(lno, "Ident or NaturalNumber", n)
}
