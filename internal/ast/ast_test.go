package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineNoEndAt(t *testing.T) {
	a := LineNo{RowStart: 1, RowEnd: 1, ColStart: 0, ColEnd: 10}
	b := LineNo{RowStart: 3, RowEnd: 4, ColStart: 2, ColEnd: 7}

	got := a.EndAt(b)

	assert.Equal(t, LineNo{RowStart: 1, RowEnd: 4, ColStart: 0, ColEnd: 7}, got)
	assert.Equal(t, 1, got.Line())
}

func TestLineNoString(t *testing.T) {
	assert.Equal(t, "2:1-5", LineNo{RowStart: 2, RowEnd: 2, ColStart: 1, ColEnd: 5}.String())
	assert.Equal(t, "2:1-4:5", LineNo{RowStart: 2, RowEnd: 4, ColStart: 1, ColEnd: 5}.String())
}

func TestDisplayStatements(t *testing.T) {
	loop := &Loop{
		Ident: &Ident{Name: "x"},
		Body: &Terms{List: []Node{
			&Assign{
				Lhs: &Ident{Name: "y"},
				Rhs: &BinOp{Lhs: &Ident{Name: "y"}, Verb: OpPlus, Rhs: NewNat(1)},
			},
		}},
	}

	assert.Equal(t, "LOOP x DO\n    y := y + 1\nEND", loop.String())

	cond := &Cond{
		Comp: &Comparison{Lhs: &Ident{Name: "a"}, Verb: CompGe, Rhs: NewNat(2)},
		If:   &Terms{List: []Node{&NoOp{}}},
		Else: &Terms{List: []Node{&AssignZero{Lhs: &Ident{Name: "b"}}}},
	}

	assert.Equal(t, "IF a >= 2 THEN\n    ...\nELSE\n    b := 0\nEND", cond.String())
}

func TestDisplayModule(t *testing.T) {
	mod := &Module{
		Imports: []*Import{
			{Path: []string{"fs", "a"}, Funcs: []*ImportFunc{
				{Ident: &Ident{Name: "d"}, Alias: &Ident{Name: "c"}},
			}},
			{Path: []string{"std", "math"}, Wildcard: true},
		},
		Decls: []*FuncDecl{{
			Ident:  &Ident{Name: "f"},
			Params: []Node{&Ident{Name: "a"}, &Ident{Name: "b"}},
			Ret:    &Ident{Name: "r"},
			Body:   &Terms{List: []Node{&NoOp{}}},
		}},
		Code: &NoOp{},
	}

	want := "FROM fs::a IMPORT d AS c\n" +
		"FROM std::math IMPORT *\n" +
		"FN f(a, b) -> r DECL\n    ...\nEND"
	assert.Equal(t, want, mod.String())
}

func TestDisplayCall(t *testing.T) {
	call := &Call{
		Lhs:  &Ident{Name: "r"},
		Func: &Ident{Name: "mul"},
		Args: []Node{&Ident{Name: "x"}, NewNat(3)},
	}
	assert.Equal(t, "r := mul(x, 3)", call.String())
}
