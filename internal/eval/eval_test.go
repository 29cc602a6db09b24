package eval

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
)

func kernelAssign(lno int, lhs, rhs string, verb ast.OpVerb, n uint64) core.Assign {
	return core.Assign{
		Lno: ast.NewLineNo(lno, 0),
		Lhs: core.Ident{Name: lhs},
		Rhs: core.BinOp{Lhs: core.Ident{Name: rhs}, Verb: verb, Rhs: core.NewNat(n)},
	}
}

func locals(pairs map[string]int64) Variables {
	vars := Variables{}
	for name, value := range pairs {
		vars[name] = big.NewInt(value)
	}
	return vars
}

func TestAssignStep(t *testing.T) {
	exec := NewExec(kernelAssign(3, "x", "x", ast.OpPlus, 2))
	store := locals(map[string]int64{"x": 1})

	result := exec.Step(store)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.Line)
	assert.Equal(t, []string{"x"}, result.Changed)
	assert.Equal(t, "3", store["x"].String())

	assert.Nil(t, exec.Step(store), "assign is exhausted after one step")
}

func TestAssignLazyZeroRead(t *testing.T) {
	exec := NewExec(kernelAssign(1, "x", "missing", ast.OpPlus, 7))
	store := Variables{}

	exec.Step(store)
	assert.Equal(t, "7", store["x"].String())
	_, tracked := store["missing"]
	assert.False(t, tracked, "reading must not materialize the variable")
}

func TestSaturatingSubtraction(t *testing.T) {
	exec := NewExec(kernelAssign(1, "x", "x", ast.OpMinus, 10))
	store := locals(map[string]int64{"x": 3})

	exec.Step(store)
	assert.Equal(t, "0", store["x"].String())
}

func TestTermsSequencing(t *testing.T) {
	exec := NewExec(core.Terms{List: []core.Expr{
		kernelAssign(1, "a", "a", ast.OpPlus, 1),
		kernelAssign(2, "b", "a", ast.OpPlus, 1),
	}})
	store := Variables{}

	first := exec.Step(store)
	require.NotNil(t, first)
	assert.Equal(t, []string{"a"}, first.Changed)

	second := exec.Step(store)
	require.NotNil(t, second)
	assert.Equal(t, []string{"b"}, second.Changed)
	// a's effect was visible before b evaluated.
	assert.Equal(t, "2", store["b"].String())

	assert.Nil(t, exec.Step(store))
}

func TestLoopInitIsOneStep(t *testing.T) {
	exec := NewExec(core.Loop{
		Lno:   ast.NewLineNo(1, 0),
		Ident: core.Ident{Name: "n"},
		Body:  core.Terms{List: []core.Expr{kernelAssign(2, "x", "x", ast.OpPlus, 1)}},
	})
	store := locals(map[string]int64{"n": 2})

	init := exec.Step(store)
	require.NotNil(t, init)
	assert.Equal(t, []string{InternalChange}, init.Changed)

	// Two body iterations, then exhaustion.
	require.NotNil(t, exec.Step(store))
	require.NotNil(t, exec.Step(store))
	assert.Nil(t, exec.Step(store))
	assert.Equal(t, "2", store["x"].String())
}

func TestLoopCapturesIterationCount(t *testing.T) {
	// The loop writes its own counter; the trip count must not change.
	exec := NewExec(core.Loop{
		Lno:   ast.NewLineNo(1, 0),
		Ident: core.Ident{Name: "n"},
		Body:  core.Terms{List: []core.Expr{kernelAssign(2, "n", "n", ast.OpPlus, 5)}},
	})
	store := locals(map[string]int64{"n": 2})

	steps := 0
	for exec.Step(store) != nil {
		steps++
		require.Less(t, steps, 100, "loop must terminate")
	}
	assert.Equal(t, 3, steps) // init + 2 iterations
	assert.Equal(t, "12", store["n"].String())
}

func TestLoopWithZeroIterations(t *testing.T) {
	exec := NewExec(core.Loop{
		Lno:   ast.NewLineNo(1, 0),
		Ident: core.Ident{Name: "n"},
		Body:  core.Terms{List: []core.Expr{kernelAssign(2, "x", "x", ast.OpPlus, 1)}},
	})
	store := Variables{}

	require.NotNil(t, exec.Step(store)) // init
	assert.Nil(t, exec.Step(store))
	_, written := store["x"]
	assert.False(t, written)
}

func TestWhileCountdown(t *testing.T) {
	exec := NewExec(core.While{
		Lno: ast.NewLineNo(1, 0),
		Comp: core.Comparison{
			Lhs:  core.Ident{Name: "x"},
			Verb: ast.CompNe,
			Rhs:  core.NewNat(0),
		},
		Body: core.Terms{List: []core.Expr{kernelAssign(2, "x", "x", ast.OpMinus, 1)}},
	})
	store := locals(map[string]int64{"x": 5})

	steps := 0
	for exec.Step(store) != nil {
		steps++
		require.Less(t, steps, 100)
	}
	assert.Equal(t, 5, steps)
	assert.Equal(t, "0", store["x"].String())
}

func TestWhileFalseHeadDoesNothing(t *testing.T) {
	exec := NewExec(core.While{
		Comp: core.Comparison{
			Lhs:  core.Ident{Name: "x"},
			Verb: ast.CompNe,
			Rhs:  core.NewNat(0),
		},
		Body: core.Terms{List: []core.Expr{kernelAssign(2, "y", "y", ast.OpPlus, 1)}},
	})
	store := Variables{}

	assert.Nil(t, exec.Step(store))
	_, written := store["y"]
	assert.False(t, written)
}

func TestComparisonVerbs(t *testing.T) {
	store := locals(map[string]int64{"a": 2, "b": 3})

	tests := []struct {
		verb ast.CompVerb
		want bool
	}{
		{ast.CompEq, false},
		{ast.CompNe, true},
		{ast.CompGt, false},
		{ast.CompGe, false},
		{ast.CompLt, true},
		{ast.CompLe, true},
	}

	for _, tt := range tests {
		t.Run(tt.verb.String(), func(t *testing.T) {
			comp := newComparisonExec(core.Comparison{
				Lhs:  core.Ident{Name: "a"},
				Verb: tt.verb,
				Rhs:  core.Ident{Name: "b"},
			})
			assert.Equal(t, tt.want, comp.exec(store))
		})
	}
}

func TestComparisonLessEqualOnEqualValues(t *testing.T) {
	store := locals(map[string]int64{"a": 3, "b": 3})

	comp := newComparisonExec(core.Comparison{
		Lhs:  core.Ident{Name: "a"},
		Verb: ast.CompLe,
		Rhs:  core.Ident{Name: "b"},
	})
	assert.True(t, comp.exec(store))

	store["a"] = big.NewInt(4)
	assert.False(t, comp.exec(store), "4 <= 3 must be false")
}

func TestMultiplyInKernelPanics(t *testing.T) {
	exec := NewExec(core.Assign{
		Lhs: core.Ident{Name: "x"},
		Rhs: core.BinOp{Lhs: core.Ident{Name: "x"}, Verb: ast.OpMultiply, Rhs: core.NewNat(2)},
	})

	assert.Panics(t, func() { exec.Step(Variables{}) })
}
