package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/lwlang/internal/ast"
)

func TestDedupByVariant(t *testing.T) {
	collision := func() *Error {
		return &Error{Code: FunctionNameCollision, Module: "fs::main", Func: "d", Count: 4}
	}

	list := List{}.
		Append(collision()).
		Append(collision()).
		Append(&Error{Code: FunctionNameCollision, Module: "fs::main", Func: "e", Count: 2}).
		Append(&Error{Code: CouldNotFindModule, Module: "std::oof"})

	deduped := list.Dedup()

	assert.Len(t, deduped, 3)
	assert.Equal(t, FunctionNameCollision, deduped[0].Code)
	assert.Equal(t, "d", deduped[0].Func)
	assert.Equal(t, "e", deduped[1].Func)
	assert.Equal(t, CouldNotFindModule, deduped[2].Code)
}

func TestDedupIgnoresLineNumbers(t *testing.T) {
	first := ast.NewLineNo(1, 0)
	second := ast.NewLineNo(7, 2)

	list := List{
		{Code: CouldNotFindFunction, Module: "fs::a", Func: "f", Lno: &first},
		{Code: CouldNotFindFunction, Module: "fs::a", Func: "f", Lno: &second},
	}

	assert.Len(t, list.Dedup(), 1)
}

func TestMergeAndErr(t *testing.T) {
	var list List
	assert.NoError(t, list.Err())

	list = list.Merge(List{{Code: CircularImport, Module: "fs::a"}})
	assert.Error(t, list.Err())
	assert.True(t, list.HasCode(CircularImport))
	assert.False(t, list.HasCode(CouldNotFindModule))
	assert.Equal(t, CircularImport, list.FirstCode())
}

func TestErrorString(t *testing.T) {
	lno := ast.NewLineNo(3, 1)
	err := Newf(StrictModeViolation, &lno, "macro constructs are forbidden")

	assert.Equal(t, "StrictModeViolation at line 3: macro constructs are forbidden", err.Error())
}
