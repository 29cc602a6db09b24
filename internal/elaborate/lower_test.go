package elaborate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/flags"
	"github.com/sunholo/lwlang/internal/module"
	"github.com/sunholo/lwlang/internal/parser"
)

// lowerSource parses and lowers a plain program (no imports) under the
// given flags, returning the flattened kernel rendering.
func lowerSource(t *testing.T, f flags.CompileFlags, source string) (core.Expr, errors.List) {
	t.Helper()
	main, parseErrs := parser.Parse(source)
	require.Empty(t, parseErrs, "source must parse: %v", parseErrs.Err())

	ctx := NewContext(f, module.ModuleMap{module.Main: module.ModuleContext{}})
	expr, errs := Lower(ctx, main.Code)
	if len(errs) > 0 {
		return nil, errs
	}
	return core.Flatten(expr), nil
}

func rendered(t *testing.T, f flags.CompileFlags, source string) string {
	t.Helper()
	expr, errs := lowerSource(t, f, source)
	require.Empty(t, errs, "lowering failed: %v", errs.Err())
	return expr.String()
}

func TestAssignIdentExpansion(t *testing.T) {
	assert.Equal(t, "x := y + 0", rendered(t, flags.Default(), "x := y"))
}

func TestAssignZeroExpansion(t *testing.T) {
	want := strings.TrimSpace(`
LOOP x DO
    x := x - 1
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := 0"))
}

func TestAssignZeroOptZero(t *testing.T) {
	assert.Equal(t, "x := _zero + 0", rendered(t, flags.Default()|flags.OptZero, "x := 0"))
}

func TestAssignValueExpansion(t *testing.T) {
	want := strings.TrimSpace(`
LOOP x DO
    x := x - 1
END
x := x + 5`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := 5"))
}

func TestAssignValueOptZero(t *testing.T) {
	assert.Equal(t, "x := _zero + 5", rendered(t, flags.Default()|flags.OptZero, "x := 5"))
}

func TestAddIdentExpansion(t *testing.T) {
	want := strings.TrimSpace(`
x := y + 0
LOOP z DO
    x := x + 1
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := y + z"))
}

func TestSubIdentExpansion(t *testing.T) {
	want := strings.TrimSpace(`
x := y + 0
LOOP z DO
    x := x - 1
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := y - z"))
}

func TestMulIdentExpansion(t *testing.T) {
	// x := 0; LOOP y DO x := x + z END, with the inner addition
	// expanded by the addition rule.
	want := strings.TrimSpace(`
LOOP x DO
    x := x - 1
END
LOOP y DO
    x := x + 0
    LOOP z DO
        x := x + 1
    END
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := y * z"))
}

func TestMulValueExpansion(t *testing.T) {
	// _0 := 3; x := y * _0
	want := strings.TrimSpace(`
LOOP _0 DO
    _0 := _0 - 1
END
_0 := _0 + 3
LOOP x DO
    x := x - 1
END
LOOP y DO
    x := x + 0
    LOOP _0 DO
        x := x + 1
    END
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "x := y * 3"))
}

func TestCondNotZeroExpansion(t *testing.T) {
	// Temporaries are numbered in order of first textual appearance:
	// _0 guards the THEN branch, _1 the ELSE branch.
	want := strings.TrimSpace(`
LOOP _0 DO
    _0 := _0 - 1
END
LOOP _1 DO
    _1 := _1 - 1
END
_1 := _1 + 1
LOOP a DO
    LOOP _0 DO
        _0 := _0 - 1
    END
    _0 := _0 + 1
    LOOP _1 DO
        _1 := _1 - 1
    END
END
LOOP _0 DO
    LOOP b DO
        b := b - 1
    END
    b := b + 1
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "IF a != 0 THEN\n    b := 1\nEND"))
}

func TestCondGreaterUsesThreeTemporaries(t *testing.T) {
	out := rendered(t, flags.Default(), "IF x > y THEN\n    z := 1\nELSE\n    z := 2\nEND")

	// _0 carries x - y, _1 and _2 select the branch.
	assert.Contains(t, out, "_0 := x + 0")
	assert.Contains(t, out, "LOOP _0 DO")
	assert.Contains(t, out, "_1 := _1 + 1")
	assert.Contains(t, out, "LOOP _2 DO")
	assert.NotContains(t, out, "_3")
}

func TestCondLiteralOperandsAreMaterialized(t *testing.T) {
	out := rendered(t, flags.Default(), "IF x > 3 THEN\n    z := 1\nEND")

	// The literal 3 lands in the first fresh temporary.
	assert.Contains(t, out, "_0 := _0 + 3")
}

func TestLoopToWhileRewrite(t *testing.T) {
	want := strings.TrimSpace(`
_0 := x + 0
WHILE _0 != 0 DO
    y := y + 1
    _0 := _0 - 1
END`)
	assert.Equal(t, want, rendered(t, flags.While, "LOOP x DO\n    y := y + 1\nEND"))
}

func TestLoopKeptWhenEnabled(t *testing.T) {
	want := strings.TrimSpace(`
LOOP x DO
    y := y + 1
END`)
	assert.Equal(t, want, rendered(t, flags.Default(), "LOOP x DO\n    y := y + 1\nEND"))
}

func TestLoopWithoutFeaturesFails(t *testing.T) {
	_, errs := lowerSource(t, 0, "LOOP x DO\n    y := y + 1\nEND")

	require.NotEmpty(t, errs)
	assert.Equal(t, errors.UnsupportedConstruct, errs.FirstCode())
}

func TestWhileInLoopOnlyModeFails(t *testing.T) {
	_, errs := lowerSource(t, flags.Loop, "WHILE x != 0 DO\n    x := x - 1\nEND")

	require.NotEmpty(t, errs)
	assert.True(t, errs.HasCode(errors.UnsupportedConstruct))
}

func TestWhileHeadMustBeNotZero(t *testing.T) {
	_, errs := lowerSource(t, flags.Default(), "WHILE x > 2 DO\n    x := x - 1\nEND")

	require.NotEmpty(t, errs)
	assert.True(t, errs.HasCode(errors.UnsupportedConstruct))
}

func TestStrictModeRejectsMacros(t *testing.T) {
	_, errs := lowerSource(t, flags.Default()|flags.StrictMode, "x := y * z")

	require.NotEmpty(t, errs)
	require.Equal(t, errors.StrictModeViolation, errs.FirstCode())
	assert.Equal(t, "macro", errs[0].Kind)
}

func TestStrictModeAllowsKernelForms(t *testing.T) {
	out := rendered(t, flags.Default()|flags.StrictMode, "x := x + 1\nLOOP x DO\n    y := y + 1\nEND")

	assert.Contains(t, out, "x := x + 1")
	assert.Contains(t, out, "LOOP x DO")
}

func TestNoMacroFlagAlone(t *testing.T) {
	_, errs := lowerSource(t, flags.Default()|flags.NoMacro, "x := 5")

	require.NotEmpty(t, errs)
	assert.Equal(t, errors.StrictModeViolation, errs.FirstCode())
}

func TestErrorAccumulationAcrossSiblings(t *testing.T) {
	_, errs := lowerSource(t, flags.Default()|flags.NoMacro, "x := 5\ny := 6\nz := z + 1")

	// Both macro statements report, the kernel assign does not.
	assert.Len(t, errs, 2)
}

func TestVerifyConstZero(t *testing.T) {
	expr, errs := lowerSource(t, flags.Default()|flags.Const, "_zero := 5")
	require.Empty(t, errs)

	verifyErrs := Verify(flags.Default()|flags.Const, expr)
	require.NotEmpty(t, verifyErrs)
	assert.Equal(t, errors.ConstAssignment, verifyErrs.FirstCode())
}

func TestVerifyWithoutConstFlag(t *testing.T) {
	expr, errs := lowerSource(t, flags.Default(), "_zero := 5")
	require.Empty(t, errs)

	assert.Empty(t, Verify(flags.Default(), expr))
}

func TestFreshIdentsAreDistinct(t *testing.T) {
	ctx := NewContext(flags.Default(), nil)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := ctx.FreshIdent()
		assert.False(t, seen[id], "duplicate temporary %s", id)
		seen[id] = true
	}
	assert.True(t, seen["_0"])
	assert.True(t, seen["_99"])
}

func TestInlinePrefixPerFunctionCounter(t *testing.T) {
	ctx := NewContext(flags.Default(), nil)

	f := module.QualName{Module: "fs::main", Func: "f"}
	g := module.QualName{Module: "fs::main", Func: "g"}

	assert.Equal(t, "_fs_main_f_1__", ctx.InlinePrefix(f))
	assert.Equal(t, "_fs_main_f_2__", ctx.InlinePrefix(f))
	assert.Equal(t, "_fs_main_g_1__", ctx.InlinePrefix(g))
}
