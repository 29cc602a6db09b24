// Package elaborate lowers the surface AST to the kernel language.
//
// Lowering covers macro expansion, the LOOP-to-WHILE rewrite, and
// function inlining. Every expansion is composed from the three kernel
// operations only; fresh temporaries come from the CompileContext
// threaded through every call.
package elaborate

import (
	"fmt"
	"strings"

	"github.com/sunholo/lwlang/internal/flags"
	"github.com/sunholo/lwlang/internal/module"
)

// CompileContext supplies monotonically increasing identifiers, tracks
// the function call stack during inlining, and carries the compile
// flags plus the resolved module map.
type CompileContext struct {
	Flags   flags.CompileFlags
	Modules module.ModuleMap

	// CurModule is the module whose code is being lowered; call targets
	// resolve against it. Inlining swaps it to the callee's module for
	// the duration of the body.
	CurModule module.ModuleName

	counter       int
	inlineCounter map[module.QualName]int
	stack         []module.QualName
}

// NewContext builds a context for one compile.
func NewContext(f flags.CompileFlags, modules module.ModuleMap) *CompileContext {
	return &CompileContext{
		Flags:         f,
		Modules:       modules,
		CurModule:     module.Main,
		inlineCounter: make(map[module.QualName]int),
	}
}

// FreshIdent returns the next compiler temporary, `_<k>`. Temporaries
// are pairwise distinct across a single compile.
func (c *CompileContext) FreshIdent() string {
	id := fmt.Sprintf("_%d", c.counter)
	c.counter++
	return id
}

// InlinePrefix returns the identifier prefix for the next inlined copy
// of qual: `_<module>_<fn>_<k>__` with k counted per function.
func (c *CompileContext) InlinePrefix(qual module.QualName) string {
	c.inlineCounter[qual]++
	return fmt.Sprintf("_%s_%s_%d__",
		strings.Join(qual.Module.Segments(), "_"), qual.Func, c.inlineCounter[qual])
}

// Call runs fn with qual pushed onto the call stack. The pop is
// guaranteed on every exit path.
func (c *CompileContext) Call(qual module.QualName, fn func() error) error {
	c.stack = append(c.stack, qual)
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()
	return fn()
}

// StackCount reports how often qual appears on the active call stack.
func (c *CompileContext) StackCount(qual module.QualName) int {
	count := 0
	for _, q := range c.stack {
		if q == qual {
			count++
		}
	}
	return count
}
