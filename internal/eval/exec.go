// Package eval executes kernel programs one atomic step at a time.
//
// Every kernel node gets its own small state machine. A step is the
// write of one assignment or the initialization of one loop counter;
// while-head checks are rolled into the following body step. Exhausted
// machines report nil and are renewed by their parent when a loop or
// while iteration restarts.
package eval

import (
	"fmt"
	"math/big"

	"github.com/sunholo/lwlang/internal/core"
)

// Variables is the interpreter's store. Missing variables read as zero.
type Variables map[string]*big.Int

// Clone copies the store, including the values.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for name, value := range v {
		out[name] = new(big.Int).Set(value)
	}
	return out
}

// Get reads a variable with lazy zero initialization.
func (v Variables) Get(name string) *big.Int {
	if value, ok := v[name]; ok {
		return value
	}
	return big.NewInt(0)
}

// StepResult reports one executed step: the source line and the
// identifiers written.
type StepResult struct {
	Line    int
	Changed []string
}

// InternalChange is the synthetic change-set entry reported when a
// loop captures its iteration count.
const InternalChange = "<internal>"

// Exec is one node's executable state.
type Exec interface {
	// Step advances by one atomic action, or reports nil when the node
	// is exhausted.
	Step(locals Variables) *StepResult

	// Renew returns a copy reset to its initial state.
	Renew() Exec
}

// NewExec builds the executable state machine for a kernel program.
// Expression nodes have no statement semantics; feeding one in is a
// programmer error in the lowerer.
func NewExec(e core.Expr) Exec {
	switch n := e.(type) {
	case core.Assign:
		return newAssignExec(n)
	case core.Terms:
		return newTermsExec(n)
	case core.Loop:
		return newLoopExec(n)
	case core.While:
		return newWhileExec(n)
	default:
		panic(fmt.Sprintf("cannot create executable from %T", e))
	}
}
