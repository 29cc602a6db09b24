// Package core defines the kernel AST the elaborator emits and the
// interpreter executes.
//
// The kernel language has exactly four statement forms: assignment of
// `x ± c` to an identifier, LOOP, WHILE, and sequencing. The types here
// are narrow on purpose — an Assign can only hold `ident ± nat`, so the
// kernel-form invariant holds by construction rather than by audit.
package core

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sunholo/lwlang/internal/ast"
)

// Expr is a kernel statement or sequence.
type Expr interface {
	String() string
	expr()
}

// Operand is a comparison operand: an identifier or a literal.
type Operand interface {
	String() string
	operand()
}

// Ident names a variable.
type Ident struct {
	Name string
}

// Nat is a non-negative literal.
type Nat struct {
	Value *big.Int
}

// NewNat builds a Nat from a uint64.
func NewNat(v uint64) Nat { return Nat{Value: new(big.Int).SetUint64(v)} }

// BinOp is the sole arithmetic form, `lhs ± rhs` with an identifier on
// the left and a literal on the right.
type BinOp struct {
	Lhs  Ident
	Verb ast.OpVerb
	Rhs  Nat
}

// Comparison heads a While. After lowering the verb is always CompNe
// with a zero right-hand side; the interpreter still evaluates every
// verb so hand-built kernel trees behave.
type Comparison struct {
	Lhs  Operand
	Verb ast.CompVerb
	Rhs  Operand
}

// Assign is `lhs := rhs`.
type Assign struct {
	Lno ast.LineNo
	Lhs Ident
	Rhs BinOp
}

// Loop is `LOOP ident DO body END`. The iteration count is captured
// from ident once, when execution first reaches the loop.
type Loop struct {
	Lno   ast.LineNo
	Ident Ident
	Body  Expr
}

// While is `WHILE comp DO body END`.
type While struct {
	Lno  ast.LineNo
	Comp Comparison
	Body Expr
}

// Terms sequences kernel statements.
type Terms struct {
	List []Expr
}

func (Ident) operand() {}
func (Nat) operand()   {}

func (Assign) expr() {}
func (Loop) expr()   {}
func (While) expr()  {}
func (Terms) expr()  {}

func (i Ident) String() string { return i.Name }
func (n Nat) String() string   { return n.Value.String() }

func (b BinOp) String() string {
	return fmt.Sprintf("%s %s %s", b.Lhs, b.Verb, b.Rhs)
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Lhs, c.Verb, c.Rhs)
}

func (a Assign) String() string {
	return fmt.Sprintf("%s := %s", a.Lhs, a.Rhs)
}

func (l Loop) String() string {
	return fmt.Sprintf("LOOP %s DO\n%s\nEND", l.Ident, indent(l.Body.String()))
}

func (w While) String() string {
	return fmt.Sprintf("WHILE %s DO\n%s\nEND", w.Comp, indent(w.Body.String()))
}

func (t Terms) String() string {
	parts := make([]string, 0, len(t.List))
	for _, e := range t.List {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "\n")
}

func indent(s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}
