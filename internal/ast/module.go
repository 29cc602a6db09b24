package ast

import (
	"fmt"
	"strings"
)

// Module is one parsed source file: its imports, its function
// declarations, and the top-level code. When a module is loaded only as
// an import source, Code is replaced by NoOp.
type Module struct {
	Imports []*Import
	Decls   []*FuncDecl
	Code    Node
}

// Import is `FROM path IMPORT …`. Funcs lists the named targets; an
// empty list with Wildcard set means `IMPORT *`.
type Import struct {
	Lno      LineNo
	Path     []string
	Funcs    []*ImportFunc
	Wildcard bool
}

// ImportFunc is a single named import target, optionally aliased.
type ImportFunc struct {
	Ident Node
	Alias Node
}

// FuncDecl is `FN name(params) -> ret DECL body END`. Ident, Params and
// Ret stay as nodes; the elaborator narrows them to identifiers and
// reports UnexpectedExprType when narrowing fails.
type FuncDecl struct {
	Lno    LineNo
	Ident  Node
	Params []Node
	Ret    Node
	Body   Node
}

func (*Module) node()     {}
func (*Import) node()     {}
func (*ImportFunc) node() {}
func (*FuncDecl) node()   {}

func (m *Module) String() string {
	var parts []string
	for _, imp := range m.Imports {
		parts = append(parts, imp.String())
	}
	for _, decl := range m.Decls {
		parts = append(parts, decl.String())
	}
	if m.Code != nil {
		if _, ok := m.Code.(*NoOp); !ok {
			parts = append(parts, m.Code.String())
		}
	}
	return strings.Join(parts, "\n")
}

func (i *Import) String() string {
	if i.Wildcard {
		return fmt.Sprintf("FROM %s IMPORT *", strings.Join(i.Path, "::"))
	}
	funcs := make([]string, 0, len(i.Funcs))
	for _, f := range i.Funcs {
		funcs = append(funcs, f.String())
	}
	target := strings.Join(funcs, ", ")
	if len(i.Funcs) > 1 {
		target = "(" + target + ")"
	}
	return fmt.Sprintf("FROM %s IMPORT %s", strings.Join(i.Path, "::"), target)
}

func (f *ImportFunc) String() string {
	if f.Alias != nil {
		return fmt.Sprintf("%s AS %s", f.Ident, f.Alias)
	}
	return f.Ident.String()
}

func (d *FuncDecl) String() string {
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("FN %s(%s) -> %s DECL\n%s\nEND",
		d.Ident, strings.Join(params, ", "), d.Ret, indent(d.Body.String()))
}
