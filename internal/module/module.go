// Package module implements module loading and import resolution.
//
// Source files arrive through an in-memory Directory; every path is
// prefixed with the `fs` segment so the entrypoint is keyed `fs::main`.
// Imports outside the fs namespace are searched lazily on the library
// path. Resolution follows import chains to concrete declarations and
// records them in a ModuleMap.
package module

import (
	"strings"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
)

// ModuleName is a `::`-joined module path, e.g. "fs::main" or
// "std::math".
type ModuleName string

// Main is the module name of the entrypoint.
const Main ModuleName = "fs::main"

// NameFromSegments joins path segments into a ModuleName.
func NameFromSegments(segments []string) ModuleName {
	return ModuleName(strings.Join(segments, "::"))
}

// Segments splits the name back into its path segments.
func (n ModuleName) Segments() []string {
	return strings.Split(string(n), "::")
}

// IsFS reports whether the module lives in the in-memory directory.
func (n ModuleName) IsFS() bool {
	return strings.HasPrefix(string(n), "fs::")
}

func (n ModuleName) String() string { return string(n) }

// QualName is a (module, function) pair, unique across a compile.
type QualName struct {
	Module ModuleName
	Func   string
}

func (q QualName) String() string {
	return string(q.Module) + "::" + q.Func
}

// Module is one loaded source file. When a module is only an import
// source its code has been replaced by NoOp.
type Module struct {
	Name ModuleName
	AST  *ast.Module
}

// FunctionContext is what a name inside a module resolves to: a
// re-export (Import), a not-yet-inlined declaration (Decl), or a cached
// inlined body (Inline).
type FunctionContext interface {
	functionContext()
}

// FuncImport points at a function declared in another module.
type FuncImport struct {
	Module ModuleName
	Ident  string
}

// FuncDecl is a declaration waiting to be inlined.
type FuncDecl struct {
	Decl *ast.FuncDecl
}

// FuncInline is an already-lowered function body. Params and Ret carry
// the prefixed identifier names of the inlined copy.
type FuncInline struct {
	Lno    ast.LineNo
	Ident  string
	Params []string
	Ret    string
	Terms  core.Expr
}

func (FuncImport) functionContext() {}
func (FuncDecl) functionContext()   {}
func (FuncInline) functionContext() {}

// ModuleContext maps function names visible in a module to their
// resolution.
type ModuleContext map[string]FunctionContext

// ModuleMap maps every loaded module to its context.
type ModuleMap map[ModuleName]ModuleContext

// Get is a nil-safe context lookup.
func (m ModuleMap) Get(name ModuleName) (ModuleContext, bool) {
	ctx, ok := m[name]
	return ctx, ok
}
