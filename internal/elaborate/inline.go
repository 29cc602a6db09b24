package elaborate

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/module"
)

// lowerCall inlines `lhs := f(a1, …, an)` at the call site. The callee
// is resolved through the module map, its body lowered and uniquely
// prefixed, and the whole call becomes
//
//	<P>param_i := a_i   (one per parameter)
//	<prefixed callee body>
//	lhs := <P>ret
func lowerCall(ctx *CompileContext, n *ast.Call) (core.Expr, errors.List) {
	if ctx.Flags.NoFuncs() {
		return nil, errors.List{{
			Code:    errors.StrictModeViolation,
			Lno:     &n.Lno,
			Kind:    "function",
			Message: "function constructs are forbidden in strict mode",
		}}
	}

	lhs, err := identName(n.Lhs, &n.Lno)
	if err != nil {
		return nil, errors.List{err}
	}
	funcName, err := identName(n.Func, &n.Lno)
	if err != nil {
		return nil, errors.List{err}
	}

	fc, declModule, findErrs := resolveFunction(ctx, ctx.CurModule, funcName, &n.Lno)
	if len(findErrs) > 0 {
		return nil, findErrs
	}

	switch target := fc.(type) {
	case module.FuncDecl:
		return inlineDecl(ctx, n, lhs, declModule, target.Decl)
	case module.FuncInline:
		return inlineCached(ctx, n, lhs, target)
	default:
		return nil, errors.List{couldNotFindFunction(&n.Lno, declModule, funcName)}
	}
}

// resolveFunction follows Import chains until a declaration or cached
// inline body is reached. The resolver guarantees chains are acyclic.
func resolveFunction(ctx *CompileContext, mod module.ModuleName, name string, lno *ast.LineNo) (module.FunctionContext, module.ModuleName, errors.List) {
	for {
		moduleCtx, ok := ctx.Modules.Get(mod)
		if !ok {
			return nil, mod, errors.List{{
				Code:    errors.CouldNotFindModule,
				Lno:     lno,
				Module:  string(mod),
				Message: "could not find module " + string(mod),
			}}
		}
		fc, ok := moduleCtx[name]
		if !ok {
			return nil, mod, errors.List{couldNotFindFunction(lno, mod, name)}
		}

		imp, isImport := fc.(module.FuncImport)
		if !isImport {
			return fc, mod, nil
		}
		mod, name = imp.Module, imp.Ident
	}
}

// inlineDecl lowers one call against a declaration.
func inlineDecl(ctx *CompileContext, n *ast.Call, lhs string, declModule module.ModuleName, decl *ast.FuncDecl) (core.Expr, errors.List) {
	var errs errors.List

	declName, err := identName(decl.Ident, &decl.Lno)
	if err != nil {
		errs = errs.Append(err)
	}
	params, paramErrs := paramNames(decl)
	errs = errs.Merge(paramErrs)
	ret, err := identName(decl.Ret, &decl.Lno)
	if err != nil {
		errs = errs.Append(err)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	qual := module.QualName{Module: declModule, Func: declName}

	// Arity first: a broken call site should not count as recursion.
	if len(n.Args) != len(params) {
		return nil, errors.List{{
			Code:   errors.FunctionArityMismatch,
			Lno:    &n.Lno,
			Module: string(declModule),
			Func:   declName,
			Message: fmt.Sprintf("%s expects %d arguments, got %d",
				qual, len(params), len(n.Args)),
		}}
	}

	var body core.Expr
	callErr := ctx.Call(qual, func() error {
		if count := ctx.StackCount(qual); count > 1 {
			return errors.List{{
				Code:   errors.FunctionRecursionDetected,
				Lno:    &decl.Lno,
				Module: string(declModule),
				Func:   declName,
				Count:  count,
				Message: fmt.Sprintf("recursive call of %s detected (%d frames)",
					qual, count),
			}}
		}

		log.WithField("func", qual.String()).Debug("inlining function")

		saved := ctx.CurModule
		ctx.CurModule = declModule
		defer func() { ctx.CurModule = saved }()

		lowered, bodyErrs := Lower(ctx, decl.Body)
		if len(bodyErrs) > 0 {
			return bodyErrs
		}
		body = lowered
		return nil
	})
	if callErr != nil {
		return nil, callErr.(errors.List)
	}

	prefix := ctx.InlinePrefix(qual)
	inline := module.FuncInline{
		Lno:    decl.Lno,
		Ident:  declName,
		Params: prefixNames(params, prefix),
		Ret:    prefix + ret,
		Terms:  prefixExpr(body, prefix, nil),
	}

	return assembleInline(ctx, n, lhs, inline)
}

// inlineCached splices an already-lowered body; its identifiers carry
// their prefix from the inlining that produced it.
func inlineCached(ctx *CompileContext, n *ast.Call, lhs string, inline module.FuncInline) (core.Expr, errors.List) {
	if len(n.Args) != len(inline.Params) {
		return nil, errors.List{{
			Code:   errors.FunctionArityMismatch,
			Lno:    &n.Lno,
			Func:   inline.Ident,
			Message: fmt.Sprintf("%s expects %d arguments, got %d",
				inline.Ident, len(inline.Params), len(n.Args)),
		}}
	}
	return assembleInline(ctx, n, lhs, inline)
}

// assembleInline lowers the inline schema around a prepared body.
func assembleInline(ctx *CompileContext, n *ast.Call, lhs string, inline module.FuncInline) (core.Expr, errors.List) {
	var errs errors.List
	var terms []core.Expr

	for i, param := range inline.Params {
		assign, assignErrs := lowerArgument(ctx, n.Lno, param, n.Args[i])
		if len(assignErrs) > 0 {
			errs = errs.Merge(assignErrs)
			continue
		}
		terms = append(terms, assign)
	}

	terms = append(terms, inline.Terms)

	retCopy, retErrs := Lower(ctx, &ast.AssignIdent{
		Lno: n.Lno,
		Lhs: &ast.Ident{Name: lhs},
		Rhs: &ast.Ident{Name: inline.Ret},
	})
	if len(retErrs) > 0 {
		errs = errs.Merge(retErrs)
	} else {
		terms = append(terms, retCopy)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return core.Terms{List: terms}, nil
}

// lowerArgument binds one parameter to its argument.
func lowerArgument(ctx *CompileContext, lno ast.LineNo, param string, arg ast.Node) (core.Expr, errors.List) {
	switch a := arg.(type) {
	case *ast.Ident:
		return Lower(ctx, &ast.AssignIdent{
			Lno: lno,
			Lhs: &ast.Ident{Name: param},
			Rhs: a,
		})
	case *ast.Nat:
		if a.Value.Sign() == 0 {
			return Lower(ctx, &ast.AssignZero{Lno: lno, Lhs: &ast.Ident{Name: param}})
		}
		return Lower(ctx, &ast.AssignValue{Lno: lno, Lhs: &ast.Ident{Name: param}, Rhs: a})
	default:
		return nil, errors.List{unexpected(&lno, "Ident or NaturalNumber", arg)}
	}
}

// prefixExpr renames every identifier in a lowered body by prepending
// prefix. keep lists identifiers to pass through unrenamed; the core
// language marks none, but the mechanism is part of the contract.
func prefixExpr(e core.Expr, prefix string, keep map[string]bool) core.Expr {
	rename := func(id core.Ident) core.Ident {
		if keep[id.Name] {
			return id
		}
		return core.Ident{Name: prefix + id.Name}
	}

	switch n := e.(type) {
	case core.Assign:
		n.Lhs = rename(n.Lhs)
		n.Rhs.Lhs = rename(n.Rhs.Lhs)
		return n
	case core.Loop:
		n.Ident = rename(n.Ident)
		n.Body = prefixExpr(n.Body, prefix, keep)
		return n
	case core.While:
		if id, ok := n.Comp.Lhs.(core.Ident); ok {
			n.Comp.Lhs = rename(id)
		}
		if id, ok := n.Comp.Rhs.(core.Ident); ok {
			n.Comp.Rhs = rename(id)
		}
		n.Body = prefixExpr(n.Body, prefix, keep)
		return n
	case core.Terms:
		list := make([]core.Expr, len(n.List))
		for i, child := range n.List {
			list[i] = prefixExpr(child, prefix, keep)
		}
		return core.Terms{List: list}
	default:
		return e
	}
}

func prefixNames(names []string, prefix string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = prefix + name
	}
	return out
}

func paramNames(decl *ast.FuncDecl) ([]string, errors.List) {
	var errs errors.List
	names := make([]string, 0, len(decl.Params))
	for i, p := range decl.Params {
		name, err := identName(p, &decl.Lno)
		if err != nil {
			err.Message = fmt.Sprintf("parameter %d: %s", i, err.Message)
			errs = errs.Append(err)
			continue
		}
		names = append(names, name)
	}
	return names, errs
}

func couldNotFindFunction(lno *ast.LineNo, mod module.ModuleName, fn string) *errors.Error {
	return &errors.Error{
		Code:    errors.CouldNotFindFunction,
		Lno:     lno,
		Module:  string(mod),
		Func:    fn,
		Message: fmt.Sprintf("could not find function %s in %s", fn, mod),
	}
}
