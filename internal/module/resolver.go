package module

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/errors"
)

// resolver carries the state of one BuildModuleMap call: the module
// table (grown lazily by library loads), the library search path, and
// the memoization caches that keep wildcard resolution from re-walking
// the import graph.
type resolver struct {
	modules map[ModuleName]*Module
	libPath string

	wildcardCache map[ModuleName]resolveResult
	namedCache    map[namedKey]resolveResult
}

type namedKey struct {
	To    ModuleName
	Ident string
	Alias string
}

type resolveResult struct {
	ctx    ModuleContext
	loaded []ModuleName
	errs   errors.List
}

func (r resolveResult) failed() bool { return len(r.errs) > 0 }

// BuildModuleMap loads, checks, and resolves every module reachable
// from main. Errors are accumulated across modules, deduplicated by
// variant, and returned together; any error means no map is produced.
func BuildModuleMap(main *ast.Module, dir *Directory, libPath string) (ModuleMap, errors.List) {
	if libPath == "" {
		libPath = DefaultLibPath
	}

	modules, errs := parseDirectory(dir)
	if len(errs) > 0 {
		return nil, errs.Dedup()
	}
	modules[Main] = &Module{Name: Main, AST: main}

	if errs := basicCollisionCheck(modules); len(errs) > 0 {
		return nil, errs.Dedup()
	}

	r := &resolver{
		modules:       modules,
		libPath:       libPath,
		wildcardCache: make(map[ModuleName]resolveResult),
		namedCache:    make(map[namedKey]resolveResult),
	}

	// Work queue: fs::main first so its diagnostics dominate, the rest
	// in name order. Lazily loaded library modules are appended as they
	// are discovered.
	queue := make([]ModuleName, 0, len(modules))
	seen := make(map[ModuleName]bool, len(modules))
	for name := range modules {
		if name != Main {
			queue = append(queue, name)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })
	queue = append([]ModuleName{Main}, queue...)
	for _, name := range queue {
		seen[name] = true
	}

	moduleMap := make(ModuleMap)
	for ptr := 0; ptr < len(queue); ptr++ {
		name := queue[ptr]
		mod, ok := r.modules[name]
		if !ok {
			errs = errs.Append(couldNotFindModule(nil, name))
			continue
		}

		ctx, loaded, resolveErrs := r.resolve(mod)
		if len(resolveErrs) > 0 {
			errs = errs.Merge(resolveErrs)
			continue
		}
		for _, newName := range loaded {
			if !seen[newName] {
				seen[newName] = true
				queue = append(queue, newName)
			}
		}
		moduleMap[name] = ctx
	}

	errs = errs.Merge(insertFuncs(r.modules, moduleMap))

	if errs = errs.Dedup(); len(errs) > 0 {
		return nil, errs
	}
	return moduleMap, nil
}

// resolve computes the import context of one module: every name its
// imports bring into scope, with collisions reported per import
// statement.
func (r *resolver) resolve(from *Module) (ModuleContext, []ModuleName, errors.List) {
	ctx := make(ModuleContext)
	var loaded []ModuleName
	var errs errors.List

	for _, imp := range from.AST.Imports {
		target, created, findErrs := r.findModule(imp)
		if len(findErrs) > 0 {
			errs = errs.Merge(findErrs)
			continue
		}
		if created {
			loaded = append(loaded, target.Name)
		}

		var results []resolveResult
		if imp.Wildcard {
			res := r.resolveWildcard(from, target, nil)
			if res.failed() {
				errs = errs.Merge(res.errs)
			} else {
				results = append(results, res)
			}
		} else {
			for _, fn := range imp.Funcs {
				res := r.resolveNamed(from, target, fn, nil)
				if res.failed() {
					errs = errs.Merge(res.errs)
					continue
				}
				results = append(results, res)
			}
		}

		for _, res := range results {
			loaded = append(loaded, res.loaded...)

			var overlapping []string
			for _, name := range sortedKeys(res.ctx) {
				if _, ok := ctx[name]; ok {
					overlapping = append(overlapping, name)
				}
			}
			for _, name := range overlapping {
				errs = errs.Append(nameCollision(&imp.Lno, from.Name, name, 0))
			}
			if len(overlapping) > 0 {
				continue
			}
			for name, fc := range res.ctx {
				ctx[name] = fc
			}
		}
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return ctx, loaded, nil
}

// resolveWildcard collects every name reachable from to: its own
// declarations plus the wildcard-flattening of its imports.
func (r *resolver) resolveWildcard(from, to *Module, history []ModuleName) resolveResult {
	if cached, ok := r.wildcardCache[to.Name]; ok {
		log.WithField("module", to.Name).Debug("wildcard cache hit")
		return cached
	}

	if err := catchCircular(from.Name, to.Name, history); err != nil {
		return resolveResult{errs: errors.List{err}}
	}
	history = appendHistory(history, to.Name)

	imports := make(ModuleContext)
	var loaded []ModuleName
	var errs errors.List

	for _, decl := range to.AST.Decls {
		name, err := identName(decl.Ident, &decl.Lno)
		if err != nil {
			errs = errs.Append(err)
			continue
		}
		imports[name] = FuncImport{Module: to.Name, Ident: name}
	}

	for _, imp := range to.AST.Imports {
		target, created, findErrs := r.findModule(imp)
		if len(findErrs) > 0 {
			errs = errs.Merge(findErrs)
			continue
		}
		if created {
			loaded = append(loaded, target.Name)
		}

		var results []resolveResult
		if imp.Wildcard {
			res := r.resolveWildcard(from, target, history)
			if res.failed() {
				errs = errs.Merge(res.errs)
			} else {
				results = append(results, res)
			}
		} else {
			for _, fn := range imp.Funcs {
				res := r.resolveNamed(from, target, fn, history)
				if res.failed() {
					errs = errs.Merge(res.errs)
					continue
				}
				results = append(results, res)
			}
		}

		for _, res := range results {
			loaded = append(loaded, res.loaded...)
			for _, name := range sortedKeys(res.ctx) {
				if _, ok := imports[name]; ok {
					errs = errs.Append(nameCollision(&imp.Lno, to.Name, name, 0))
					continue
				}
				imports[name] = res.ctx[name]
			}
		}
	}

	res := resolveResult{ctx: imports, loaded: loaded, errs: errs}
	if res.failed() {
		res.ctx = nil
	}
	r.wildcardCache[to.Name] = res
	return res
}

// resolveNamed follows a single `FROM to IMPORT ident [AS alias]`
// target to its declaration: directly if to declares it, through to's
// named imports otherwise, and through to's wildcard imports as a last
// resort.
func (r *resolver) resolveNamed(from, to *Module, target *ast.ImportFunc, history []ModuleName) resolveResult {
	targetIdent, err := identName(target.Ident, nil)
	if err != nil {
		return resolveResult{errs: errors.List{err}}
	}
	keyName := targetIdent
	if target.Alias != nil {
		alias, err := identName(target.Alias, nil)
		if err != nil {
			return resolveResult{errs: errors.List{err}}
		}
		keyName = alias
	}

	key := namedKey{To: to.Name, Ident: targetIdent, Alias: keyName}
	if cached, ok := r.namedCache[key]; ok {
		log.WithField("module", to.Name).WithField("func", targetIdent).Debug("named-import cache hit")
		return cached
	}

	if err := catchCircular(from.Name, to.Name, history); err != nil {
		return resolveResult{errs: errors.List{err}}
	}
	history = appendHistory(history, to.Name)

	// A matching declaration in the target module is always the end
	// state.
	for _, decl := range to.AST.Decls {
		name, err := identName(decl.Ident, &decl.Lno)
		if err != nil {
			continue
		}
		if name == targetIdent {
			res := resolveResult{ctx: ModuleContext{
				keyName: FuncImport{Module: to.Name, Ident: targetIdent},
			}}
			r.namedCache[key] = res
			return res
		}
	}

	// Otherwise chase to's own named imports, matching alias first.
	for _, imp := range to.AST.Imports {
		if imp.Wildcard {
			continue
		}
		for _, fn := range imp.Funcs {
			visible, err := importedName(fn)
			if err != nil {
				continue
			}
			if visible != targetIdent {
				continue
			}

			targetMod, created, findErrs := r.findModule(imp)
			if len(findErrs) > 0 {
				res := resolveResult{errs: findErrs}
				r.namedCache[key] = res
				return res
			}
			res := r.resolveNamed(from, targetMod, fn, history)
			if created && !res.failed() {
				res.loaded = append(res.loaded, targetMod.Name)
			}
			r.namedCache[key] = res
			return res
		}
	}

	// Last resort: search every wildcard import, depth-first.
	var errs errors.List
	var loaded []ModuleName
	for _, imp := range to.AST.Imports {
		if !imp.Wildcard {
			continue
		}
		targetMod, created, findErrs := r.findModule(imp)
		if len(findErrs) > 0 {
			errs = errs.Merge(findErrs)
			continue
		}
		if created {
			loaded = append(loaded, targetMod.Name)
		}

		wres := r.resolveWildcard(from, targetMod, history)
		if wres.failed() {
			errs = errs.Merge(wres.errs)
			continue
		}
		loaded = append(loaded, wres.loaded...)

		if fc, ok := wres.ctx[targetIdent]; ok {
			res := resolveResult{ctx: ModuleContext{keyName: fc}, loaded: loaded}
			r.namedCache[key] = res
			return res
		}
	}

	errs = errs.Append(&errors.Error{
		Code:    errors.CouldNotFindFunction,
		Module:  string(to.Name),
		Func:    targetIdent,
		Message: fmt.Sprintf("could not find function %s in %s", targetIdent, to.Name),
	})
	res := resolveResult{errs: errs}
	r.namedCache[key] = res
	return res
}

// catchCircular reports a cycle when to already appears on the path
// from the resolution origin.
func catchCircular(from, to ModuleName, history []ModuleName) *errors.Error {
	local := append([]ModuleName{from}, history...)

	idx := -1
	for i, name := range local {
		if name == to {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	historyStrs := make([]string, len(local))
	for i, name := range local {
		historyStrs[i] = string(name)
	}
	prev := historyStrs[:idx]
	path := append(append([]string{}, historyStrs[idx:]...), string(to))

	return &errors.Error{
		Code: errors.CircularImport,
		Message: fmt.Sprintf("found circular import, %s tried to import itself (%s)",
			to, strings.Join([]string{strings.Join(prev, " -> "), strings.Join(path, " -> ")}, " | ")),
		History: historyStrs,
		Origin:  string(from),
		Module:  string(to),
	}
}

// basicCollisionCheck verifies that declared names and non-wildcard
// imported names (alias preferred) are unique within each module.
// Wildcard collisions can only be judged during resolution.
func basicCollisionCheck(modules map[ModuleName]*Module) errors.List {
	var errs errors.List

	for _, name := range sortedModuleNames(modules) {
		mod := modules[name]
		counts := make(map[string]int)
		var order []string

		record := func(n string) {
			if counts[n] == 0 {
				order = append(order, n)
			}
			counts[n]++
		}

		for _, decl := range mod.AST.Decls {
			declName, err := identName(decl.Ident, &decl.Lno)
			if err != nil {
				errs = errs.Append(err)
				continue
			}
			record(declName)
		}
		for _, imp := range mod.AST.Imports {
			if imp.Wildcard {
				continue
			}
			for _, fn := range imp.Funcs {
				visible, err := importedName(fn)
				if err != nil {
					errs = errs.Append(err)
					continue
				}
				record(visible)
			}
		}

		for _, fn := range order {
			if counts[fn] > 1 {
				errs = errs.Append(nameCollision(nil, name, fn, counts[fn]))
			}
		}
	}

	return errs
}

// insertFuncs attaches every declaration to its module's context,
// catching declarations that collide with wildcard-imported names.
func insertFuncs(modules map[ModuleName]*Module, moduleMap ModuleMap) errors.List {
	var errs errors.List

	for _, name := range sortedModuleNames(modules) {
		mod := modules[name]
		ctx, ok := moduleMap[name]
		if !ok {
			ctx = make(ModuleContext)
		}

		for _, decl := range mod.AST.Decls {
			declName, err := identName(decl.Ident, &decl.Lno)
			if err != nil {
				errs = errs.Append(err)
				continue
			}
			if _, exists := ctx[declName]; exists {
				errs = errs.Append(nameCollision(&decl.Lno, name, declName, 0))
				continue
			}
			ctx[declName] = FuncDecl{Decl: decl}
		}

		moduleMap[name] = ctx
	}

	return errs
}

// Helpers.

func nameCollision(lno *ast.LineNo, mod ModuleName, fn string, count int) *errors.Error {
	return &errors.Error{
		Code:    errors.FunctionNameCollision,
		Lno:     lno,
		Module:  string(mod),
		Func:    fn,
		Count:   count,
		Message: fmt.Sprintf("function name %s collides in %s", fn, mod),
	}
}

// identName narrows a node to an identifier name.
func identName(n ast.Node, lno *ast.LineNo) (string, *errors.Error) {
	if id, ok := n.(*ast.Ident); ok {
		return id.Name, nil
	}
	return "", &errors.Error{
		Code:     errors.UnexpectedExprType,
		Lno:      lno,
		Expected: "Ident",
		Got:      fmt.Sprintf("%T", n),
		Message:  fmt.Sprintf("expected identifier, got %T", n),
	}
}

// importedName is the name an import target is visible under: the
// alias when present, the identifier otherwise.
func importedName(fn *ast.ImportFunc) (string, *errors.Error) {
	if fn.Alias != nil {
		return identName(fn.Alias, nil)
	}
	return identName(fn.Ident, nil)
}

func appendHistory(history []ModuleName, name ModuleName) []ModuleName {
	next := make([]ModuleName, 0, len(history)+1)
	next = append(next, history...)
	return append(next, name)
}

func sortedKeys(ctx ModuleContext) []string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedModuleNames(modules map[ModuleName]*Module) []ModuleName {
	names := make([]ModuleName, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == Main {
			return true
		}
		if names[j] == Main {
			return false
		}
		return names[i] < names[j]
	})
	return names
}
