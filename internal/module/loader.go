package module

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/parser"
)

// libExtensions are tried in order when searching the library path.
var libExtensions = []string{"lp", "loop", "while", "wh"}

// DefaultLibPath is where non-fs modules are searched when the caller
// does not override it.
const DefaultLibPath = "./lib"

// parseDirectory parses every file of the in-memory directory into a
// Module keyed under the fs namespace. Loaded-as-import modules only
// contribute declarations and imports, so their code is normalized to
// NoOp.
func parseDirectory(dir *Directory) (map[ModuleName]*Module, errors.List) {
	modules := make(map[ModuleName]*Module)
	var errs errors.List

	if dir == nil {
		return modules, nil
	}

	for _, file := range dir.Walk() {
		modAST, parseErrs := parser.Parse(file.Contents)
		if len(parseErrs) > 0 {
			errs = errs.Merge(parseErrs)
			continue
		}
		modAST.Code = &ast.NoOp{}

		name := NameFromSegments(append([]string{"fs"}, file.Path...))
		modules[name] = &Module{Name: name, AST: modAST}
	}

	return modules, errs
}

// findModule resolves an import's target module. In-memory modules are
// already present; anything outside the fs namespace is lazily loaded
// from the library path, trying each supported extension. The boolean
// reports whether a new module was loaded.
func (r *resolver) findModule(imp *ast.Import) (*Module, bool, errors.List) {
	name := NameFromSegments(imp.Path)

	if mod, ok := r.modules[name]; ok {
		return mod, false, nil
	}

	if len(imp.Path) > 0 && imp.Path[0] == "fs" {
		return nil, false, errors.List{couldNotFindModule(&imp.Lno, name)}
	}

	base := filepath.Join(append([]string{r.libPath}, imp.Path...)...)

	var found *Module
	candidates := 0
	for _, ext := range libExtensions {
		path := base + "." + ext
		contents, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidates++
		if candidates > 1 {
			continue
		}

		modAST, parseErrs := parser.Parse(string(contents))
		if len(parseErrs) > 0 {
			return nil, false, parseErrs
		}
		modAST.Code = &ast.NoOp{}
		found = &Module{Name: name, AST: modAST}
	}

	if candidates > 1 {
		lno := imp.Lno
		return nil, false, errors.List{{
			Code:    errors.MultipleModuleCandidates,
			Lno:     &lno,
			Module:  string(name),
			Count:   candidates,
			Message: "module resolves to more than one library file",
		}}
	}
	if found == nil {
		return nil, false, errors.List{couldNotFindModule(&imp.Lno, name)}
	}

	log.WithField("module", name).Debug("loaded library module")
	r.modules[name] = found
	return found, true, nil
}

func couldNotFindModule(lno *ast.LineNo, name ModuleName) *errors.Error {
	return &errors.Error{
		Code:    errors.CouldNotFindModule,
		Lno:     lno,
		Module:  string(name),
		Message: "could not find module " + string(name),
	}
}
