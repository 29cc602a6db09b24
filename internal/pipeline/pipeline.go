// Package pipeline wires the compile stages together: parse, module
// resolution, lowering, const verification, and flattening.
//
// Every stage accumulates errors instead of stopping at the first one;
// the presence of any error aborts progression to the next stage.
package pipeline

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sunholo/lwlang/internal/ast"
	"github.com/sunholo/lwlang/internal/core"
	"github.com/sunholo/lwlang/internal/elaborate"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/eval"
	"github.com/sunholo/lwlang/internal/flags"
	"github.com/sunholo/lwlang/internal/module"
	"github.com/sunholo/lwlang/internal/parser"
)

// Config controls one compile.
type Config struct {
	// Flags is the compile-flag bitfield. Callers usually pass
	// flags.Default(); an empty set is honored as-is and rejects both
	// LOOP and WHILE.
	Flags flags.CompileFlags

	// Dir is the in-memory filesystem backing fs:: imports. May be nil.
	Dir *module.Directory

	// LibPath overrides the library search path for non-fs imports.
	LibPath string
}

// Result carries the artifacts of a successful compile.
type Result struct {
	Main    *ast.Module
	Modules module.ModuleMap
	Prog    core.Expr
}

// Compile runs the full pipeline over the main program source.
func Compile(cfg Config, source string) (*Result, errors.List) {
	start := time.Now()

	main, parseErrs := parser.Parse(source)
	if errs := parseErrs.Dedup(); len(errs) > 0 {
		return nil, errs
	}

	modules, moduleErrs := module.BuildModuleMap(main, cfg.Dir, cfg.LibPath)
	if len(moduleErrs) > 0 {
		return nil, moduleErrs
	}

	ctx := elaborate.NewContext(cfg.Flags, modules)
	prog, lowerErrs := elaborate.Lower(ctx, main.Code)
	if errs := lowerErrs.Dedup(); len(errs) > 0 {
		return nil, errs
	}

	if errs := elaborate.Verify(cfg.Flags, prog).Dedup(); len(errs) > 0 {
		return nil, errs
	}

	prog = core.Flatten(prog)

	log.WithField("took", time.Since(start)).Debug("compile finished")

	return &Result{Main: main, Modules: modules, Prog: prog}, nil
}

// Run compiles source and hands the program to a fresh Runtime seeded
// with the given locals.
func Run(cfg Config, source string, locals eval.Variables) (*eval.Runtime, errors.List) {
	result, errs := Compile(cfg, source)
	if len(errs) > 0 {
		return nil, errs
	}
	return eval.NewRuntime(result.Prog, locals), nil
}
