package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/sunholo/lwlang/internal/config"
	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/eval"
	"github.com/sunholo/lwlang/internal/flags"
	"github.com/sunholo/lwlang/internal/pipeline"
	"github.com/sunholo/lwlang/internal/repl"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	// Color output
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		verboseFlag = flag.Bool("verbose", false, "Enable debug logging")
		flagsFlag   = flag.String("flags", "", "Comma-separated compile flags (default LOOP,WHILE)")
		libFlag     = flag.String("lib", "", "Library search path for non-fs imports")
		localsFlag  = flag.String("locals", "", "Initial locals, e.g. x=5,y=120")
		configFlag  = flag.String("config", "", "YAML run configuration file")
		limitFlag   = flag.Int("limit", 0, "Step limit for run (0 = unbounded)")
	)

	flag.Parse()

	log.SetLevel(log.WarnLevel)
	if *verboseFlag {
		log.SetLevel(log.DebugLevel)
	}

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg, locals, limit, err := buildConfig(*flagsFlag, *libFlag, *localsFlag, *configFlag, *limitFlag)
	if err != nil {
		fatal(err.Error())
	}

	switch command := flag.Arg(0); command {
	case "run":
		runFile(requireFile("run"), cfg, locals, limit, false)

	case "step":
		runFile(requireFile("step"), cfg, locals, limit, true)

	case "check":
		checkFile(requireFile("check"), cfg)

	case "repl":
		r := repl.New(os.Stdout)
		r.SetFlags(cfg.Flags)
		r.SetLibPath(cfg.LibPath)
		r.Run()

	case "version":
		printVersion()

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func requireFile(command string) string {
	if flag.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Printf("Usage: lwlang %s <file.lp>\n", command)
		os.Exit(1)
	}
	return flag.Arg(1)
}

// buildConfig merges command-line options with an optional YAML run
// configuration; explicit command-line options win.
func buildConfig(flagNames, lib, locals, configPath string, limit int) (pipeline.Config, eval.Variables, int, error) {
	cfg := pipeline.Config{Flags: flags.Default()}
	vars := eval.Variables{}

	if configPath != "" {
		runCfg, err := config.Load(configPath)
		if err != nil {
			return cfg, nil, 0, err
		}
		compileFlags, err := runCfg.CompileFlags()
		if err != nil {
			return cfg, nil, 0, err
		}
		configVars, err := runCfg.Variables()
		if err != nil {
			return cfg, nil, 0, err
		}
		cfg.Flags = compileFlags
		cfg.LibPath = runCfg.LibPath
		vars = configVars
		if limit == 0 {
			limit = runCfg.StepLimit
		}
	}

	if flagNames != "" {
		var set flags.CompileFlags
		for _, name := range strings.Split(flagNames, ",") {
			f, ok := flags.Parse(name)
			if !ok {
				return cfg, nil, 0, fmt.Errorf("unknown compile flag %q", name)
			}
			set |= f
		}
		cfg.Flags = set
	}
	if lib != "" {
		cfg.LibPath = lib
	}
	if locals != "" {
		parsed, err := parseLocals(locals)
		if err != nil {
			return cfg, nil, 0, err
		}
		for name, value := range parsed {
			vars[name] = value
		}
	}

	return cfg, vars, limit, nil
}

func parseLocals(spec string) (eval.Variables, error) {
	vars := eval.Variables{}
	for _, pair := range strings.Split(spec, ",") {
		name, raw, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid local %q, expected name=value", pair)
		}
		value, okValue := new(big.Int).SetString(raw, 10)
		if !okValue || value.Sign() < 0 {
			return nil, fmt.Errorf("local %s: %q is not a non-negative integer", name, raw)
		}
		vars[name] = value
	}
	return vars, nil
}

func runFile(path string, cfg pipeline.Config, locals eval.Variables, limit int, trace bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		fatal(err.Error())
	}

	rt, errs := pipeline.Run(cfg, string(source), locals)
	if len(errs) > 0 {
		printErrors(errs)
		os.Exit(1)
	}

	steps := 0
	for rt.IsRunning() {
		if limit > 0 && steps >= limit {
			fatal(fmt.Sprintf("step limit of %d exceeded", limit))
		}
		result := rt.Step()
		if result == nil {
			break
		}
		steps++
		if trace {
			fmt.Printf("%s %-4d %s\n", dim("line"), result.Line, strings.Join(result.Changed, ", "))
		}
	}

	fmt.Printf("%s in %d steps\n", green("done"), steps)
	printStore(rt.Context())
}

func checkFile(path string, cfg pipeline.Config) {
	source, err := os.ReadFile(path)
	if err != nil {
		fatal(err.Error())
	}

	result, errs := pipeline.Compile(cfg, string(source))
	if len(errs) > 0 {
		printErrors(errs)
		os.Exit(1)
	}

	fmt.Printf("%s\n\n%s\n", green("ok"), result.Prog)
}

func printStore(locals eval.Variables) {
	names := make([]string, 0, len(locals))
	for name := range locals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s = %s\n", cyan(name), locals[name])
	}
}

func printErrors(errs errors.List) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red(string(e.Code)), e.Message)
	}
}

func printVersion() {
	fmt.Printf("%s %s (%s, built %s)\n", bold("lwlang"), Version, Commit, BuildTime)
}

func printHelp() {
	fmt.Print(`lwlang - a LOOP/WHILE language compiler and step interpreter

Usage:
  lwlang [options] <command> [file]

Commands:
  run <file.lp>     compile and run to completion
  step <file.lp>    run with a per-step trace (line + changed variables)
  check <file.lp>   compile only and print the kernel program
  repl              interactive stepper
  version           print version information

Options:
  -flags LOOP,WHILE     compile flags (default LOOP,WHILE)
  -locals x=5,y=120     initial variable values
  -lib ./lib            library search path for imports
  -config run.yaml      YAML run configuration
  -limit n              step limit for run (0 = unbounded)
  -verbose              debug logging
`)
}

func fatal(msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), msg)
	os.Exit(1)
}
