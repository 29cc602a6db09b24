// Package repl implements the interactive stepper.
//
// Program lines accumulate in a buffer until :compile (or :run) hands
// them to the pipeline; the resulting runtime is then driven with
// :step, :run, and :reset.
package repl

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/lwlang/internal/errors"
	"github.com/sunholo/lwlang/internal/eval"
	"github.com/sunholo/lwlang/internal/flags"
	"github.com/sunholo/lwlang/internal/module"
	"github.com/sunholo/lwlang/internal/pipeline"
)

// Color functions for pretty output.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// stepLimit bounds :run so a diverging WHILE cannot wedge the session.
const stepLimit = 1_000_000

// REPL is one interactive session.
type REPL struct {
	flags   flags.CompileFlags
	libPath string
	dir     *module.Directory

	buffer  []string
	runtime *eval.Runtime
	out     io.Writer
}

// New creates a session with the default flag set.
func New(out io.Writer) *REPL {
	return &REPL{flags: flags.Default(), out: out}
}

// SetFlags overrides the compile flags for subsequent compiles.
func (r *REPL) SetFlags(f flags.CompileFlags) { r.flags = f }

// SetLibPath overrides the library search path.
func (r *REPL) SetLibPath(path string) { r.libPath = path }

// Run drives the session until :quit or EOF.
func (r *REPL) Run() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintf(r.out, "%s — type :help for commands\n", bold("lwlang repl"))

	for {
		input, err := line.Prompt("lw> ")
		if err != nil {
			fmt.Fprintln(r.out)
			return
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if strings.HasPrefix(strings.TrimSpace(input), ":") {
			if r.command(strings.TrimSpace(input)) {
				return
			}
			continue
		}

		r.buffer = append(r.buffer, input)
	}
}

// command dispatches one `:cmd` input; it reports whether the session
// should end.
func (r *REPL) command(input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")

	switch cmd {
	case ":quit", ":q", ":exit":
		return true

	case ":help", ":h":
		r.printHelp()

	case ":clear":
		r.buffer = nil
		r.runtime = nil
		fmt.Fprintf(r.out, "%s\n", dim("buffer cleared"))

	case ":list":
		fmt.Fprintln(r.out, strings.Join(r.buffer, "\n"))

	case ":flags":
		if rest == "" {
			fmt.Fprintf(r.out, "%s\n", cyan(r.flags))
			break
		}
		var set flags.CompileFlags
		ok := true
		for _, name := range strings.Split(rest, ",") {
			flag, known := flags.Parse(name)
			if !known {
				fmt.Fprintf(r.out, "%s: unknown flag %q\n", red("error"), name)
				ok = false
				break
			}
			set |= flag
		}
		if ok {
			r.flags = set
			fmt.Fprintf(r.out, "flags = %s\n", cyan(r.flags))
		}

	case ":compile", ":c":
		r.compile(nil)

	case ":dump":
		if result := r.compileResult(); result != nil {
			fmt.Fprintln(r.out, result.Prog)
		}

	case ":run", ":r":
		if r.runtime == nil && !r.compile(nil) {
			break
		}
		steps, err := r.runtime.Run(stepLimit)
		if err != nil {
			fmt.Fprintf(r.out, "%s: %v after %d steps\n", red("error"), err, steps)
			break
		}
		fmt.Fprintf(r.out, "%s in %d steps\n", green("done"), steps)
		r.printLocals()

	case ":step", ":s":
		if r.runtime == nil && !r.compile(nil) {
			break
		}
		result := r.runtime.Step()
		if result == nil {
			fmt.Fprintf(r.out, "%s\n", dim("program finished"))
			break
		}
		fmt.Fprintf(r.out, "%s %d  %s %s\n",
			dim("line"), result.Line, dim("changed"), yellow(strings.Join(result.Changed, ", ")))

	case ":locals":
		r.printLocals()

	case ":reset":
		if r.runtime == nil {
			fmt.Fprintf(r.out, "%s\n", dim("nothing to reset"))
			break
		}
		r.runtime.Reset()
		fmt.Fprintf(r.out, "%s\n", dim("runtime reset"))

	default:
		fmt.Fprintf(r.out, "%s: unknown command %s\n", red("error"), cmd)
	}

	return false
}

// compile builds a runtime from the buffer. It reports success.
func (r *REPL) compile(locals eval.Variables) bool {
	rt, errs := pipeline.Run(r.config(), strings.Join(r.buffer, "\n"), locals)
	if len(errs) > 0 {
		r.printErrors(errs)
		return false
	}
	r.runtime = rt
	fmt.Fprintf(r.out, "%s\n", green("compiled"))
	return true
}

func (r *REPL) compileResult() *pipeline.Result {
	result, errs := pipeline.Compile(r.config(), strings.Join(r.buffer, "\n"))
	if len(errs) > 0 {
		r.printErrors(errs)
		return nil
	}
	return result
}

func (r *REPL) config() pipeline.Config {
	return pipeline.Config{Flags: r.flags, Dir: r.dir, LibPath: r.libPath}
}

func (r *REPL) printErrors(errs errors.List) {
	for _, e := range errs {
		fmt.Fprintf(r.out, "%s: %s\n", red(string(e.Code)), e.Message)
	}
}

func (r *REPL) printLocals() {
	if r.runtime == nil {
		fmt.Fprintf(r.out, "%s\n", dim("no runtime"))
		return
	}

	locals := r.runtime.Context()
	names := make([]string, 0, len(locals))
	for name := range locals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(r.out, "  %s = %s\n", cyan(name), locals[name])
	}
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.out, `Program lines are buffered; commands operate on the buffer.
  :compile, :c     compile the buffer
  :run, :r         run to completion and print locals
  :step, :s        execute one step
  :locals          print the variable store
  :reset           reset the runtime to its initial locals
  :dump            print the compiled kernel program
  :flags [A,B]     show or set compile flags
  :list            print the buffer
  :clear           drop buffer and runtime
  :quit, :q        leave
`)
}
