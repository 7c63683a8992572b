// Command lilyc is the thin CLI front end wiring config parsing, the
// semantic analyzer, and the VM together, modeled on vslc's
// src/main.go staged run() function.
package main

import (
	"fmt"
	"os"

	"lilycore/internal/ast"
	"lilycore/internal/config"
	"lilycore/internal/diag"
	"lilycore/internal/mir"
	"lilycore/internal/vm"

	"lilycore/internal/analyzer"
)

// FrontEnd builds a KindProgram ast.Node from source text. Lexing and
// parsing are an external collaborator of this module (spec.md §1); a
// caller that embeds this package as a library is expected to set
// FrontEnd to its own parser before invoking run. The stock CLI
// binary has none wired in, so it reports a clear error instead of
// silently doing nothing.
var FrontEnd func(src string) (*ast.Node, error)

// Lower turns a checked, error-free module into an executable MIR
// module. Like FrontEnd, this is a pluggable seam: MIR generation sits
// downstream of the analyzer and is produced once per spec.md §4.5, but
// this package only owns the MIR data model and the VM that consumes
// it, not the lowering pass itself.
var Lower func(mod *analyzer.Result) (*mir.Module, error)

func main() {
	opt, err := config.ParseArgs()
	if err != nil {
		fmt.Printf("Command line argument error: %s\n", err)
		os.Exit(1)
	}

	if opt.Src == "" {
		fmt.Println("lilyc: no source file given")
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
}

// run drives source -> checked module -> MIR -> VM, printing
// diagnostics and stopping at the first stage that fails, matching
// vslc's run()'s staged early-return shape.
func run(opt config.Options) error {
	src, err := os.ReadFile(opt.Src)
	if err != nil {
		return fmt.Errorf("could not read source code: %w", err)
	}

	if FrontEnd == nil {
		return fmt.Errorf("no front end registered: lexing/parsing %q into an AST is outside this module's scope (spec.md §1); link a parser and set lilyc.FrontEnd before calling run", opt.Src)
	}
	prog, err := FrontEnd(string(src))
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	sink := diag.NewSink(opt.Threads + 1)
	pkg := config.NewPackageContext(opt.Src, moduleNameOf(opt.Src), opt, config.StatusMain)

	result := analyzer.Run(prog, pkg, sink)
	sink.Close()

	for _, w := range sink.Warnings() {
		fmt.Println(w.Error())
	}
	if sink.HasErrors() {
		for _, e := range sink.Errors() {
			fmt.Println(e.Error())
		}
		return fmt.Errorf("%d error(s), %d warning(s)", len(sink.Errors()), len(sink.Warnings()))
	}

	if opt.Verbose {
		fmt.Printf("analysis ok: module %s, %d warning(s)\n", result.Module.GlobalName, len(sink.Warnings()))
	}

	if Lower == nil {
		return fmt.Errorf("no MIR lowering pass registered: checked-module -> mir.Module is produced once downstream of the analyzer and isn't part of this module; link a lowering pass and set lilyc.Lower to run or dump MIR")
	}
	m, err := Lower(result)
	if err != nil {
		return fmt.Errorf("lowering error: %w", err)
	}
	if err := m.Verify(); err != nil {
		return fmt.Errorf("invalid MIR: %w", err)
	}

	if opt.DumpMIR {
		return dumpMIR(opt, m)
	}

	machine := vm.New(m, opt)
	ret, err := machine.Run()
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if opt.Verbose {
		fmt.Printf("result: %s\n", ret)
	}
	return nil
}

// dumpMIR writes a line-per-instruction listing of m to opt.Out, or
// stdout if unset, mirroring vslc's -ts token-stream early exit.
func dumpMIR(opt config.Options, m *mir.Module) error {
	w := os.Stdout
	if opt.Out != "" {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("could not open/create destination file: %w", err)
		}
		defer f.Close()
		w = f
	}
	for _, fn := range m.Functions() {
		fmt.Fprintf(w, "fn %s:\n", fn.Name)
		for _, b := range fn.Blocks() {
			fmt.Fprintf(w, "  %s: (limit %d)\n", b.Name, b.LimitID)
			for _, inst := range b.Insts {
				fmt.Fprintf(w, "    %s\n", inst.Kind)
			}
		}
	}
	return nil
}

// moduleNameOf derives a package global-name prefix from a source path,
// stripping directories and the extension (vslc has no equivalent since
// it compiles a single translation unit; this module's packages carry a
// mangled global name, spec.md §4.3).
func moduleNameOf(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}
