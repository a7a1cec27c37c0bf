// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"comp/internal/errors"
	"comp/internal/grammar"
	"comp/internal/ir"
	"comp/internal/semantic"
)

const usage = "Usage: comp [--ssa|--no-ssa] [--vn|--no-vn] [--fold|--no-fold] <source_file>"

func main() {
	ssa, vn, fold, path, ok := parseArgs(os.Args[1:])
	if !ok {
		os.Exit(1)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	program, err := grammar.ParseSource(path, string(source))
	if err != nil {
		os.Exit(1)
	}

	analyzer := semantic.NewAnalyzer(program)
	registry, semErrs := analyzer.Analyze()
	if len(semErrs) > 0 {
		reporter := errors.NewErrorReporter(path, string(source))
		for _, e := range semErrs {
			fmt.Fprint(os.Stderr, reporter.FormatError(e))
		}
		os.Exit(1)
	}

	builder := ir.NewBuilder(registry)
	irProgram := builder.BuildProgram(program)

	for _, fn := range irProgram.Functions {
		cfg := ir.NewCFG(fn)
		if ssa {
			ir.ConstructSSA(fn, cfg)
		}
		if vn {
			ir.ValueNumber(fn)
		}
		if fold {
			foldConstantsToFixpoint(fn)
		}
	}

	fmt.Print(ir.Print(irProgram))
	os.Exit(0)
}

func foldConstantsToFixpoint(fn *ir.Function) {
	pipeline := ir.NewOptimizationPipeline()
	pipeline.Run(&ir.Program{Functions: []*ir.Function{fn}})
}

// parseArgs parses the flag/positional argument convention described in
// usage. Unknown flags and more than one positional argument are both
// errors.
func parseArgs(args []string) (ssa, vn, fold bool, path string, ok bool) {
	ssa, vn, fold = true, true, true
	var positional []string

	for _, arg := range args {
		switch arg {
		case "--ssa":
			ssa = true
		case "--no-ssa":
			ssa = false
		case "--vn":
			vn = true
		case "--no-vn":
			vn = false
		case "--fold":
			fold = true
		case "--no-fold":
			fold = false
		default:
			if len(arg) >= 2 && arg[:2] == "--" {
				fmt.Fprintln(os.Stderr, usage)
				return false, false, false, "", false
			}
			positional = append(positional, arg)
		}
	}

	if len(positional) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		return false, false, false, "", false
	}

	return ssa, vn, fold, positional[0], true
}
