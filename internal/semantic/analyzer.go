// Package semantic typechecks a parsed program and builds the class
// registry the IR builder lowers against. The middle end assumes its input
// has already passed through this package without errors.
package semantic

import (
	"comp/internal/ast"
	"comp/internal/errors"
	"comp/internal/types"
)

// Analyzer walks a parsed Program, building its class registry and
// typechecking every method and main body against it.
type Analyzer struct {
	program  *ast.Program
	registry *types.Registry
	errors   []errors.CompilerError
}

// NewAnalyzer creates an analyzer for program.
func NewAnalyzer(program *ast.Program) *Analyzer {
	return &Analyzer{
		program:  program,
		registry: types.NewRegistry(),
	}
}

// Analyze typechecks the program, returning the populated class registry and
// any semantic errors found. If there are any errors, the registry and
// annotated AST should not be trusted by later passes.
func (a *Analyzer) Analyze() (*types.Registry, []errors.CompilerError) {
	a.buildRegistry()
	if len(a.errors) == 0 {
		for _, c := range a.program.Classes {
			for _, m := range c.Methods {
				a.checkMethod(c, m)
			}
		}
		a.checkMain(a.program.Main)
	}
	return a.registry, a.errors
}

func (a *Analyzer) report(err errors.CompilerError) {
	a.errors = append(a.errors, err)
}
