package semantic

import (
	"comp/internal/ast"
	"comp/internal/errors"
	"comp/internal/types"
)

// buildRegistry walks the program's classes in declaration order and
// populates the class/field/method registry, resolving every declared type
// name along the way. Class names are all registered before any field or
// method type is resolved, so forward references between classes (A holds a
// field of type B, B holds a field of type A) are supported.
func (a *Analyzer) buildRegistry() {
	seen := make(map[string]bool)
	for _, c := range a.program.Classes {
		if seen[c.Name] {
			a.report(errors.DuplicateDeclaration(c.Name, c.Pos))
			continue
		}
		seen[c.Name] = true
		a.registry.AddClass(c.Name)
	}

	populated := make(map[string]bool)
	for _, c := range a.program.Classes {
		info, ok := a.registry.Classes[c.Name]
		if !ok || populated[c.Name] {
			continue // duplicate class, already reported
		}
		populated[c.Name] = true
		c.FieldOffsets = make(map[string]int)

		fieldSeen := make(map[string]bool)
		for _, f := range c.Fields {
			if fieldSeen[f.Name] {
				a.report(errors.DuplicateDeclaration(f.Name, f.Pos))
				continue
			}
			fieldSeen[f.Name] = true

			typ, ok := a.registry.ParseName(f.Type)
			if !ok {
				a.report(errors.UndefinedClass(f.Type, f.Pos, a.registry.ClassOrder))
				typ = types.IntType
			}
			info.AddField(a.registry, f.Name, typ)
			c.FieldOffsets[f.Name] = info.FieldOffset[f.Name]
		}

		methodSeen := make(map[string]bool)
		for _, m := range c.Methods {
			if methodSeen[m.Name] {
				a.report(errors.DuplicateDeclaration(m.Name, m.Pos))
				continue
			}
			methodSeen[m.Name] = true

			info.AddMethod(a.registry, &types.Method{
				Name:       m.Name,
				Params:     a.resolveParams(m.Params),
				ReturnType: a.resolveReturnType(m.ReturnType, m.Pos),
			})
		}
	}
}

func (a *Analyzer) resolveParams(params []*ast.Param) []types.Param {
	out := make([]types.Param, 0, len(params))
	for _, p := range params {
		typ, ok := a.registry.ParseName(p.Type)
		if !ok {
			a.report(errors.UndefinedClass(p.Type, p.Pos, a.registry.ClassOrder))
			typ = types.IntType
		}
		out = append(out, types.Param{Name: p.Name, Type: typ})
	}
	return out
}

func (a *Analyzer) resolveReturnType(name string, pos ast.Position) types.Type {
	if name == "" {
		return types.IntType
	}
	typ, ok := a.registry.ParseName(name)
	if !ok {
		a.report(errors.UndefinedClass(name, pos, a.registry.ClassOrder))
		return types.IntType
	}
	return typ
}
