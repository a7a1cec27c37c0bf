package semantic

import (
	"comp/internal/ast"
	"comp/internal/errors"
	"comp/internal/types"
)

// env is the typing environment for one method or main body: the receiver's
// type (nil outside a method), and every parameter/local in scope. There is
// no block-level scoping in this language; params and locals are all
// declared in the method/main prologue.
type env struct {
	thisType *types.Type
	vars     map[string]types.Type
}

func (e *env) names() []string {
	names := make([]string, 0, len(e.vars))
	for n := range e.vars {
		names = append(names, n)
	}
	return names
}

func (a *Analyzer) checkMethod(class *ast.Class, m *ast.Method) {
	info := a.registry.Classes[class.Name]
	method := info.Methods[m.Name]

	this := types.ClassType(class.Name)
	e := &env{thisType: &this, vars: make(map[string]types.Type)}
	for _, p := range method.Params {
		e.vars[p.Name] = p.Type
	}
	for _, l := range m.Locals {
		typ, ok := a.registry.ParseName(l.Type)
		if !ok {
			a.report(errors.UndefinedClass(l.Type, l.Pos, a.registry.ClassOrder))
			typ = types.IntType
		}
		e.vars[l.Name] = typ
	}

	a.checkStmts(m.Body, e, method.ReturnType)
}

func (a *Analyzer) checkMain(main *ast.Main) {
	e := &env{vars: make(map[string]types.Type)}
	for _, l := range main.Locals {
		typ, ok := a.registry.ParseName(l.Type)
		if !ok {
			a.report(errors.UndefinedClass(l.Type, l.Pos, a.registry.ClassOrder))
			typ = types.IntType
		}
		e.vars[l.Name] = typ
	}
	a.checkStmts(main.Body, e, types.IntType)
}

func (a *Analyzer) checkStmts(stmts []*ast.Stmt, e *env, returnType types.Type) {
	for _, s := range stmts {
		a.checkStmt(s, e, returnType)
	}
}

func (a *Analyzer) checkStmt(s *ast.Stmt, e *env, returnType types.Type) {
	switch {
	case s.If != nil:
		a.checkExpr(s.If.Cond, e)
		a.checkStmts(s.If.Then, e, returnType)
		a.checkStmts(s.If.Else, e, returnType)
	case s.IfOnly != nil:
		a.checkExpr(s.IfOnly.Cond, e)
		a.checkStmts(s.IfOnly.Body, e, returnType)
	case s.While != nil:
		a.checkExpr(s.While.Cond, e)
		a.checkStmts(s.While.Body, e, returnType)
	case s.Return != nil:
		valType := a.checkExpr(s.Return.Value, e)
		if !valType.Equal(returnType) {
			a.report(errors.TypeMismatch(returnType.String(), valType.String(), s.Return.Pos))
		}
	case s.Print != nil:
		a.checkExpr(s.Print.Value, e)
	case s.FieldWrite != nil:
		a.checkFieldWrite(s.FieldWrite, e)
	case s.Assign != nil:
		a.checkAssign(s.Assign, e)
	}
}

func (a *Analyzer) checkAssign(s *ast.AssignStmt, e *env) {
	valType := a.checkExpr(s.Value, e)
	if s.Name == "_" {
		return
	}
	varType, ok := e.vars[s.Name]
	if !ok {
		a.report(errors.UndefinedVariable(s.Name, s.Pos, e.names()))
		return
	}
	if !varType.Equal(valType) {
		a.report(errors.TypeMismatch(varType.String(), valType.String(), s.Pos))
	}
}

func (a *Analyzer) checkFieldWrite(s *ast.FieldWriteStmt, e *env) {
	baseType := a.checkExpr(s.Base, e)
	valType := a.checkExpr(s.Value, e)

	if baseType.Kind != types.Class {
		a.report(errors.TypeMismatch("a class type", baseType.String(), s.Base.Pos))
		return
	}
	info := a.registry.Classes[baseType.ClassName]
	fieldType, _, ok := info.Field(s.Field)
	if !ok {
		a.report(errors.FieldNotFound(baseType.ClassName, s.Field, s.Pos, info.FieldNames))
		return
	}
	if !fieldType.Equal(valType) {
		a.report(errors.TypeMismatch(fieldType.String(), valType.String(), s.Pos))
	}
}

// checkExpr typechecks e, annotates e.ResolvedType, and returns the resolved
// type. On a semantic error it still returns a type (defaulting to Int) so
// that checking of the enclosing expression can continue.
func (a *Analyzer) checkExpr(e *ast.Expr, env *env) types.Type {
	typ := a.checkExprKind(e, env)
	e.ResolvedType = typ.String()
	return typ
}

func (a *Analyzer) checkExprKind(e *ast.Expr, env *env) types.Type {
	switch {
	case e.Paren != nil:
		return a.checkParen(e.Paren, env)
	case e.FieldRead != nil:
		return a.checkFieldRead(e.FieldRead, env)
	case e.MethodCall != nil:
		return a.checkMethodCall(e.MethodCall, env)
	case e.ClassRef != nil:
		if _, ok := a.registry.Classes[e.ClassRef.Name]; !ok {
			a.report(errors.UndefinedClass(e.ClassRef.Name, e.ClassRef.Pos, a.registry.ClassOrder))
			return types.IntType
		}
		return types.ClassType(e.ClassRef.Name)
	case e.Null != nil:
		if _, ok := a.registry.Classes[e.Null.Class]; !ok {
			a.report(errors.UndefinedClass(e.Null.Class, e.Null.Pos, a.registry.ClassOrder))
			return types.IntType
		}
		return types.ClassType(e.Null.Class)
	case e.This != nil:
		if env.thisType == nil {
			a.report(errors.NewSemanticError(errors.ErrorGenericSemantic, "'this' used outside a method", e.This.Pos).Build())
			return types.IntType
		}
		return *env.thisType
	case e.Number != nil:
		return types.IntType
	case e.Variable != nil:
		typ, ok := env.vars[*e.Variable]
		if !ok {
			a.report(errors.UndefinedVariable(*e.Variable, e.Pos, env.names()))
			return types.IntType
		}
		return typ
	}
	return types.IntType
}

func (a *Analyzer) checkParen(p *ast.ParenExpr, env *env) types.Type {
	left := a.checkExpr(p.Left, env)
	right := a.checkExpr(p.Right, env)

	switch p.Op {
	case "==", "!=":
		if !left.Equal(right) {
			a.report(errors.InvalidBinaryOperation(p.Op, left.String(), right.String(), p.Pos))
		}
	default:
		if left.Kind != types.Int || right.Kind != types.Int {
			a.report(errors.InvalidBinaryOperation(p.Op, left.String(), right.String(), p.Pos))
		}
	}
	return types.IntType
}

func (a *Analyzer) checkFieldRead(f *ast.FieldReadExpr, env *env) types.Type {
	baseType := a.checkExpr(f.Base, env)
	if baseType.Kind != types.Class {
		a.report(errors.TypeMismatch("a class type", baseType.String(), f.Base.Pos))
		return types.IntType
	}
	info := a.registry.Classes[baseType.ClassName]
	fieldType, _, ok := info.Field(f.Field)
	if !ok {
		a.report(errors.FieldNotFound(baseType.ClassName, f.Field, f.Pos, info.FieldNames))
		return types.IntType
	}
	return fieldType
}

func (a *Analyzer) checkMethodCall(c *ast.MethodCallExpr, env *env) types.Type {
	baseType := a.checkExpr(c.Base, env)
	argTypes := make([]types.Type, len(c.Args))
	for i, arg := range c.Args {
		argTypes[i] = a.checkExpr(arg, env)
	}

	if baseType.Kind != types.Class {
		a.report(errors.TypeMismatch("a class type", baseType.String(), c.Base.Pos))
		return types.IntType
	}
	info := a.registry.Classes[baseType.ClassName]
	method, ok := info.Method(c.Method)
	if !ok {
		a.report(errors.MethodNotFound(baseType.ClassName, c.Method, c.Pos, info.MethodOrder))
		return types.IntType
	}

	if len(method.Params) != len(argTypes) {
		a.report(errors.InvalidArguments(c.Method, len(method.Params), len(argTypes), c.Pos))
		return method.ReturnType
	}
	for i, param := range method.Params {
		if !param.Type.Equal(argTypes[i]) {
			a.report(errors.TypeMismatch(param.Type.String(), argTypes[i].String(), c.Args[i].Pos))
		}
	}
	return method.ReturnType
}
