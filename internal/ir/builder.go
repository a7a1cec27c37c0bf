package ir

import (
	"strconv"

	"comp/internal/ast"
	"comp/internal/types"
)

// Builder lowers a typechecked Program to IR. One Builder lowers exactly one
// source program; it is not reusable across programs.
type Builder struct {
	registry *types.Registry

	tempCounter  int
	labelCounter int

	curBlock          *BasicBlock
	blocks            []*BasicBlock
	hasExplicitReturn bool

	globals   []*GlobalArray
	functions []*Function
}

// NewBuilder creates a Builder that lowers against the given class registry.
// registry must already be fully populated (post buildRegistry).
func NewBuilder(registry *types.Registry) *Builder {
	return &Builder{registry: registry}
}

// BuildProgram lowers prog's classes and main into a complete IR Program:
// every class's vtable and field-id globals, one function per method, and
// the main function.
func (b *Builder) BuildProgram(prog *ast.Program) *Program {
	b.buildGlobals()

	for _, c := range prog.Classes {
		for _, m := range c.Methods {
			b.genMethod(c, m)
		}
	}
	b.genMain(prog.Main)

	return &Program{Globals: b.globals, Functions: b.functions}
}

func (b *Builder) freshVar(prefix string) string {
	name := prefix + strconv.Itoa(b.tempCounter)
	b.tempCounter++
	return name
}

func (b *Builder) freshLabel(prefix string) string {
	label := prefix + strconv.Itoa(b.labelCounter)
	b.labelCounter++
	return label
}

func (b *Builder) push(p Primitive) {
	b.curBlock.Primitives = append(b.curBlock.Primitives, p)
}

// finishBlock closes the current block with transfer, appends it, and opens
// a fresh current block named nextLabel.
func (b *Builder) finishBlock(transfer Terminator, nextLabel string) {
	b.curBlock.Terminator = transfer
	b.blocks = append(b.blocks, b.curBlock)

	b.curBlock = &BasicBlock{Label: nextLabel}
	b.hasExplicitReturn = false
}

// fallthroughOrJump returns the current block's own terminator if a return
// statement has already set one on this path, else a Jump to label. Used at
// the end of an if/ifonly/while arm to decide whether to fall through to the
// merge block or preserve an explicit return.
func (b *Builder) fallthroughOrJump(label string) Terminator {
	if b.hasExplicitReturn {
		return b.curBlock.Terminator
	}
	return &Jump{Target: label}
}

// buildGlobals emits every class's vtable and field-id array. Array length
// is the total number of distinct method/field names program-wide; an entry
// is the literal "0" for a name the class does not implement/declare.
func (b *Builder) buildGlobals() {
	for _, className := range b.registry.ClassOrder {
		info := b.registry.Classes[className]

		vtbl := make([]string, len(b.registry.MethodIDOrder))
		for i := range vtbl {
			vtbl[i] = "0"
		}
		for _, methodName := range info.MethodOrder {
			vtbl[b.registry.MethodID[methodName]] = types.VtableLabel(methodName, className)
		}
		b.globals = append(b.globals, &GlobalArray{Name: types.VtableName(className), Vals: vtbl})

		fields := make([]string, len(b.registry.FieldIDOrder))
		for i := range fields {
			fields[i] = "0"
		}
		for _, fieldName := range info.FieldNames {
			fields[b.registry.FieldID[fieldName]] = strconv.Itoa(info.FieldOffset[fieldName])
		}
		b.globals = append(b.globals, &GlobalArray{Name: types.FieldsArrayName(className), Vals: fields})
	}
}

func (b *Builder) genMethod(class *ast.Class, m *ast.Method) {
	name := types.VtableLabel(m.Name, class.Name)

	args := make([]string, 0, 1+len(m.Params))
	args = append(args, "this")
	for _, p := range m.Params {
		args = append(args, p.Name)
	}

	b.curBlock = &BasicBlock{Label: name}
	b.blocks = nil
	b.hasExplicitReturn = false

	for _, l := range m.Locals {
		b.push(&Assign{DestName: l.Name, Value: Constant{N: 0}})
	}
	b.genStmts(m.Body)

	b.finishFunction(name, args)
}

func (b *Builder) genMain(main *ast.Main) {
	b.curBlock = &BasicBlock{Label: "main"}
	b.blocks = nil
	b.hasExplicitReturn = false

	for _, l := range main.Locals {
		b.push(&Assign{DestName: l.Name, Value: Constant{N: 0}})
	}
	b.genStmts(main.Body)

	b.finishFunction("main", nil)
}

// finishFunction closes out the current function: a body that falls off the
// end without an explicit return implicitly returns Constant(0).
func (b *Builder) finishFunction(name string, args []string) {
	if !b.hasExplicitReturn {
		b.curBlock.Terminator = &Return{Value: Constant{N: 0}}
	}
	b.blocks = append(b.blocks, b.curBlock)
	b.functions = append(b.functions, &Function{Name: name, Args: args, Blocks: b.blocks})
}

func (b *Builder) genStmts(stmts []*ast.Stmt) {
	for _, s := range stmts {
		b.genStmt(s)
	}
}

func (b *Builder) genStmt(s *ast.Stmt) {
	switch {
	case s.If != nil:
		b.genIf(s.If)
	case s.IfOnly != nil:
		b.genIfOnly(s.IfOnly)
	case s.While != nil:
		b.genWhile(s.While)
	case s.Return != nil:
		val := b.evalExpr(s.Return.Value)
		b.curBlock.Terminator = &Return{Value: val}
		b.hasExplicitReturn = true
	case s.Print != nil:
		val := b.evalExpr(s.Print.Value)
		b.push(&Print{Value: val})
	case s.FieldWrite != nil:
		b.genFieldWrite(s.FieldWrite)
	case s.Assign != nil:
		val := b.evalExpr(s.Assign.Value)
		if s.Assign.Name != "_" {
			b.push(&Assign{DestName: s.Assign.Name, Value: val})
		}
	}
}

func (b *Builder) genIf(s *ast.IfStmt) {
	cond := b.evalExpr(s.Cond)
	thenLabel := b.freshLabel("then")
	elseLabel := b.freshLabel("else")
	mergeLabel := b.freshLabel("merge")

	b.finishBlock(&Branch{Cond: cond, Then: thenLabel, Else: elseLabel}, thenLabel)
	b.genStmts(s.Then)
	thenTerm := b.fallthroughOrJump(mergeLabel)
	b.finishBlock(thenTerm, elseLabel)

	b.genStmts(s.Else)
	elseTerm := b.fallthroughOrJump(mergeLabel)
	b.finishBlock(elseTerm, mergeLabel)
}

func (b *Builder) genIfOnly(s *ast.IfOnlyStmt) {
	cond := b.evalExpr(s.Cond)
	thenLabel := b.freshLabel("then")
	mergeLabel := b.freshLabel("merge")

	b.finishBlock(&Branch{Cond: cond, Then: thenLabel, Else: mergeLabel}, thenLabel)
	b.genStmts(s.Body)
	thenTerm := b.fallthroughOrJump(mergeLabel)
	b.finishBlock(thenTerm, mergeLabel)
}

func (b *Builder) genWhile(s *ast.WhileStmt) {
	condLabel := b.freshLabel("condLabel")
	bodyLabel := b.freshLabel("whileBody")
	mergeLabel := b.freshLabel("whileMerge")

	b.finishBlock(&Jump{Target: condLabel}, condLabel)

	cond := b.evalExpr(s.Cond)
	b.finishBlock(&Branch{Cond: cond, Then: bodyLabel, Else: mergeLabel}, bodyLabel)

	b.genStmts(s.Body)
	bodyTerm := b.fallthroughOrJump(condLabel)
	b.finishBlock(bodyTerm, mergeLabel)
}

// genFieldWrite lowers a field-write statement: the null-check prologue
// followed by a SetElt, discarding the (always Constant(0)) expression
// value.
func (b *Builder) genFieldWrite(s *ast.FieldWriteStmt) {
	base := b.evalExpr(s.Base)
	val := b.evalExpr(s.Value)
	info := b.registry.Classes[s.Base.ResolvedType]
	_, slot, _ := info.Field(s.Field)

	okLabel := b.freshLabel("store")
	badLabel := b.freshLabel("badptr")
	finalLabel := b.freshLabel("final")

	b.finishBlock(&Branch{Cond: base, Then: okLabel, Else: badLabel}, okLabel)
	b.push(&SetElt{Arr: base, Idx: slot, Value: val})
	b.finishBlock(&Jump{Target: finalLabel}, badLabel)
	b.finishBlock(&Fail{Kind: NotAPointer}, finalLabel)
}

// evalExpr lowers an expression, returning the Value it computes. Evaluation
// order is left-to-right; subexpressions with runtime safety checks may
// split the current block.
func (b *Builder) evalExpr(e *ast.Expr) Value {
	switch {
	case e.Paren != nil:
		return b.evalParen(e.Paren)
	case e.FieldRead != nil:
		return b.evalFieldRead(e.FieldRead)
	case e.MethodCall != nil:
		return b.evalMethodCall(e.MethodCall)
	case e.ClassRef != nil:
		return b.evalClassRef(e.ClassRef)
	case e.Null != nil:
		return Constant{N: 0}
	case e.This != nil:
		return Variable{Name: "this"}
	case e.Number != nil:
		return Constant{N: *e.Number}
	case e.Variable != nil:
		return Variable{Name: *e.Variable}
	}
	return Constant{N: 0}
}

func (b *Builder) evalParen(p *ast.ParenExpr) Value {
	left := b.evalExpr(p.Left)
	right := b.evalExpr(p.Right)

	switch p.Op {
	case "!=":
		eq := b.freshVar("eq")
		b.push(&BinOp{DestName: eq, Lhs: left, Op: "==", Rhs: right})
		dest := b.freshVar("ne")
		b.push(&BinOp{DestName: dest, Lhs: Variable{Name: eq}, Op: "^", Rhs: Constant{N: 1}})
		return Variable{Name: dest}
	default:
		dest := b.freshVar("t")
		b.push(&BinOp{DestName: dest, Lhs: left, Op: p.Op, Rhs: right})
		return Variable{Name: dest}
	}
}

// evalClassRef lowers `@C`: allocate one slot per field plus the vtable
// slot, and install the vtable pointer.
func (b *Builder) evalClassRef(c *ast.ClassRefExpr) Value {
	info := b.registry.Classes[c.Name]
	obj := b.freshVar("obj")
	b.push(&Alloc{DestName: obj, Size: 1 + len(info.FieldNames)})
	b.push(&Store{Addr: Variable{Name: obj}, Value: Global{Name: types.VtableName(c.Name)}})
	return Variable{Name: obj}
}

// evalFieldRead lowers `&e.f`: a null-check prologue guarding a GetElt at
// the field's statically resolved slot.
func (b *Builder) evalFieldRead(f *ast.FieldReadExpr) Value {
	base := b.evalExpr(f.Base)
	info := b.registry.Classes[f.Base.ResolvedType]
	_, slot, _ := info.Field(f.Field)

	okLabel := b.freshLabel("load")
	badLabel := b.freshLabel("badptr")
	finalLabel := b.freshLabel("final")

	b.finishBlock(&Branch{Cond: base, Then: okLabel, Else: badLabel}, okLabel)
	dest := b.freshVar("t")
	b.push(&GetElt{DestName: dest, Arr: base, Idx: slot})
	b.finishBlock(&Jump{Target: finalLabel}, badLabel)
	b.finishBlock(&Fail{Kind: NotAPointer}, finalLabel)

	return Variable{Name: dest}
}

// evalMethodCall lowers `^e.m(args...)`: a null-check prologue, then vtable
// load and dispatch. A vtable entry of 0 for an unimplemented method is
// unreachable under a well-typed program, so no NoSuchMethod check is
// emitted.
func (b *Builder) evalMethodCall(c *ast.MethodCallExpr) Value {
	base := b.evalExpr(c.Base)

	okLabel := b.freshLabel("load")
	badLabel := b.freshLabel("badptr")
	finalLabel := b.freshLabel("final")

	b.finishBlock(&Branch{Cond: base, Then: okLabel, Else: badLabel}, okLabel)

	vtable := b.freshVar("vtable")
	b.push(&Load{DestName: vtable, Addr: base})

	methodID := b.registry.MethodID[c.Method]
	methodPtr := b.freshVar("methodPtr")
	b.push(&GetElt{DestName: methodPtr, Arr: Variable{Name: vtable}, Idx: methodID})

	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = b.evalExpr(a)
	}

	result := b.freshVar("callResult")
	b.push(&Call{DestName: result, Func: Variable{Name: methodPtr}, Receiver: base, Args: args})

	b.finishBlock(&Jump{Target: finalLabel}, badLabel)
	b.finishBlock(&Fail{Kind: NotAPointer}, finalLabel)

	return Variable{Name: result}
}
