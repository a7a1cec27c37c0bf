package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Program as deterministic text: a data section of global
// arrays followed by a code section of functions, in insertion order.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates an empty printer.
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the text rendering of program.
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) write(format string, args ...interface{}) {
	p.output.WriteString(fmt.Sprintf(format, args...))
}

func (p *Printer) printProgram(program *Program) {
	p.writeLine("data:")
	for _, g := range program.Globals {
		p.writeLine("global array %s: { %s }", g.Name, strings.Join(g.Vals, ", "))
	}

	p.writeLine("")
	p.writeLine("code:")

	for _, fn := range program.Functions {
		p.writeLine("")
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn *Function) {
	if len(fn.Args) == 0 {
		p.writeLine("%s:", fn.Name)
	} else {
		p.writeLine("%s(%s):", fn.Name, strings.Join(fn.Args, ", "))
	}

	for i, blk := range fn.Blocks {
		if i > 0 {
			p.writeLine("%s:", blk.Label)
		}
		p.printBlock(blk)
	}
}

func (p *Printer) printBlock(blk *BasicBlock) {
	p.indent++
	for _, prim := range blk.Primitives {
		p.writeLine("%s", printPrimitive(prim))
	}
	p.writeLine("%s", printTerminator(blk.Terminator))
	p.indent--
}

func printPrimitive(prim Primitive) string {
	switch v := prim.(type) {
	case *Assign:
		return fmt.Sprintf("%%%s = %s", v.DestName, v.Value.String())
	case *BinOp:
		return fmt.Sprintf("%%%s = %s %s %s", v.DestName, v.Lhs.String(), v.Op, v.Rhs.String())
	case *Call:
		parts := make([]string, 0, 2+len(v.Args))
		parts = append(parts, v.Func.String(), v.Receiver.String())
		for _, a := range v.Args {
			parts = append(parts, a.String())
		}
		return fmt.Sprintf("%%%s = call(%s)", v.DestName, strings.Join(parts, ", "))
	case *Phi:
		parts := make([]string, 0, 2*len(v.Args))
		for _, a := range v.Args {
			parts = append(parts, a.Label, a.Value.String())
		}
		return fmt.Sprintf("%%%s = phi(%s)", v.DestName, strings.Join(parts, ", "))
	case *Alloc:
		return fmt.Sprintf("%%%s = alloc(%d)", v.DestName, v.Size)
	case *Print:
		return fmt.Sprintf("print(%s)", v.Value.String())
	case *GetElt:
		return fmt.Sprintf("%%%s = getelt(%s, %d)", v.DestName, v.Arr.String(), v.Idx)
	case *SetElt:
		return fmt.Sprintf("setelt(%s, %d, %s)", v.Arr.String(), v.Idx, v.Value.String())
	case *Load:
		return fmt.Sprintf("%%%s = load(%s)", v.DestName, v.Addr.String())
	case *Store:
		return fmt.Sprintf("store(%s, %s)", v.Addr.String(), v.Value.String())
	default:
		return ""
	}
}

func printTerminator(t Terminator) string {
	switch v := t.(type) {
	case *Jump:
		return fmt.Sprintf("jump %s", v.Target)
	case *Branch:
		return fmt.Sprintf("if %s then %s else %s", v.Cond.String(), v.Then, v.Else)
	case *Return:
		return fmt.Sprintf("ret %s", v.Value.String())
	case *Fail:
		return fmt.Sprintf("fail %s", v.Kind.String())
	default:
		return ""
	}
}
