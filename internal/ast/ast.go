// Package ast defines the abstract syntax tree for the source language.
//
// Nodes double as the participle grammar: struct tags in this file are the
// parser. internal/grammar only wires up the lexer and the top-level Parse
// entry point; the grammar itself lives here next to the tree it produces.
package ast

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Position is a location in a source file. It is participle's lexer.Position
// so that AST nodes populate it for free (participle assigns any field named
// Pos of this type automatically).
type Position = lexer.Position

// Program is the root of a parsed source file: zero or more class
// declarations followed by a mandatory main declaration.
type Program struct {
	Pos     Position
	Classes []*Class `@@*`
	Main    *Main    `@@`
}

// Class declares a class's fields and methods.
type Class struct {
	Pos     Position
	Name    string    `"class" @Ident "["`
	Fields  []*Field  `("fields" (@@ ("," @@)*)?)?`
	Methods []*Method `@@* "]"`

	// Filled in by the typechecker: field name -> object slot offset.
	FieldOffsets map[string]int
}

// Field is a single `name:type` field declaration.
type Field struct {
	Pos  Position
	Name string `@Ident`
	Type string `":" @Ident`
}

// Param is a single `name:type` method parameter.
type Param struct {
	Pos  Position
	Name string `@Ident`
	Type string `":" @Ident`
}

// Local is a single `name:type` local variable declaration.
type Local struct {
	Pos  Position
	Name string `@Ident`
	Type string `":" @Ident`
}

// Method is a single-dispatch method of a class.
type Method struct {
	Pos        Position
	Name       string   `"method" @Ident`
	Params     []*Param `"(" (@@ ("," @@)*)? ")"`
	ReturnType string   `("returning" @Ident)?`
	Locals     []*Local `"with" "locals" (@@ ("," @@)*)?`
	Body       []*Stmt  `":" @@*`
}

// Main is the program entry point: `main with <locals>: <statements>`.
type Main struct {
	Pos    Position
	Locals []*Local `"main" "with" (@@ ("," @@)*)?`
	Body   []*Stmt  `":" @@*`
}
