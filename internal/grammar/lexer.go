// Package grammar wires a participle stateful lexer to the internal/ast
// struct-tag grammar. The AST package carries the grammar itself; this
// package owns tokenizing and the top-level Parse entry point.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes source files. Keywords are plain identifiers matched by
// literal string in the grammar, not distinct token kinds, so the rule table
// stays this small.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Int", `[0-9]+`, nil},
		{"Operator", `(==|!=|[-+*/&|^<>=.,:;(){}\[\]!@])`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
