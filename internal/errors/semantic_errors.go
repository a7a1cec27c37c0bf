package errors

import (
	"fmt"
	"strings"

	"comp/internal/ast"
)

// SemanticErrorBuilder provides a fluent interface for creating semantic errors with suggestions
type SemanticErrorBuilder struct {
	err CompilerError
}

// NewSemanticError creates a new semantic error builder
func NewSemanticError(code, message string, pos ast.Position) *SemanticErrorBuilder {
	return &SemanticErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *SemanticErrorBuilder) WithLength(length int) *SemanticErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *SemanticErrorBuilder) WithSuggestion(message string) *SemanticErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *SemanticErrorBuilder) WithNote(note string) *SemanticErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *SemanticErrorBuilder) WithHelp(help string) *SemanticErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *SemanticErrorBuilder) Build() CompilerError {
	return b.err
}

// Common semantic error constructors

// UndefinedVariable creates an error for a reference to an undeclared local.
func UndefinedVariable(name string, pos ast.Position, candidates []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedVariable, fmt.Sprintf("undefined variable '%s'", name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, candidates); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	} else {
		builder = builder.WithNote("variables must appear as a parameter, local, or field of the current method")
	}

	return builder.Build()
}

// UndefinedClass creates an error for a reference to an undeclared class.
func UndefinedClass(name string, pos ast.Position, candidates []string) CompilerError {
	builder := NewSemanticError(ErrorUndefinedClass, fmt.Sprintf("undefined class '%s'", name), pos).
		WithLength(len(name))

	if similar := findSimilarNames(name, candidates); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// TypeMismatch creates an error for a type mismatch between an expected and an actual type.
func TypeMismatch(expected, actual string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorTypeMismatch, fmt.Sprintf("type mismatch: expected %s, found %s", expected, actual), pos).
		Build()
}

// FieldNotFound creates an error for an access to a field that does not exist on a class.
func FieldNotFound(className, fieldName string, pos ast.Position, availableFields []string) CompilerError {
	builder := NewSemanticError(ErrorFieldNotFound, fmt.Sprintf("class '%s' has no field '%s'", className, fieldName), pos).
		WithLength(len(fieldName))

	if similar := findSimilarNames(fieldName, availableFields); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}
	if len(availableFields) > 0 {
		builder = builder.WithNote(fmt.Sprintf("available fields: %s", strings.Join(availableFields, ", ")))
	}

	return builder.Build()
}

// MethodNotFound creates an error for a call to a method that does not exist on a class.
func MethodNotFound(className, methodName string, pos ast.Position, availableMethods []string) CompilerError {
	builder := NewSemanticError(ErrorMethodNotFound, fmt.Sprintf("class '%s' has no method '%s'", className, methodName), pos).
		WithLength(len(methodName))

	if similar := findSimilarNames(methodName, availableMethods); len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// InvalidBinaryOperation creates an error for a binop applied to ill-typed operands.
func InvalidBinaryOperation(op, leftType, rightType string, pos ast.Position) CompilerError {
	builder := NewSemanticError(ErrorInvalidBinaryOperation, fmt.Sprintf("invalid operation: %s %s %s", leftType, op, rightType), pos)

	switch op {
	case "==", "!=":
		builder = builder.WithNote("equality requires both operands to have the same type")
	default:
		builder = builder.WithNote(fmt.Sprintf("'%s' requires both operands to be int", op))
	}

	return builder.Build()
}

// InvalidArguments creates an error for a method call with the wrong argument count.
func InvalidArguments(methodName string, expected, actual int, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorInvalidArguments,
		fmt.Sprintf("method '%s' expects %d argument(s), got %d", methodName, expected, actual), pos).
		Build()
}

// DuplicateDeclaration creates an error for a name declared more than once in the same scope.
func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return NewSemanticError(ErrorDuplicateDeclaration, fmt.Sprintf("duplicate declaration: %s", name), pos).
		WithSuggestion(fmt.Sprintf("rename one of the declarations of '%s'", name)).
		Build()
}

// Helper functions

func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}
	return similar
}

// levenshteinDistance is a simple edit-distance implementation used to find
// plausible near-miss names for error suggestions.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
