package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comp/internal/errors"
	"comp/internal/grammar"
)

func analyze(t *testing.T, source string) (*Analyzer, []errors.CompilerError) {
	t.Helper()
	program, err := grammar.ParseSource("test.src", source)
	require.NoError(t, err)

	a := NewAnalyzer(program)
	_, errs := a.Analyze()
	return a, errs
}

func TestAnalyzeCleanProgram(t *testing.T) {
	source := `class A [
  fields v:int
  method get() returning int with locals: return &this.v
]
main with a:A: a = @A !a.v = 7 print(^a.get())`

	_, errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestAnalyzeUndefinedVariable(t *testing.T) {
	source := `main with x:int: y = 1`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeTypeMismatchOnAssign(t *testing.T) {
	source := `class A [ fields v:int ]
main with x:int, a:A: x = a`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeFieldNotFound(t *testing.T) {
	source := `class A [ fields v:int ]
main with a:A: a = @A print(&a.missing)`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeMethodNotFound(t *testing.T) {
	source := `class A [ fields v:int ]
main with a:A: a = @A print(^a.missing())`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeInvalidArguments(t *testing.T) {
	source := `class A [
  method m(p:int) returning int with locals: return p
]
main with a:A: a = @A print(^a.m())`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeInvalidBinaryOperation(t *testing.T) {
	source := `class A [ fields v:int ]
main with a:A, b:A: a = @A b = @A print((a + b))`

	_, errs := analyze(t, source)
	require.Len(t, errs, 1)
}

func TestAnalyzeRegistryFieldAndMethodIDs(t *testing.T) {
	source := `class A [
  fields v:int
  method get() returning int with locals: return &this.v
]
class B [
  fields v:int, w:int
  method get() returning int with locals: return &this.v
]
main with a:A: a = @A print(^a.get())`

	program, err := grammar.ParseSource("test.src", source)
	require.NoError(t, err)

	a := NewAnalyzer(program)
	registry, errs := a.Analyze()
	require.Empty(t, errs)

	assert.Equal(t, []string{"A", "B"}, registry.ClassOrder)
	assert.Equal(t, []string{"v", "w"}, registry.FieldIDOrder)
	assert.Equal(t, []string{"get"}, registry.MethodIDOrder)

	infoB := registry.Classes["B"]
	assert.Equal(t, 1, infoB.FieldOffset["v"])
	assert.Equal(t, 2, infoB.FieldOffset["w"])
}

func TestAnalyzeOmittedReturnTypeDefaultsToInt(t *testing.T) {
	source := `class A [
  method m() with locals: return 1
]
main with a:A: a = @A print(^a.m())`

	_, errs := analyze(t, source)
	assert.Empty(t, errs)
}
