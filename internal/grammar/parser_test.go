package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceSimpleMain(t *testing.T) {
	source := `main with x:int: x = (2 + 3) print(x)`

	program, err := ParseSource("test.src", source)
	require.NoError(t, err)
	require.NotNil(t, program)

	assert.Empty(t, program.Classes)
	require.Len(t, program.Main.Locals, 1)
	assert.Equal(t, "x", program.Main.Locals[0].Name)
	assert.Equal(t, "int", program.Main.Locals[0].Type)
	require.Len(t, program.Main.Body, 2)
	assert.NotNil(t, program.Main.Body[0].Assign)
	assert.NotNil(t, program.Main.Body[1].Print)
}

func TestParseClassWithFieldsAndMethod(t *testing.T) {
	source := `class A [
  fields v:int
  method m() returning int with locals: return &this.v
]
main with a:A: a = @A !a.v = 7 print(^a.m())`

	program, err := ParseSource("test.src", source)
	require.NoError(t, err)
	require.Len(t, program.Classes, 1)

	class := program.Classes[0]
	assert.Equal(t, "A", class.Name)
	require.Len(t, class.Fields, 1)
	assert.Equal(t, "v", class.Fields[0].Name)
	require.Len(t, class.Methods, 1)

	method := class.Methods[0]
	assert.Equal(t, "m", method.Name)
	assert.Equal(t, "int", method.ReturnType)
	require.Len(t, method.Body, 1)
	require.NotNil(t, method.Body[0].Return)
	require.NotNil(t, method.Body[0].Return.Value.FieldRead)

	require.Len(t, program.Main.Body, 3)
	assert.NotNil(t, program.Main.Body[0].Assign)
	assert.NotNil(t, program.Main.Body[1].FieldWrite)
	assert.NotNil(t, program.Main.Body[2].Print)
}

func TestParseControlFlow(t *testing.T) {
	source := `main with x:int: x = 0 while (x < 3): { x = (x + 1) } print(x)`

	program, err := ParseSource("test.src", source)
	require.NoError(t, err)
	require.Len(t, program.Main.Body, 3)
	require.NotNil(t, program.Main.Body[1].While)
	assert.Equal(t, "<", program.Main.Body[1].While.Cond.Paren.Op)
}

func TestParseSyntaxError(t *testing.T) {
	source := `main with x:int x = 1`

	_, err := ParseSource("test.src", source)
	assert.Error(t, err)
}

func TestParseNullAndThis(t *testing.T) {
	source := `class A [ fields v:int ]
main with a:A: a = null:A print(&a.v)`

	program, err := ParseSource("test.src", source)
	require.NoError(t, err)
	assign := program.Main.Body[0].Assign
	require.NotNil(t, assign)
	require.NotNil(t, assign.Value.Null)
	assert.Equal(t, "A", assign.Value.Null.Class)
}
