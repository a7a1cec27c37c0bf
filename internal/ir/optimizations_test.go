package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantFoldingSimpleBinOp(t *testing.T) {
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&Assign{DestName: "a", Value: Constant{N: 2}},
			&Assign{DestName: "b", Value: Constant{N: 3}},
			&BinOp{DestName: "t0", Lhs: Variable{Name: "a"}, Op: "+", Rhs: Variable{Name: "b"}},
		},
		Terminator: &Return{Value: Variable{Name: "t0"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}
	program := &Program{Functions: []*Function{fn}}

	pipeline := NewOptimizationPipeline()
	pipeline.Run(program)

	folded, ok := blk.Primitives[2].(*Assign)
	require.True(t, ok)
	assert.Equal(t, Constant{N: 5}, folded.Value)
}

func TestConstantFoldingChainsToFixpoint(t *testing.T) {
	// a = 2; b = (a + 3); c = (b * 2)  ->  a=2, b=5, c=10, all folded
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&Assign{DestName: "a", Value: Constant{N: 2}},
			&BinOp{DestName: "b", Lhs: Variable{Name: "a"}, Op: "+", Rhs: Constant{N: 3}},
			&BinOp{DestName: "c", Lhs: Variable{Name: "b"}, Op: "*", Rhs: Constant{N: 2}},
		},
		Terminator: &Return{Value: Variable{Name: "c"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	foldConstants(fn)

	b, ok := blk.Primitives[1].(*Assign)
	require.True(t, ok)
	assert.Equal(t, Constant{N: 5}, b.Value)

	c, ok := blk.Primitives[2].(*Assign)
	require.True(t, ok)
	assert.Equal(t, Constant{N: 10}, c.Value)
}

func TestConstantFoldingLeavesNonConstantOperandsAlone(t *testing.T) {
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Variable{Name: "param"}, Op: "+", Rhs: Constant{N: 1}},
		},
		Terminator: &Return{Value: Variable{Name: "t0"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	changed := foldConstants(fn)

	assert.False(t, changed)
	assert.IsType(t, &BinOp{}, blk.Primitives[0])
}

func TestConstantFoldingSkipsDivisionByZero(t *testing.T) {
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Constant{N: 4}, Op: "/", Rhs: Constant{N: 0}},
		},
		Terminator: &Return{Value: Variable{Name: "t0"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	foldConstants(fn)

	assert.IsType(t, &BinOp{}, blk.Primitives[0], "division by a constant zero is left unfolded")
}

func TestFoldBinOpTable(t *testing.T) {
	cases := []struct {
		op       string
		lhs, rhs int64
		want     int64
	}{
		{"+", 2, 3, 5},
		{"-", 5, 3, 2},
		{"*", 4, 3, 12},
		{"/", 9, 3, 3},
		{"|", 0b0110, 0b0011, 0b0111},
		{"&", 0b0110, 0b0011, 0b0010},
		{"^", 0b0110, 0b0011, 0b0101},
		{"==", 3, 3, 1},
		{"==", 3, 4, 0},
		{"<", 2, 3, 1},
		{">", 2, 3, 0},
	}
	for _, c := range cases {
		got, ok := foldBinOp(c.op, c.lhs, c.rhs)
		require.True(t, ok, "op %s should fold", c.op)
		assert.Equal(t, c.want, got, "op %s", c.op)
	}

	_, ok := foldBinOp("/", 1, 0)
	assert.False(t, ok)
}
