package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNumberRedundantBinOpBecomesCopy(t *testing.T) {
	// t0 = (y + z)
	// t1 = (y + z)   <- redundant, should become t1 = %t0
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}},
			&BinOp{DestName: "t1", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}},
		},
		Terminator: &Return{Value: Variable{Name: "t1"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	ValueNumber(fn)

	require.IsType(t, &BinOp{}, blk.Primitives[0])
	assign, ok := blk.Primitives[1].(*Assign)
	require.True(t, ok, "second BinOp must be rewritten to a copy")
	assert.Equal(t, "t1", assign.DestName)
	assert.Equal(t, Variable{Name: "t0"}, assign.Value)
}

func TestValueNumberDistinctOperandsNotCollapsed(t *testing.T) {
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}},
			&BinOp{DestName: "t1", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "w"}},
		},
		Terminator: &Return{Value: Variable{Name: "t1"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	ValueNumber(fn)

	assert.IsType(t, &BinOp{}, blk.Primitives[0])
	assert.IsType(t, &BinOp{}, blk.Primitives[1], "different rhs must not be folded into a copy")
}

func TestValueNumberRedefinitionInvalidatesExpression(t *testing.T) {
	// t0 = (y + z); y = 5; t1 = (y + z) -- y was reassigned, t1 is not redundant
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}},
			&Assign{DestName: "y", Value: Constant{N: 5}},
			&BinOp{DestName: "t1", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}},
		},
		Terminator: &Return{Value: Variable{Name: "t1"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	ValueNumber(fn)

	assert.IsType(t, &BinOp{}, blk.Primitives[2], "y's value number changed, so the second expression is not redundant")
}

func TestValueNumberOpaquePrimitivesGetFreshNumbers(t *testing.T) {
	blk := &BasicBlock{
		Label: "entry",
		Primitives: []Primitive{
			&Call{DestName: "c0", Func: Variable{Name: "f"}, Receiver: Variable{Name: "this"}},
			&Call{DestName: "c1", Func: Variable{Name: "f"}, Receiver: Variable{Name: "this"}},
			&BinOp{DestName: "t0", Lhs: Variable{Name: "c0"}, Op: "+", Rhs: Variable{Name: "c1"}},
		},
		Terminator: &Return{Value: Variable{Name: "t0"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{blk}}

	ValueNumber(fn)

	// Two calls to the same function are not assumed equal: no collapsing.
	assert.IsType(t, &Call{}, blk.Primitives[0])
	assert.IsType(t, &Call{}, blk.Primitives[1])
	assert.IsType(t, &BinOp{}, blk.Primitives[2])
}

func TestValueNumberDoesNotCrossBlockBoundary(t *testing.T) {
	b1 := &BasicBlock{
		Label:      "b1",
		Primitives: []Primitive{&BinOp{DestName: "t0", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}}},
		Terminator: &Jump{Target: "b2"},
	}
	b2 := &BasicBlock{
		Label:      "b2",
		Primitives: []Primitive{&BinOp{DestName: "t1", Lhs: Variable{Name: "y"}, Op: "+", Rhs: Variable{Name: "z"}}},
		Terminator: &Return{Value: Variable{Name: "t1"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{b1, b2}}

	ValueNumber(fn)

	assert.IsType(t, &BinOp{}, b1.Primitives[0])
	assert.IsType(t, &BinOp{}, b2.Primitives[0], "VN state is local to each block")
}
