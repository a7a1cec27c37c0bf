package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamondAssign builds entry -> (left, right) -> merge where x is assigned on
// both arms and read in merge, the textbook single-phi case.
func diamondAssign() *Function {
	entry := &BasicBlock{
		Label:      "entry",
		Primitives: []Primitive{&Assign{DestName: "x", Value: Constant{N: 0}}},
		Terminator: &Branch{Cond: Variable{Name: "x"}, Then: "left", Else: "right"},
	}
	left := &BasicBlock{
		Label:      "left",
		Primitives: []Primitive{&Assign{DestName: "x", Value: Constant{N: 1}}},
		Terminator: &Jump{Target: "merge"},
	}
	right := &BasicBlock{
		Label:      "right",
		Primitives: []Primitive{&Assign{DestName: "x", Value: Constant{N: 2}}},
		Terminator: &Jump{Target: "merge"},
	}
	merge := &BasicBlock{
		Label:      "merge",
		Primitives: []Primitive{&Print{Value: Variable{Name: "x"}}},
		Terminator: &Return{Value: Variable{Name: "x"}},
	}
	return &Function{Name: "f", Blocks: []*BasicBlock{entry, left, right, merge}}
}

func TestSSAInsertsSinglePhiAtMerge(t *testing.T) {
	fn := diamondAssign()
	cfg := NewCFG(fn)
	ConstructSSA(fn, cfg)

	merge := fn.BlockByLabel("merge")
	require.Len(t, merge.Primitives, 2, "one phi followed by the print")

	phi, ok := merge.Primitives[0].(*Phi)
	require.True(t, ok)
	assert.Equal(t, "x", phi.OrigName)
	require.Len(t, phi.Args, 2)

	seen := map[string]bool{}
	for _, a := range phi.Args {
		seen[a.Label] = true
	}
	assert.True(t, seen["left"])
	assert.True(t, seen["right"])
}

func TestSSAEveryDestNameUniqueAcrossFunction(t *testing.T) {
	fn := diamondAssign()
	cfg := NewCFG(fn)
	ConstructSSA(fn, cfg)

	seen := map[string]bool{}
	for _, blk := range fn.Blocks {
		for _, p := range blk.Primitives {
			name, ok := Dest(p)
			if !ok {
				continue
			}
			require.False(t, seen[name], "dest name %q must be assigned exactly once in SSA form", name)
			seen[name] = true
		}
	}
}

func TestSSAPhiIsAlwaysABlockPrefix(t *testing.T) {
	fn := diamondAssign()
	cfg := NewCFG(fn)
	ConstructSSA(fn, cfg)

	for _, blk := range fn.Blocks {
		seenNonPhi := false
		for _, p := range blk.Primitives {
			_, isPhi := p.(*Phi)
			if isPhi {
				require.False(t, seenNonPhi, "phi after a non-phi in block %s", blk.Label)
			} else {
				seenNonPhi = true
			}
		}
	}
}

func TestSSALoopPhiAtHeader(t *testing.T) {
	// entry: x = 0, jump cond
	// cond: if x then body else exit
	// body: t0 = (x + 1), x = t0, jump cond
	// exit: ret x
	entry := &BasicBlock{
		Label:      "entry",
		Primitives: []Primitive{&Assign{DestName: "x", Value: Constant{N: 0}}},
		Terminator: &Jump{Target: "cond"},
	}
	cond := &BasicBlock{
		Label:      "cond",
		Terminator: &Branch{Cond: Variable{Name: "x"}, Then: "body", Else: "exit"},
	}
	body := &BasicBlock{
		Label: "body",
		Primitives: []Primitive{
			&BinOp{DestName: "t0", Lhs: Variable{Name: "x"}, Op: "+", Rhs: Constant{N: 1}},
			&Assign{DestName: "x", Value: Variable{Name: "t0"}},
		},
		Terminator: &Jump{Target: "cond"},
	}
	exit := &BasicBlock{
		Label:      "exit",
		Terminator: &Return{Value: Variable{Name: "x"}},
	}
	fn := &Function{Name: "f", Blocks: []*BasicBlock{entry, cond, body, exit}}

	cfg := NewCFG(fn)
	ConstructSSA(fn, cfg)

	condBlk := fn.BlockByLabel("cond")
	require.Len(t, condBlk.Primitives, 1)
	phi, ok := condBlk.Primitives[0].(*Phi)
	require.True(t, ok)
	assert.Equal(t, "x", phi.OrigName)

	// The back-edge arg (from body) must have been renamed to body's new x,
	// not left pointing at the pre-SSA name.
	bodyAssign := body.Primitives[1].(*Assign)
	var backEdgeVal string
	for _, a := range phi.Args {
		if a.Label == "body" {
			backEdgeVal = a.Value.(Variable).Name
		}
	}
	assert.Equal(t, bodyAssign.DestName, backEdgeVal)
}
