package ir

import (
	"sort"
	"strconv"
)

// ConstructSSA transforms fn into pruned SSA form over its (already built)
// CFG, in two phases: phi insertion by iterated dominance frontiers, then
// dominator-tree pre-order renaming with a stack per source variable.
func ConstructSSA(fn *Function, cfg *CFG) {
	b := &ssaBuilder{fn: fn, cfg: cfg, stacks: map[string][]string{}}
	b.insertPhis()
	b.rename()
}

type ssaBuilder struct {
	fn      *Function
	cfg     *CFG
	counter int
	stacks  map[string][]string
}

// insertPhis places a Phi at the head of every block in the iterated
// dominance frontier of the set of blocks that assign each original
// variable. Traversal order is fixed (sorted variable names, sorted block
// indices) purely for deterministic output; it does not affect the
// resulting set of phi placements.
func (b *ssaBuilder) insertPhis() {
	defSites := map[string]map[int]struct{}{}
	for idx, blk := range b.fn.Blocks {
		for _, p := range blk.Primitives {
			if a, ok := p.(*Assign); ok {
				if defSites[a.DestName] == nil {
					defSites[a.DestName] = map[int]struct{}{}
				}
				defSites[a.DestName][idx] = struct{}{}
			}
		}
	}

	varNames := make([]string, 0, len(defSites))
	for v := range defSites {
		varNames = append(varNames, v)
	}
	sort.Strings(varNames)

	df := b.cfg.DominanceFrontiers()
	phiVarsAtBlock := make([]map[string]struct{}, len(b.fn.Blocks))
	for i := range phiVarsAtBlock {
		phiVarsAtBlock[i] = map[string]struct{}{}
	}

	for _, varName := range varNames {
		defs := defSites[varName]
		hasPhi := map[int]struct{}{}

		worklist := make([]int, 0, len(defs))
		for idx := range defs {
			worklist = append(worklist, idx)
		}
		sort.Ints(worklist)

		for len(worklist) > 0 {
			cur := worklist[0]
			worklist = worklist[1:]

			frontier := make([]int, 0, len(df[cur]))
			for f := range df[cur] {
				frontier = append(frontier, f)
			}
			sort.Ints(frontier)

			for _, f := range frontier {
				if _, already := hasPhi[f]; already {
					continue
				}
				hasPhi[f] = struct{}{}
				phiVarsAtBlock[f][varName] = struct{}{}
				worklist = append(worklist, f)
			}
		}
	}

	for idx, vars := range phiVarsAtBlock {
		if len(vars) == 0 {
			continue
		}
		names := make([]string, 0, len(vars))
		for v := range vars {
			names = append(names, v)
		}
		sort.Strings(names)

		preds := b.cfg.PredecessorLabels(idx)
		phis := make([]Primitive, 0, len(names))
		for _, name := range names {
			args := make([]PhiArg, len(preds))
			for i, label := range preds {
				args[i] = PhiArg{Label: label, Value: Variable{Name: name}}
			}
			phis = append(phis, &Phi{DestName: name, OrigName: name, Args: args})
		}

		blk := b.fn.Blocks[idx]
		blk.Primitives = append(phis, blk.Primitives...)
	}
}

// rename performs the dominator-tree pre-order renaming of phase 2.
func (b *ssaBuilder) rename() {
	idom := b.cfg.ImmediateDominators()
	children := make([][]int, len(b.fn.Blocks))
	for idx := 0; idx < len(b.fn.Blocks); idx++ {
		if idx == b.cfg.Entry() {
			continue
		}
		p := idom[idx]
		if p < 0 {
			continue // no strict dominator, so no dominator tree parent
		}
		children[p] = append(children[p], idx)
	}
	for i := range children {
		sort.Ints(children[i])
	}

	b.renameBlock(b.cfg.Entry(), children)
}

func (b *ssaBuilder) fresh(orig string) string {
	name := strconv.Itoa(b.counter)
	b.counter++
	b.stacks[orig] = append(b.stacks[orig], name)
	return name
}

func (b *ssaBuilder) top(orig string) (string, bool) {
	stack := b.stacks[orig]
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1], true
}

// renameValue rewrites a Variable operand to its current SSA name. Constants
// and Globals are unaffected. A variable with no definition on the current
// path is left unchanged (the typechecker guarantees this never happens at
// runtime).
func (b *ssaBuilder) renameValue(v Value) Value {
	vv, ok := v.(Variable)
	if !ok {
		return v
	}
	if name, found := b.top(vv.Name); found {
		return Variable{Name: name}
	}
	return v
}

func (b *ssaBuilder) renameBlock(idx int, children [][]int) {
	blk := b.fn.Blocks[idx]
	pushedCount := map[string]int{}

	define := func(orig string) string {
		name := b.fresh(orig)
		pushedCount[orig]++
		return name
	}

	for _, p := range blk.Primitives {
		switch prim := p.(type) {
		case *Phi:
			prim.DestName = define(prim.DestName)
		case *Assign:
			prim.Value = b.renameValue(prim.Value)
			prim.DestName = define(prim.DestName)
		case *BinOp:
			prim.Lhs = b.renameValue(prim.Lhs)
			prim.Rhs = b.renameValue(prim.Rhs)
			prim.DestName = define(prim.DestName)
		case *Call:
			prim.Func = b.renameValue(prim.Func)
			prim.Receiver = b.renameValue(prim.Receiver)
			for i := range prim.Args {
				prim.Args[i] = b.renameValue(prim.Args[i])
			}
			prim.DestName = define(prim.DestName)
		case *Alloc:
			prim.DestName = define(prim.DestName)
		case *Print:
			prim.Value = b.renameValue(prim.Value)
		case *GetElt:
			prim.Arr = b.renameValue(prim.Arr)
			prim.DestName = define(prim.DestName)
		case *SetElt:
			prim.Arr = b.renameValue(prim.Arr)
			prim.Value = b.renameValue(prim.Value)
		case *Load:
			prim.Addr = b.renameValue(prim.Addr)
			prim.DestName = define(prim.DestName)
		case *Store:
			prim.Addr = b.renameValue(prim.Addr)
			prim.Value = b.renameValue(prim.Value)
		}
	}

	switch t := blk.Terminator.(type) {
	case *Branch:
		t.Cond = b.renameValue(t.Cond)
	case *Return:
		t.Value = b.renameValue(t.Value)
	}

	for _, succIdx := range b.cfg.Successors(idx) {
		succ := b.fn.Blocks[succIdx]
		for _, p := range succ.Primitives {
			phi, ok := p.(*Phi)
			if !ok {
				break // phis form a contiguous prefix
			}
			for i := range phi.Args {
				if phi.Args[i].Label != blk.Label {
					continue
				}
				if name, found := b.top(phi.OrigName); found {
					phi.Args[i].Value = Variable{Name: name}
				}
			}
		}
	}

	for _, c := range children[idx] {
		b.renameBlock(c, children)
	}

	for orig, count := range pushedCount {
		stack := b.stacks[orig]
		b.stacks[orig] = stack[:len(stack)-count]
	}
}
