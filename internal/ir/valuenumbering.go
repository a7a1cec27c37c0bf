package ir

import "fmt"

// ValueNumber runs local (per-block) value numbering over fn, rewriting
// redundant BinOps into Assign copies of a dominating name within the same
// block. Blocks are independent: no state crosses a block boundary.
func ValueNumber(fn *Function) {
	for _, blk := range fn.Blocks {
		valueNumberBlock(blk)
	}
}

type vnState struct {
	counter       int
	valueOfVar    map[string]int
	valueOfConst  map[int64]int
	valueOfGlobal map[string]int
	canonical     map[int]string
	exprToVN      map[string]int
}

func newVNState() *vnState {
	return &vnState{
		valueOfVar:    map[string]int{},
		valueOfConst:  map[int64]int{},
		valueOfGlobal: map[string]int{},
		canonical:     map[int]string{},
		exprToVN:      map[string]int{},
	}
}

func (s *vnState) fresh() int {
	vn := s.counter
	s.counter++
	return vn
}

// numberOf returns the value number of an operand value, allocating one on
// first use. Constants and Globals are numbered by their literal identity;
// Variables by whatever VN their dest was last bound to.
func (s *vnState) numberOf(v Value) int {
	switch vv := v.(type) {
	case Constant:
		if vn, ok := s.valueOfConst[vv.N]; ok {
			return vn
		}
		vn := s.fresh()
		s.valueOfConst[vv.N] = vn
		return vn
	case Global:
		if vn, ok := s.valueOfGlobal[vv.Name]; ok {
			return vn
		}
		vn := s.fresh()
		s.valueOfGlobal[vv.Name] = vn
		return vn
	case Variable:
		if vn, ok := s.valueOfVar[vv.Name]; ok {
			return vn
		}
		vn := s.fresh()
		s.valueOfVar[vv.Name] = vn
		return vn
	default:
		return s.fresh()
	}
}

// bind records that dest now holds value number vn. If no canonical name has
// materialized vn yet, dest becomes the canonical one.
func (s *vnState) bind(dest string, vn int) {
	s.valueOfVar[dest] = vn
	if _, ok := s.canonical[vn]; !ok {
		s.canonical[vn] = dest
	}
}

func valueNumberBlock(blk *BasicBlock) {
	s := newVNState()

	for i, p := range blk.Primitives {
		switch prim := p.(type) {
		case *BinOp:
			lvn := s.numberOf(prim.Lhs)
			rvn := s.numberOf(prim.Rhs)
			key := fmt.Sprintf("%s:%d:%d", prim.Op, lvn, rvn)

			if vn, ok := s.exprToVN[key]; ok {
				blk.Primitives[i] = &Assign{
					DestName: prim.DestName,
					Value:    Variable{Name: s.canonical[vn]},
				}
				s.bind(prim.DestName, vn)
			} else {
				vn := s.fresh()
				s.exprToVN[key] = vn
				s.bind(prim.DestName, vn)
			}
		case *Assign:
			vn := s.numberOf(prim.Value)
			s.bind(prim.DestName, vn)
		case *Call:
			s.valueOfVar[prim.DestName] = s.fresh()
		case *Alloc:
			s.valueOfVar[prim.DestName] = s.fresh()
		case *GetElt:
			s.valueOfVar[prim.DestName] = s.fresh()
		case *Load:
			s.valueOfVar[prim.DestName] = s.fresh()
		case *Phi:
			s.valueOfVar[prim.DestName] = s.fresh()
		}
	}
}
