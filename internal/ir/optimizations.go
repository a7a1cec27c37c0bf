package ir

// OptimizationPass is a single whole-program IR transformation.
type OptimizationPass interface {
	Name() string
	Description() string
	Apply(program *Program) bool // returns true if it changed anything
}

// OptimizationPipeline runs a sequence of passes, each once, in order. A pass
// that needs a fixpoint (ConstantFolding) iterates internally.
type OptimizationPipeline struct {
	passes []OptimizationPass
}

// NewOptimizationPipeline builds the pipeline with the passes this middle end
// supports.
func NewOptimizationPipeline() *OptimizationPipeline {
	p := &OptimizationPipeline{}
	p.AddPass(&ConstantFolding{})
	return p
}

// AddPass appends pass to the pipeline.
func (p *OptimizationPipeline) AddPass(pass OptimizationPass) {
	p.passes = append(p.passes, pass)
}

// Run applies every pass once, in order, over program.
func (p *OptimizationPipeline) Run(program *Program) {
	for _, pass := range p.passes {
		pass.Apply(program)
	}
}

// ConstantFolding evaluates BinOps whose operands are statically known and
// rewrites them to Assign{Constant}, iterated per function to fixpoint.
type ConstantFolding struct{}

func (cf *ConstantFolding) Name() string { return "Constant Folding" }

func (cf *ConstantFolding) Description() string {
	return "evaluates BinOps with constant operands and replaces them with literals"
}

func (cf *ConstantFolding) Apply(program *Program) bool {
	changed := false
	for _, fn := range program.Functions {
		if foldConstants(fn) {
			changed = true
		}
	}
	return changed
}

// foldConstants runs one function to fixpoint. Each iteration rebuilds
// const_map from every Assign{dest, Constant} seen in program order (valid
// because SSA guarantees each dest is assigned at most once), then rewrites
// any BinOp both of whose operands resolve to a known integer.
func foldConstants(fn *Function) bool {
	changed := false
	for {
		constMap := map[string]int64{}
		for _, blk := range fn.Blocks {
			for _, p := range blk.Primitives {
				if a, ok := p.(*Assign); ok {
					if c, ok := a.Value.(Constant); ok {
						constMap[a.DestName] = c.N
					}
				}
			}
		}

		iterChanged := false
		for _, blk := range fn.Blocks {
			for i, p := range blk.Primitives {
				bo, ok := p.(*BinOp)
				if !ok {
					continue
				}
				lhs, lok := resolveConst(bo.Lhs, constMap)
				rhs, rok := resolveConst(bo.Rhs, constMap)
				if !lok || !rok {
					continue
				}
				result, ok := foldBinOp(bo.Op, lhs, rhs)
				if !ok {
					continue
				}
				blk.Primitives[i] = &Assign{DestName: bo.DestName, Value: Constant{N: result}}
				iterChanged = true
			}
		}

		if !iterChanged {
			return changed
		}
		changed = true
	}
}

func resolveConst(v Value, constMap map[string]int64) (int64, bool) {
	switch vv := v.(type) {
	case Constant:
		return vv.N, true
	case Variable:
		n, ok := constMap[vv.Name]
		return n, ok
	default:
		return 0, false
	}
}

// foldBinOp evaluates op over lhs/rhs per the fold table. Division by zero
// and unrecognized operators report ok=false, leaving the primitive
// unfolded.
func foldBinOp(op string, lhs, rhs int64) (int64, bool) {
	switch op {
	case "+":
		return lhs + rhs, true
	case "-":
		return lhs - rhs, true
	case "*":
		return lhs * rhs, true
	case "/":
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case "|":
		return lhs | rhs, true
	case "&":
		return lhs & rhs, true
	case "^":
		return lhs ^ rhs, true
	case "==":
		return boolToInt(lhs == rhs), true
	case "<":
		return boolToInt(lhs < rhs), true
	case ">":
		return boolToInt(lhs > rhs), true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
