package backend

import (
	"math"
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// Pass is a function-local optimization. Run reports whether it changed f.
type Pass struct {
	Name string
	Run  func(f *Func) bool
}

var registry = map[string]Pass{
	"constfold":   {Name: "constfold", Run: foldConstants},
	"dce":         {Name: "dce", Run: eliminateDeadCode},
	"simplifycfg": {Name: "simplifycfg", Run: removeUnreachable},
}

// DefaultPasses is the pipeline used when the configuration names none.
var DefaultPasses = []string{"constfold", "dce", "simplifycfg"}

// PassNames lists every registered pass.
func PassNames() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pipeline is an ordered list of passes run once each.
type Pipeline []Pass

func NewPipeline(names []string) (Pipeline, error) {
	var p Pipeline
	for _, name := range names {
		pass, ok := registry[name]
		if !ok {
			return nil, errors.Errorf("unknown pass %q (known: %v)", name, PassNames())
		}
		p = append(p, pass)
	}
	return p, nil
}

func (p Pipeline) Run(f *Func) {
	for _, pass := range p {
		if pass.Run(f) {
			plog.Debugf("%s changed %s", pass.Name, f.Ident())
		}
	}
}

func foldConstants(f *Func) bool {
	changed := false
	for {
		progress := false
		for _, b := range f.Blocks {
			for i := 0; i < len(b.Insts); i++ {
				c, ok := fold(b.Insts[i])
				if !ok {
					continue
				}
				old := b.Insts[i].(value.Value)
				b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
				i--
				replaceUses(f, old, c)
				progress = true
			}
		}
		if !progress {
			return changed
		}
		changed = true
	}
}

func intConst(v value.Value) (int64, *types.IntType, bool) {
	c, ok := v.(*constant.Int)
	if !ok || c.X == nil {
		return 0, nil, false
	}
	return c.X.Int64(), c.Typ, true
}

func floatConst(v value.Value) (float64, *types.FloatType, bool) {
	c, ok := v.(*constant.Float)
	if !ok || c.X == nil {
		return 0, nil, false
	}
	x, _ := c.X.Float64()
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, nil, false
	}
	return x, c.Typ, true
}

func foldInt(x, y value.Value, op func(a, b int64) (int64, bool)) (constant.Constant, bool) {
	a, typ, ok := intConst(x)
	if !ok {
		return nil, false
	}
	b, _, ok := intConst(y)
	if !ok {
		return nil, false
	}
	r, ok := op(a, b)
	if !ok {
		return nil, false
	}
	if typ.BitSize == 32 {
		r = int64(int32(r))
	}
	return constant.NewInt(typ, r), true
}

func foldFloat(x, y value.Value, op func(a, b float64) float64) (constant.Constant, bool) {
	a, typ, ok := floatConst(x)
	if !ok {
		return nil, false
	}
	b, _, ok := floatConst(y)
	if !ok {
		return nil, false
	}
	r := op(a, b)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, false
	}
	return constant.NewFloat(typ, r), true
}

func fold(inst ir.Instruction) (constant.Constant, bool) {
	switch i := inst.(type) {
	case *ir.InstAdd:
		return foldInt(i.X, i.Y, func(a, b int64) (int64, bool) { return a + b, true })
	case *ir.InstSub:
		return foldInt(i.X, i.Y, func(a, b int64) (int64, bool) { return a - b, true })
	case *ir.InstMul:
		return foldInt(i.X, i.Y, func(a, b int64) (int64, bool) { return a * b, true })
	case *ir.InstSDiv:
		return foldInt(i.X, i.Y, func(a, b int64) (int64, bool) {
			if b == 0 || (a == math.MinInt32 && b == -1) {
				return 0, false
			}
			return a / b, true
		})
	case *ir.InstFAdd:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a + b })
	case *ir.InstFSub:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a - b })
	case *ir.InstFMul:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a * b })
	case *ir.InstFDiv:
		return foldFloat(i.X, i.Y, func(a, b float64) float64 { return a / b })
	case *ir.InstICmp:
		a, _, ok := intConst(i.X)
		if !ok {
			return nil, false
		}
		b, _, ok := intConst(i.Y)
		if !ok {
			return nil, false
		}
		r, ok := evalIPred(i.Pred, a, b)
		if !ok {
			return nil, false
		}
		return constant.NewBool(r), true
	case *ir.InstFCmp:
		a, _, ok := floatConst(i.X)
		if !ok {
			return nil, false
		}
		b, _, ok := floatConst(i.Y)
		if !ok {
			return nil, false
		}
		r, ok := evalFPred(i.Pred, a, b)
		if !ok {
			return nil, false
		}
		return constant.NewBool(r), true
	case *ir.InstUIToFP:
		c, ok := i.From.(*constant.Int)
		to, isFloat := i.To.(*types.FloatType)
		if !ok || !isFloat || c.X == nil || !c.Typ.Equal(types.I1) {
			return nil, false
		}
		if c.X.Sign() != 0 {
			return constant.NewFloat(to, 1), true
		}
		return constant.NewFloat(to, 0), true
	}
	return nil, false
}

func evalIPred(pred enum.IPred, a, b int64) (bool, bool) {
	switch pred {
	case enum.IPredEQ:
		return a == b, true
	case enum.IPredNE:
		return a != b, true
	case enum.IPredSLT:
		return a < b, true
	case enum.IPredSGT:
		return a > b, true
	case enum.IPredSLE:
		return a <= b, true
	case enum.IPredSGE:
		return a >= b, true
	}
	return false, false
}

// evalFPred folds only finite operands, so ordered and unordered
// predicates agree.
func evalFPred(pred enum.FPred, a, b float64) (bool, bool) {
	switch pred {
	case enum.FPredOEQ, enum.FPredUEQ:
		return a == b, true
	case enum.FPredONE, enum.FPredUNE:
		return a != b, true
	case enum.FPredOLT, enum.FPredULT:
		return a < b, true
	case enum.FPredOGT, enum.FPredUGT:
		return a > b, true
	case enum.FPredOLE, enum.FPredULE:
		return a <= b, true
	case enum.FPredOGE, enum.FPredUGE:
		return a >= b, true
	}
	return false, false
}

func eliminateDeadCode(f *Func) bool {
	changed := false
	for {
		uses := make(map[value.Value]int)
		known := forEachOperand(f, func(op *value.Value) {
			if _, isConst := (*op).(constant.Constant); !isConst {
				uses[*op]++
			}
		})
		if !known {
			return changed
		}

		progress := false
		for _, b := range f.Blocks {
			kept := b.Insts[:0]
			for _, inst := range b.Insts {
				if v, ok := inst.(value.Value); ok && pure(inst) && uses[v] == 0 {
					progress = true
					continue
				}
				kept = append(kept, inst)
			}
			b.Insts = kept
		}
		if !progress {
			return changed
		}
		changed = true
	}
}

func removeUnreachable(f *Func) bool {
	if f.Entry == nil {
		return false
	}
	reached := map[*ir.Block]bool{f.Entry: true}
	work := []*ir.Block{f.Entry}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, s := range f.succs[b] {
			if !reached[s] {
				reached[s] = true
				work = append(work, s)
			}
		}
	}
	if len(reached) == len(f.Blocks) {
		return false
	}

	var kept, dropped []*ir.Block
	for _, b := range f.Blocks {
		if reached[b] {
			kept = append(kept, b)
		} else {
			dropped = append(dropped, b)
			delete(f.succs, b)
		}
	}
	f.Blocks = kept

	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			phi, ok := inst.(*ir.InstPhi)
			if !ok {
				continue
			}
			var incs []*ir.Incoming
		incoming:
			for _, inc := range phi.Incs {
				for _, d := range dropped {
					if inc.Pred == d {
						continue incoming
					}
				}
				incs = append(incs, inc)
			}
			phi.Incs = incs
		}
	}
	return true
}
