package backend

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// operands returns pointers to the value operands of inst, so passes can
// both read and rewrite them. ok is false for instructions the passes do
// not understand.
func operands(inst ir.Instruction) (ops []*value.Value, ok bool) {
	switch i := inst.(type) {
	case *ir.InstAdd:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstSub:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstMul:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstSDiv:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstFAdd:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstFSub:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstFMul:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstFDiv:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstICmp:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstFCmp:
		return []*value.Value{&i.X, &i.Y}, true
	case *ir.InstUIToFP:
		return []*value.Value{&i.From}, true
	case *ir.InstLoad:
		return []*value.Value{&i.Src}, true
	case *ir.InstStore:
		return []*value.Value{&i.Src, &i.Dst}, true
	case *ir.InstCall:
		ops = append(ops, &i.Callee)
		for k := range i.Args {
			ops = append(ops, &i.Args[k])
		}
		return ops, true
	case *ir.InstPhi:
		for _, inc := range i.Incs {
			ops = append(ops, &inc.X)
		}
		return ops, true
	case *ir.InstAlloca:
		return nil, true
	}
	return nil, false
}

func termOperands(term ir.Terminator) (ops []*value.Value, ok bool) {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X != nil {
			ops = append(ops, &t.X)
		}
		return ops, true
	case *ir.TermBr:
		return nil, true
	case *ir.TermCondBr:
		return []*value.Value{&t.Cond}, true
	}
	return nil, false
}

// pure reports whether inst can be deleted when nothing uses its result.
func pure(inst ir.Instruction) bool {
	switch inst.(type) {
	case *ir.InstAdd, *ir.InstSub, *ir.InstMul, *ir.InstSDiv,
		*ir.InstFAdd, *ir.InstFSub, *ir.InstFMul, *ir.InstFDiv,
		*ir.InstICmp, *ir.InstFCmp, *ir.InstUIToFP,
		*ir.InstLoad, *ir.InstPhi:
		return true
	}
	return false
}

// forEachOperand visits every operand of f. It returns false without
// visiting anything if f holds an instruction operands does not know.
func forEachOperand(f *Func, visit func(op *value.Value)) bool {
	var all []*value.Value
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			ops, ok := operands(inst)
			if !ok {
				return false
			}
			all = append(all, ops...)
		}
		if b.Term != nil {
			ops, ok := termOperands(b.Term)
			if !ok {
				return false
			}
			all = append(all, ops...)
		}
	}
	for _, op := range all {
		visit(op)
	}
	return true
}

func replaceUses(f *Func, old, with value.Value) {
	forEachOperand(f, func(op *value.Value) {
		if *op == old {
			*op = with
		}
	})
}
