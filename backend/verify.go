package backend

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// Verify checks the structural invariants of a finished function: every
// block is terminated, returns match the signature, operand types agree and
// phis cover exactly the predecessors of their block.
func Verify(f *Func) error {
	if len(f.Blocks) == 0 {
		return errors.Errorf("%s has no body", f.Ident())
	}

	if err := verifyLocals(f); err != nil {
		return err
	}

	owned := make(map[*ir.Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		owned[b] = true
	}

	for _, b := range f.Blocks {
		if b.Term == nil {
			return errors.Errorf("block %s has no terminator", b.Ident())
		}
		for _, s := range f.succs[b] {
			if !owned[s] {
				return errors.Errorf("block %s branches to %s outside the function", b.Ident(), s.Ident())
			}
		}
		for i, inst := range b.Insts {
			if phi, ok := inst.(*ir.InstPhi); ok {
				if i > 0 {
					if _, prev := b.Insts[i-1].(*ir.InstPhi); !prev {
						return errors.Errorf("block %s: phi after non-phi instruction", b.Ident())
					}
				}
				if err := verifyPhi(f, b, phi); err != nil {
					return err
				}
				continue
			}
			if err := verifyInst(inst); err != nil {
				return errors.Wrapf(err, "block %s", b.Ident())
			}
		}
		if ret, ok := b.Term.(*ir.TermRet); ok {
			if err := verifyRet(f, ret); err != nil {
				return errors.Wrapf(err, "block %s", b.Ident())
			}
		}
		if br, ok := b.Term.(*ir.TermCondBr); ok {
			if !br.Cond.Type().Equal(types.I1) {
				return errors.Errorf("block %s: branch condition has type %s", b.Ident(), br.Cond.Type())
			}
		}
	}

	return nil
}

func verifyRet(f *Func, ret *ir.TermRet) error {
	want := f.Sig.RetType
	if ret.X == nil {
		if !types.IsVoid(want) {
			return errors.Errorf("void return from function returning %s", want)
		}
		return nil
	}
	if !ret.X.Type().Equal(want) {
		return errors.Errorf("returning %s from function returning %s", ret.X.Type(), want)
	}
	return nil
}

func sameType(x, y value.Value) error {
	if !x.Type().Equal(y.Type()) {
		return errors.Errorf("operand types %s and %s differ", x.Type(), y.Type())
	}
	return nil
}

func verifyInst(inst ir.Instruction) error {
	switch i := inst.(type) {
	case *ir.InstAdd:
		return sameType(i.X, i.Y)
	case *ir.InstSub:
		return sameType(i.X, i.Y)
	case *ir.InstMul:
		return sameType(i.X, i.Y)
	case *ir.InstSDiv:
		return sameType(i.X, i.Y)
	case *ir.InstFAdd:
		return sameType(i.X, i.Y)
	case *ir.InstFSub:
		return sameType(i.X, i.Y)
	case *ir.InstFMul:
		return sameType(i.X, i.Y)
	case *ir.InstFDiv:
		return sameType(i.X, i.Y)
	case *ir.InstICmp:
		return sameType(i.X, i.Y)
	case *ir.InstFCmp:
		return sameType(i.X, i.Y)
	case *ir.InstStore:
		ptr, ok := i.Dst.Type().(*types.PointerType)
		if !ok || !ptr.ElemType.Equal(i.Src.Type()) {
			return errors.Errorf("storing %s through %s", i.Src.Type(), i.Dst.Type())
		}
	case *ir.InstCall:
		callee, ok := i.Callee.(*ir.Func)
		if !ok {
			return nil
		}
		params := callee.Sig.Params
		if len(params) != len(i.Args) {
			return errors.Errorf("call to %s with %d arguments, want %d", callee.Ident(), len(i.Args), len(params))
		}
		for k, arg := range i.Args {
			if !arg.Type().Equal(params[k]) {
				return errors.Errorf("argument %d of call to %s has type %s, want %s", k, callee.Ident(), arg.Type(), params[k])
			}
		}
	}
	return nil
}

func verifyPhi(f *Func, b *ir.Block, phi *ir.InstPhi) error {
	preds := f.Preds(b)
	if len(phi.Incs) != len(preds) {
		return errors.Errorf("block %s: phi has %d incoming values for %d predecessors", b.Ident(), len(phi.Incs), len(preds))
	}
	for _, inc := range phi.Incs {
		if !inc.X.Type().Equal(phi.Type()) {
			return errors.Errorf("block %s: phi of %s has incoming %s", b.Ident(), phi.Type(), inc.X.Type())
		}
		found := false
		for _, p := range preds {
			if inc.Pred == p {
				found = true
				break
			}
		}
		if !found {
			return errors.Errorf("block %s: phi incoming block is not a predecessor", b.Ident())
		}
	}
	return nil
}

type named interface {
	Name() string
	IsUnnamed() bool
}

// verifyLocals rejects two parameters, blocks or instructions sharing a
// name.
func verifyLocals(f *Func) error {
	seen := make(map[string]string)
	claim := func(name, what string) error {
		if prev, ok := seen[name]; ok {
			return errors.Errorf("local %%%s names both %s and %s", name, prev, what)
		}
		seen[name] = what
		return nil
	}

	for _, p := range f.Params {
		if p.LocalName == "" {
			continue
		}
		if err := claim(p.LocalName, "a parameter"); err != nil {
			return err
		}
	}
	for _, b := range f.Blocks {
		if b.LocalName != "" {
			if err := claim(b.LocalName, "a block"); err != nil {
				return err
			}
		}
		for _, inst := range b.Insts {
			n, ok := inst.(named)
			if !ok || n.IsUnnamed() {
				continue
			}
			if err := claim(n.Name(), "an instruction"); err != nil {
				return err
			}
		}
	}
	return nil
}
