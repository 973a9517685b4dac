package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/errors"
	"github.com/pontaoski/tinyc/types"
)

// truth lowers e and compares it against the zero value of its kind.
// Anything other than zero is true.
func (fn *function) truth(e ast.Expr, of string) value.Value {
	cond := fn.codegenExpr(e)
	b := fn.Block()
	switch kindOf(cond) {
	case types.Int32:
		return b.NewICmp(enum.IPredNE, cond, constant.NewInt(types.I32, 0))
	case types.Float64:
		return b.NewFCmp(enum.FPredONE, cond, constant.NewFloat(types.Double, 0))
	}
	fn.fail(errors.TypeMismatch, "%s condition (%s) yields %s", of, ast.Describe(e), describe(kindOf(cond)))
	return nil
}

// codegenIf yields a phi of both branch values when they share a kind, and
// no value otherwise.
func (fn *function) codegenIf(expr ast.If) value.Value {
	cond := fn.truth(expr.Cond, "if")
	from := fn.Block()

	thenBloc := fn.AddBlock("then")
	fn.SetInsertPoint(thenBloc)
	thenValue := fn.codegenExpr(expr.Then)
	thenEnd := fn.Block()

	elseBloc := fn.AddBlock("else")
	fn.SetInsertPoint(elseBloc)
	elseValue := fn.codegenExpr(expr.Else)
	elseEnd := fn.Block()

	mergeBloc := fn.AddBlock("ifcont")

	// the branches go in now that every block exists
	fn.CondBr(from, cond, thenBloc, elseBloc)
	fn.Br(thenEnd, mergeBloc)
	fn.Br(elseEnd, mergeBloc)
	fn.SetInsertPoint(mergeBloc)

	if thenValue == nil || elseValue == nil || !types.Match(kindOf(thenValue), kindOf(elseValue)) {
		return nil
	}
	return mergeBloc.NewPhi(ir.NewIncoming(thenValue, thenEnd), ir.NewIncoming(elseValue, elseEnd))
}

func (fn *function) codegenWhile(expr ast.While) {
	condBloc := fn.AddBlock("while.cond")
	fn.Br(fn.Block(), condBloc)

	fn.SetInsertPoint(condBloc)
	cond := fn.truth(expr.Cond, "while")
	condEnd := fn.Block()

	bodyBloc := fn.AddBlock("while.body")
	fn.SetInsertPoint(bodyBloc)
	fn.codegenExpr(expr.Body)
	bodyEnd := fn.Block()

	endBloc := fn.AddBlock("while.end")
	fn.CondBr(condEnd, cond, bodyBloc, endBloc)
	fn.Br(bodyEnd, condBloc)
	fn.SetInsertPoint(endBloc)
}

// codegenSwitch tests the valued cases one after another in source order.
// The default case, if any, runs when no test matches. A case without
// Break continues into the body of the case after it.
func (fn *function) codegenSwitch(expr ast.Switch) {
	def := -1
	var valued []int
	for i, c := range expr.Cases {
		if c.Value != nil {
			valued = append(valued, i)
			continue
		}
		if def >= 0 {
			fn.fail(errors.MultipleDefaultCases, "cases %d and %d are both default", def, i)
		}
		def = i
	}

	cond := fn.codegenExpr(expr.Cond)
	if k := kindOf(cond); k != types.Int32 {
		fn.fail(errors.TypeMismatch, "switch condition must be %s, not %s", types.Int32, describe(k))
	}

	tests := []*ir.Block{fn.Block()}
	for k := 1; k < len(valued); k++ {
		tests = append(tests, fn.AddBlock("switch.test"))
	}
	bodies := make([]*ir.Block, len(expr.Cases))
	for i := range expr.Cases {
		bodies[i] = fn.AddBlock("switch.case")
	}
	endBloc := fn.AddBlock("switch.end")

	miss := endBloc
	if def >= 0 {
		miss = bodies[def]
	}
	if len(valued) == 0 {
		fn.Br(tests[0], miss)
	}
	for k, i := range valued {
		test := tests[k]
		eq := test.NewICmp(enum.IPredEQ, cond, constant.NewInt(types.I32, int64(*expr.Cases[i].Value)))
		next := miss
		if k+1 < len(tests) {
			next = tests[k+1]
		}
		fn.CondBr(test, eq, bodies[i], next)
	}

	for i, c := range expr.Cases {
		fn.SetInsertPoint(bodies[i])
		fn.codegenExpr(c.Body)

		next := endBloc
		if !c.Break && i+1 < len(bodies) {
			next = bodies[i+1]
		}
		fn.Br(fn.Block(), next)
	}

	fn.MoveToEnd(endBloc)
	fn.SetInsertPoint(endBloc)
}
