package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/backend"
	"github.com/pontaoski/tinyc/errors"
	"github.com/pontaoski/tinyc/types"
)

// codegenExpr lowers e at the current insertion point. It returns nil when e
// yields no value.
func (fn *function) codegenExpr(e ast.Expr) value.Value {
	switch expr := e.(type) {
	case nil:
		return nil
	case ast.IntLit:
		return constant.NewInt(types.I32, int64(expr))
	case ast.FloatLit:
		return constant.NewFloat(types.Double, float64(expr))
	case ast.Var:
		v, ok := fn.vars.lookup(expr.Name)
		if !ok {
			fn.fail(errors.UndeclaredVariable, "'%s' is not declared", expr.Name)
		}
		return fn.Block().NewLoad(v.kind.LLVM(), v.slot)
	case ast.BinaryOp:
		return fn.codegenBinary(expr)
	case ast.Assign:
		return fn.codegenAssign(expr)
	case ast.Call:
		return fn.codegenCall(expr)
	case ast.Declare:
		fn.codegenDeclare(expr)
		return nil
	case ast.DeclareAssign:
		return fn.codegenDeclareAssign(expr)
	case ast.Block:
		var last value.Value
		for _, statement := range expr {
			last = fn.codegenExpr(statement)
		}
		return last
	case ast.If:
		return fn.codegenIf(expr)
	case ast.While:
		fn.codegenWhile(expr)
		return nil
	case ast.Switch:
		fn.codegenSwitch(expr)
		return nil
	default:
		panic(fmt.Sprintf("unhandled expression %T", e))
	}
}

var (
	intPreds = map[ast.Op]enum.IPred{
		ast.Lt: enum.IPredSLT,
		ast.Gt: enum.IPredSGT,
		ast.Eq: enum.IPredEQ,
		ast.Ne: enum.IPredNE,
		ast.Le: enum.IPredSLE,
		ast.Ge: enum.IPredSGE,
	}
	floatPreds = map[ast.Op]enum.FPred{
		ast.Lt: enum.FPredULT,
		ast.Gt: enum.FPredUGT,
		ast.Eq: enum.FPredUEQ,
		ast.Ne: enum.FPredUNE,
		ast.Le: enum.FPredULE,
		ast.Ge: enum.FPredUGE,
	}
)

func (fn *function) codegenBinary(expr ast.BinaryOp) value.Value {
	l := fn.codegenExpr(expr.LHS)
	r := fn.codegenExpr(expr.RHS)

	lk, rk := kindOf(l), kindOf(r)
	if !lk.Storable() || !types.Match(lk, rk) {
		fn.fail(errors.TypeMismatch, "operands of '%s' have types %s and %s", expr.Op, describe(lk), describe(rk))
	}

	b := fn.Block()
	if lk == types.Float64 {
		switch expr.Op {
		case ast.Add:
			return b.NewFAdd(l, r)
		case ast.Sub:
			return b.NewFSub(l, r)
		case ast.Mul:
			return b.NewFMul(l, r)
		case ast.Div:
			return b.NewFDiv(l, r)
		}
		pred, ok := floatPreds[expr.Op]
		if !ok {
			panic(fmt.Sprintf("unhandled operator %s", expr.Op))
		}
		// truth values are doubles, 0.0 or 1.0
		return b.NewUIToFP(b.NewFCmp(pred, l, r), types.Double)
	}

	switch expr.Op {
	case ast.Add:
		return b.NewAdd(l, r)
	case ast.Sub:
		return b.NewSub(l, r)
	case ast.Mul:
		return b.NewMul(l, r)
	case ast.Div:
		return b.NewSDiv(l, r)
	}
	pred, ok := intPreds[expr.Op]
	if !ok {
		panic(fmt.Sprintf("unhandled operator %s", expr.Op))
	}
	return b.NewUIToFP(b.NewICmp(pred, l, r), types.Double)
}

func (fn *function) codegenAssign(expr ast.Assign) value.Value {
	val := fn.codegenExpr(expr.Value)

	to, ok := fn.vars.lookup(expr.Name)
	if !ok {
		fn.fail(errors.UndeclaredVariable, "cannot assign to '%s': not declared", expr.Name)
	}
	if k := kindOf(val); !types.Match(to.kind, k) {
		fn.fail(errors.ImplicitConversionDisallowed, "tried to assign %s to '%s' of type %s", describe(k), expr.Name, to.kind)
	}

	fn.Block().NewStore(val, to.slot)
	return val
}

func (fn *function) codegenCall(expr ast.Call) value.Value {
	callee := backend.LookupFunc(fn.c.module, expr.Callee)
	if callee == nil {
		fn.fail(errors.UndeclaredFunction, "'%s' is not declared", expr.Callee)
	}

	params := callee.Sig.Params
	if len(params) != len(expr.Args) {
		fn.fail(errors.ArityMismatch, "'%s' takes %d arguments, got %d", expr.Callee, len(params), len(expr.Args))
	}

	var args []value.Value
	for idx, arg := range expr.Args {
		val := fn.codegenExpr(arg)
		if want := types.FromLLVM(params[idx]); !types.Match(want, kindOf(val)) {
			fn.fail(errors.TypeMismatch, "argument %d of '%s' is %s, not %s", idx, expr.Callee, describe(kindOf(val)), want)
		}
		args = append(args, val)
	}

	call := fn.Block().NewCall(callee, args...)
	if lltypes.IsVoid(callee.Sig.RetType) {
		return nil
	}
	return call
}
