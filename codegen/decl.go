package codegen

import (
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/errors"
	"github.com/pontaoski/tinyc/types"
)

func (fn *function) checkDeclarable(kind types.Kind, name string) {
	if _, ok := fn.vars.lookup(name); ok {
		fn.fail(errors.Redeclaration, "'%s' is already declared in this function", name)
	}
	if !kind.Storable() {
		fn.fail(errors.UnsupportedType, "cannot declare '%s' of type %s", name, kind)
	}
}

// declare allocates and binds storage for name. The slot is left
// uninitialized.
func (fn *function) declare(kind types.Kind, name string) variable {
	fn.checkDeclarable(kind, name)

	v := variable{
		slot: fn.Alloca(kind.LLVM(), name+".addr"),
		kind: kind,
	}
	fn.vars.bind(name, v)

	plog.Tracef("%s: declared %s %s", fn.proto.Name, kind, name)
	return v
}

func (fn *function) codegenDeclare(expr ast.Declare) {
	for _, name := range expr.Names {
		v := fn.declare(expr.Type, name)

		zero, ok := expr.Type.Zero()
		if !ok {
			fn.fail(errors.UnsupportedType, "%s has no zero value", expr.Type)
		}
		fn.Block().NewStore(zero, v.slot)
	}
}

func (fn *function) codegenDeclareAssign(expr ast.DeclareAssign) value.Value {
	val := fn.codegenExpr(expr.Value)

	fn.checkDeclarable(expr.Type, expr.Name)
	if k := kindOf(val); !types.Match(expr.Type, k) {
		fn.fail(errors.ImplicitConversionDisallowed, "cannot initialize '%s' of type %s with %s", expr.Name, expr.Type, describe(k))
	}

	v := fn.declare(expr.Type, expr.Name)
	fn.Block().NewStore(val, v.slot)
	return val
}
