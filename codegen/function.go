package codegen

import (
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/backend"
	"github.com/pontaoski/tinyc/errors"
	"github.com/pontaoski/tinyc/types"
)

func checkProto(proto ast.FunctionProto) *errors.CompileError {
	if !proto.Returns.Supported() {
		return errors.New(errors.UnsupportedType, "'%s' cannot return %s", proto.Name, proto.Returns)
	}
	seen := make(map[string]bool)
	for _, p := range proto.Params {
		if !p.Type.Storable() {
			return errors.New(errors.UnsupportedType, "parameter '%s' of '%s' has type %s", p.Name, proto.Name, p.Type)
		}
		if seen[p.Name] {
			return errors.New(errors.Redeclaration, "'%s' has two parameters named '%s'", proto.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func signature(proto ast.FunctionProto) *lltypes.FuncType {
	var params []lltypes.Type
	for _, p := range proto.Params {
		params = append(params, p.Type.LLVM())
	}
	return lltypes.NewFunc(proto.Returns.LLVM(), params...)
}

// Declare adds a body-less function for proto to the module. Declaring the
// same signature twice is harmless.
func (c *Compiler) Declare(proto ast.FunctionProto) (*ir.Func, error) {
	if err := checkProto(proto); err != nil {
		err.Function = proto.Name
		return nil, err
	}
	if f := backend.LookupFunc(c.module, proto.Name); f != nil {
		if !f.Sig.Equal(signature(proto)) {
			return nil, &errors.CompileError{
				Kind:     errors.FunctionRedefinition,
				Function: proto.Name,
				Msg:      "conflicts with an earlier declaration",
			}
		}
		return f, nil
	}

	var params []*ir.Param
	for _, p := range proto.Params {
		params = append(params, ir.NewParam(p.Name, p.Type.LLVM()))
	}
	return c.module.NewFunc(proto.Name, proto.Returns.LLVM(), params...), nil
}

// CompileFunction emits the body of def into the module. On failure the
// body is dropped: a function first created here is removed from the
// module, an earlier declaration stays a declaration.
func (c *Compiler) CompileFunction(def *ast.FunctionDef) (f *ir.Func, err error) {
	proto := def.Proto
	var (
		fn      *function
		created bool
	)

	defer func() {
		if r := recover(); r != nil {
			cerr, ok := r.(*errors.CompileError)
			if !ok {
				panic(r)
			}
			cerr.Function = proto.Name
			if fn != nil {
				fn.Discard()
				if created {
					backend.RemoveFunc(c.module, fn.Func.Func)
				}
				plog.Warningf("discarded %s: %v", proto.Name, cerr)
			}
			f, err = nil, cerr
		}
	}()

	plog.Debugf("compiling %s", proto)

	if cerr := checkProto(proto); cerr != nil {
		panic(cerr)
	}

	llf := backend.LookupFunc(c.module, proto.Name)
	switch {
	case c.defined[proto.Name] || (llf != nil && len(llf.Blocks) > 0):
		panic(errors.New(errors.FunctionRedefinition, "'%s' is already defined", proto.Name))
	case llf != nil && !llf.Sig.Equal(signature(proto)):
		panic(errors.New(errors.FunctionRedefinition, "definition of '%s' does not match its declaration", proto.Name))
	case llf == nil:
		llf, _ = c.Declare(proto)
		created = true
	}

	for i, param := range proto.Params {
		llf.Params[i].SetName(param.Name)
	}
	fn = &function{
		Func:  backend.Begin(llf),
		c:     c,
		proto: proto,
		vars:  make(scope),
	}

	for i, param := range proto.Params {
		v := fn.declare(param.Type, param.Name)
		fn.Block().NewStore(llf.Params[i], v.slot)
	}

	retValue := fn.codegenExpr(def.Body)

	if proto.Returns == types.Void {
		fn.Ret(nil)
	} else {
		if k := kindOf(retValue); !types.Match(proto.Returns, k) {
			fn.fail(errors.TypeMismatch, "'%s' returns %s but its body yields %s", proto.Name, proto.Returns, describe(k))
		}
		fn.Ret(retValue)
	}

	if !c.opts.SkipVerify {
		if verr := c.verify(fn.Func); verr != nil {
			panic(&errors.CompileError{Kind: errors.VerificationFailure, Cause: verr})
		}
	}
	c.pipeline.Run(fn.Func)
	c.defined[proto.Name] = true

	plog.Infof("compiled %s (%d blocks)", proto.Name, len(llf.Blocks))
	return llf, nil
}
