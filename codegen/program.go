package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/errors"
)

// CompileProgram declares every extern and every definition up front, so
// bodies may call functions defined later, then compiles the definitions in
// source order. A failing definition does not stop the others; all failures
// are returned together as an errors.List.
func (c *Compiler) CompileProgram(prog *ast.Program) (*ir.Module, error) {
	var errs errors.List
	collect := func(err error) {
		if err == nil {
			return
		}
		cerr, ok := err.(*errors.CompileError)
		if !ok {
			cerr = &errors.CompileError{Kind: errors.VerificationFailure, Cause: err}
		}
		errs = append(errs, cerr)
	}

	for _, proto := range prog.Externs {
		_, err := c.Declare(proto)
		collect(err)
	}

	// errors here resurface when the definition itself is compiled
	for _, def := range prog.Functions {
		c.Declare(def.Proto)
	}

	for i := range prog.Functions {
		_, err := c.CompileFunction(&prog.Functions[i])
		collect(err)
	}

	if len(errs) > 0 {
		plog.Errorf("%d of %d functions failed", len(errs), len(prog.Functions))
		return c.module, errs
	}

	if !c.opts.SkipTypeInfo {
		c.registerTypeInfo(prog)
	}
	plog.Infof("compiled %d functions", len(prog.Functions))
	return c.module, nil
}
