package codegen

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/backend"
	"github.com/pontaoski/tinyc/errors"
	"github.com/pontaoski/tinyc/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinyc", "codegen")

type Options struct {
	// Module names the program in the embedded type information.
	Module string
	// Passes run in order on every function after verification. Nil selects
	// backend.DefaultPasses; an empty slice runs nothing.
	Passes       []string
	SkipVerify   bool
	SkipTypeInfo bool
}

// Compiler lowers function definitions into a single module. It is not safe
// for concurrent use.
type Compiler struct {
	opts     Options
	module   *ir.Module
	pipeline backend.Pipeline
	verify   func(*backend.Func) error
	defined  map[string]bool
}

func New(opts Options) (*Compiler, error) {
	names := opts.Passes
	if names == nil {
		names = backend.DefaultPasses
	}
	pipeline, err := backend.NewPipeline(names)
	if err != nil {
		return nil, err
	}

	return &Compiler{
		opts:     opts,
		module:   ir.NewModule(),
		pipeline: pipeline,
		verify:   backend.Verify,
		defined:  make(map[string]bool),
	}, nil
}

func (c *Compiler) Module() *ir.Module {
	return c.module
}

// function is the lowering context of the definition being compiled: the
// insertion point, the variables, and the prototype.
type function struct {
	*backend.Func
	c     *Compiler
	proto ast.FunctionProto
	vars  scope
}

func (fn *function) fail(kind errors.Kind, msg string, fmts ...interface{}) {
	panic(errors.New(kind, msg, fmts...))
}

func kindOf(v value.Value) types.Kind {
	if v == nil {
		return types.Invalid
	}
	return types.FromLLVM(v.Type())
}

func describe(k types.Kind) string {
	if k == types.Invalid {
		return "no value"
	}
	return k.String()
}
