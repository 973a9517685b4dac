package codegen

import (
	"encoding/json"

	"github.com/llir/llvm/ir/constant"
	"github.com/pontaoski/tinyc/ast"
)

// TypeInfoSymbol is the global holding the JSON encoded TypeInfo of a
// compiled program.
const TypeInfoSymbol = "__tinyc_types"

type TypeInfo struct {
	Module    string            `json:"module"`
	Functions map[string]string `json:"functions"`
}

func NewTypeInfo(module string, prog *ast.Program) TypeInfo {
	t := TypeInfo{
		Module:    module,
		Functions: make(map[string]string),
	}
	for _, def := range prog.Functions {
		t.Functions[def.Proto.Name] = def.Proto.String()
	}
	return t
}

func (c *Compiler) registerTypeInfo(prog *ast.Program) {
	data, err := json.Marshal(NewTypeInfo(c.opts.Module, prog))
	if err != nil {
		panic(err)
	}
	arr := constant.NewCharArray(append(data, 0))

	for i, g := range c.module.Globals {
		if g.Name() == TypeInfoSymbol {
			c.module.Globals = append(c.module.Globals[:i], c.module.Globals[i+1:]...)
			break
		}
	}

	g := c.module.NewGlobalDef(TypeInfoSymbol, arr)
	g.Immutable = true
}
