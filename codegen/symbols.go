package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/pontaoski/tinyc/types"
)

type variable struct {
	slot *ir.InstAlloca
	kind types.Kind
}

// scope maps the names of one function to their storage. There is no block
// nesting: a name declared anywhere in the body stays bound until the
// function ends.
type scope map[string]variable

func (s scope) lookup(name string) (variable, bool) {
	v, ok := s[name]
	return v, ok
}

func (s scope) bind(name string, v variable) {
	s[name] = v
}
