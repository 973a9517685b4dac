package types

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"
)

// Kind is a primitive type of the source language.
type Kind int

const (
	Invalid Kind = iota

	Int32
	Float64
	Char
	String
	Void
)

func (k Kind) String() string {
	data := map[Kind]string{
		Invalid: "invalid",
		Int32:   "int32",
		Float64: "float64",
		Char:    "char",
		String:  "string",
		Void:    "void",
	}
	if s, ok := data[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parse maps a type name as written by the parser to its Kind.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "int32":
		return Int32, nil
	case "double", "float64":
		return Float64, nil
	case "char":
		return Char, nil
	case "string":
		return String, nil
	case "void", "":
		return Void, nil
	}
	return Invalid, errors.Errorf("unknown type %q", s)
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Match reports whether a value of kind b may be used where a is expected.
// There are no promotions: only identical kinds match.
func Match(a, b Kind) bool {
	return a != Invalid && a == b
}

// Storable reports whether variables and parameters may have kind k.
func (k Kind) Storable() bool {
	return k == Int32 || k == Float64
}

// Supported reports whether k is implemented by the code generator at all.
func (k Kind) Supported() bool {
	return k.Storable() || k == Void
}

var (
	I32    = lltypes.I32
	Double = lltypes.Double
	I1     = lltypes.I1
)

// LLVM returns the IR type for k, or nil if k has no IR representation.
func (k Kind) LLVM() lltypes.Type {
	switch k {
	case Int32:
		return I32
	case Float64:
		return Double
	case Void:
		return lltypes.Void
	}
	return nil
}

// FromLLVM maps an IR type back to its Kind.
func FromLLVM(t lltypes.Type) Kind {
	switch {
	case t == nil:
		return Invalid
	case t.Equal(I32):
		return Int32
	case t.Equal(Double):
		return Float64
	case lltypes.IsVoid(t):
		return Void
	}
	return Invalid
}

// Zero returns the constant a fresh variable of kind k starts out with.
func (k Kind) Zero() (constant.Constant, bool) {
	switch k {
	case Int32:
		return constant.NewInt(I32, 0), true
	case Float64:
		return constant.NewFloat(Double, 0), true
	}
	return nil, false
}
