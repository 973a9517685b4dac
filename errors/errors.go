package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies a semantic error found while lowering a function.
type Kind int

const (
	UndeclaredVariable Kind = iota + 1
	UndeclaredFunction
	ArityMismatch
	TypeMismatch
	ImplicitConversionDisallowed
	Redeclaration
	FunctionRedefinition
	MultipleDefaultCases
	UnsupportedType
	VerificationFailure
)

func (k Kind) String() string {
	data := map[Kind]string{
		UndeclaredVariable:           "undeclared variable",
		UndeclaredFunction:           "undeclared function",
		ArityMismatch:                "arity mismatch",
		TypeMismatch:                 "type mismatch",
		ImplicitConversionDisallowed: "implicit conversion disallowed",
		Redeclaration:                "redeclaration",
		FunctionRedefinition:         "function redefinition",
		MultipleDefaultCases:         "multiple default cases",
		UnsupportedType:              "unsupported type",
		VerificationFailure:          "verification failure",
	}
	if s, ok := data[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error lets a Kind be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

type CompileError struct {
	Kind     Kind
	Function string
	Msg      string
	Cause    error
}

func New(kind Kind, msg string, fmts ...interface{}) *CompileError {
	return &CompileError{
		Kind: kind,
		Msg:  fmt.Sprintf(msg, fmts...),
	}
}

func (e *CompileError) Error() string {
	var b strings.Builder
	if e.Function != "" {
		fmt.Fprintf(&b, "function %q: ", e.Function)
	}
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *CompileError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// List collects the failures of every definition in a program.
type List []*CompileError

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors:\n\t%s", len(l), strings.Join(msgs, "\n\t"))
}

func (l List) Is(target error) bool {
	for _, e := range l {
		if e.Is(target) {
			return true
		}
	}
	return false
}

// Is reports whether any error in err's chain matches target. A Kind
// matches every CompileError of that kind.
func Is(err, target error) bool {
	return pkgerrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return pkgerrors.As(err, target)
}
