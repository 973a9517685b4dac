package ast

import (
	"fmt"
	"strings"
)

func (op Op) String() string {
	data := map[Op]string{
		Add: "+",
		Sub: "-",
		Mul: "*",
		Div: "/",
		Lt:  "<",
		Gt:  ">",
		Eq:  "==",
		Ne:  "!=",
		Le:  "<=",
		Ge:  ">=",
	}
	if s, ok := data[op]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp is the inverse of Op.String.
func ParseOp(s string) (Op, error) {
	for op := Add; op <= Ge; op++ {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

func (p ParamDecl) String() string {
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

func (f FunctionProto) String() string {
	var args []string
	for _, arg := range f.Params {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("function %s(%s) -> %s", f.Name, strings.Join(args, ", "), f.Returns)
}

// Describe names the construct e for diagnostics.
func Describe(e Expr) string {
	switch expr := e.(type) {
	case nil:
		return "empty expression"
	case IntLit:
		return fmt.Sprintf("integer literal %d", int32(expr))
	case FloatLit:
		return fmt.Sprintf("float literal %g", float64(expr))
	case Var:
		return fmt.Sprintf("variable '%s'", expr.Name)
	case BinaryOp:
		return fmt.Sprintf("'%s' expression", expr.Op)
	case Assign:
		return fmt.Sprintf("assignment to '%s'", expr.Name)
	case Call:
		return fmt.Sprintf("call to '%s'", expr.Callee)
	case Declare:
		return fmt.Sprintf("declaration of %s", strings.Join(expr.Names, ", "))
	case DeclareAssign:
		return fmt.Sprintf("declaration of %s", expr.Name)
	case Block:
		return "block"
	case If:
		return "if expression"
	case While:
		return "while loop"
	case Switch:
		return "switch"
	}
	return fmt.Sprintf("%T", e)
}
