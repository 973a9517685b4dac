package ast

import "github.com/pontaoski/tinyc/types"

type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
	Lt
	Gt
	Eq
	Ne
	Le
	Ge
)

// Comparison reports whether op yields a truth value rather than an
// arithmetic result.
func (op Op) Comparison() bool {
	return op >= Lt
}

type Expr interface {
	is_Expr()
}

type IntLit int32

func (v IntLit) is_Expr() {}

type FloatLit float64

func (v FloatLit) is_Expr() {}

type Var struct {
	Name string
}

func (v Var) is_Expr() {}

type BinaryOp struct {
	Op  Op
	LHS Expr
	RHS Expr
}

func (v BinaryOp) is_Expr() {}

type Assign struct {
	Name  string
	Value Expr
}

func (v Assign) is_Expr() {}

type Call struct {
	Callee string
	Args   []Expr
}

func (v Call) is_Expr() {}

type Declare struct {
	Type  types.Kind
	Names []string
}

func (v Declare) is_Expr() {}

type DeclareAssign struct {
	Type  types.Kind
	Name  string
	Value Expr
}

func (v DeclareAssign) is_Expr() {}

type Block []Expr

func (v Block) is_Expr() {}

type If struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (v If) is_Expr() {}

type While struct {
	Cond Expr
	Body Expr
}

func (v While) is_Expr() {}

// Case is one arm of a Switch. A nil Value marks the default arm. Without
// Break, control falls into the next arm's body.
type Case struct {
	Value *int32
	Body  Expr
	Break bool
}

type Switch struct {
	Cond  Expr
	Cases []Case
}

func (v Switch) is_Expr() {}

type ParamDecl struct {
	Type types.Kind
	Name string
}

type FunctionProto struct {
	Returns types.Kind
	Name    string
	Params  []ParamDecl
}

type FunctionDef struct {
	Proto FunctionProto
	Body  Expr
}

// Program is everything a parser hands over for one module: body-less
// prototypes of functions defined elsewhere, then definitions in source
// order.
type Program struct {
	Externs   []FunctionProto
	Functions []FunctionDef
}
