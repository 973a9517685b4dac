package reader

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/types"
	"gopkg.in/yaml.v2"
)

// The YAML form of a program, as produced by an external parser. Every
// expression is a mapping with exactly one key naming its kind:
//
//	body:
//	  block:
//	    - declare: {type: float64, names: [a]}
//	    - assign: {name: a, value: {binary: {op: "+", lhs: {var: a}, rhs: {float: 1}}}}
//	    - var: a
type programDoc struct {
	Externs   []protoDoc    `yaml:"externs"`
	Functions []functionDoc `yaml:"functions"`
}

type paramDoc struct {
	Name string     `yaml:"name"`
	Type types.Kind `yaml:"type"`
}

type protoDoc struct {
	Name    string     `yaml:"name"`
	Returns string     `yaml:"returns"`
	Params  []paramDoc `yaml:"params"`
}

type functionDoc struct {
	Proto protoDoc `yaml:",inline"`
	Body  *exprDoc `yaml:"body"`
}

type exprDoc struct {
	Int           *int32            `yaml:"int"`
	Float         *float64          `yaml:"float"`
	Var           *string           `yaml:"var"`
	Binary        *binaryDoc        `yaml:"binary"`
	Assign        *assignDoc        `yaml:"assign"`
	Call          *callDoc          `yaml:"call"`
	Declare       *declareDoc       `yaml:"declare"`
	DeclareAssign *declareAssignDoc `yaml:"declare-assign"`
	Block         *[]*exprDoc       `yaml:"block"`
	If            *ifDoc            `yaml:"if"`
	While         *whileDoc         `yaml:"while"`
	Switch        *switchDoc        `yaml:"switch"`
}

type binaryDoc struct {
	Op  string   `yaml:"op"`
	LHS *exprDoc `yaml:"lhs"`
	RHS *exprDoc `yaml:"rhs"`
}

type assignDoc struct {
	Name  string   `yaml:"name"`
	Value *exprDoc `yaml:"value"`
}

type callDoc struct {
	Callee string     `yaml:"callee"`
	Args   []*exprDoc `yaml:"args"`
}

type declareDoc struct {
	Type  types.Kind `yaml:"type"`
	Names []string   `yaml:"names"`
}

type declareAssignDoc struct {
	Type  types.Kind `yaml:"type"`
	Name  string     `yaml:"name"`
	Value *exprDoc   `yaml:"value"`
}

type ifDoc struct {
	Cond *exprDoc `yaml:"cond"`
	Then *exprDoc `yaml:"then"`
	Else *exprDoc `yaml:"else"`
}

type whileDoc struct {
	Cond *exprDoc `yaml:"cond"`
	Body *exprDoc `yaml:"body"`
}

type caseDoc struct {
	Value *int32   `yaml:"value"`
	Body  *exprDoc `yaml:"body"`
	Break bool     `yaml:"break"`
}

type switchDoc struct {
	Cond  *exprDoc  `yaml:"cond"`
	Cases []caseDoc `yaml:"cases"`
}

// ReadProgram decodes the program stored at path.
func ReadProgram(path string) (*ast.Program, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	prog, err := DecodeProgram(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return prog, nil
}

func DecodeProgram(data []byte) (*ast.Program, error) {
	var doc programDoc
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, err
	}

	prog := &ast.Program{}
	for _, p := range doc.Externs {
		proto, err := p.toAST()
		if err != nil {
			return nil, err
		}
		prog.Externs = append(prog.Externs, proto)
	}
	for _, f := range doc.Functions {
		proto, err := f.Proto.toAST()
		if err != nil {
			return nil, err
		}
		body, err := f.Body.toAST()
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", f.Proto.Name)
		}
		prog.Functions = append(prog.Functions, ast.FunctionDef{Proto: proto, Body: body})
	}
	return prog, nil
}

func (p protoDoc) toAST() (ast.FunctionProto, error) {
	if p.Name == "" {
		return ast.FunctionProto{}, errors.New("function without a name")
	}
	ret, err := types.Parse(p.Returns)
	if err != nil {
		return ast.FunctionProto{}, errors.Wrapf(err, "function %s", p.Name)
	}

	proto := ast.FunctionProto{Returns: ret, Name: p.Name}
	for _, param := range p.Params {
		if param.Type == types.Invalid {
			return ast.FunctionProto{}, errors.Errorf("function %s: parameter %s has no type", p.Name, param.Name)
		}
		proto.Params = append(proto.Params, ast.ParamDecl{Type: param.Type, Name: param.Name})
	}
	return proto, nil
}

func (e *exprDoc) set() int {
	n := 0
	for _, isSet := range []bool{
		e.Int != nil, e.Float != nil, e.Var != nil, e.Binary != nil,
		e.Assign != nil, e.Call != nil, e.Declare != nil, e.DeclareAssign != nil,
		e.Block != nil, e.If != nil, e.While != nil, e.Switch != nil,
	} {
		if isSet {
			n++
		}
	}
	return n
}

// toAST converts e. A missing expression becomes nil, which lowers to no
// value.
func (e *exprDoc) toAST() (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	if n := e.set(); n != 1 {
		return nil, errors.Errorf("expression must have exactly one kind, has %d", n)
	}

	switch {
	case e.Int != nil:
		return ast.IntLit(*e.Int), nil
	case e.Float != nil:
		return ast.FloatLit(*e.Float), nil
	case e.Var != nil:
		return ast.Var{Name: *e.Var}, nil
	case e.Binary != nil:
		op, err := ast.ParseOp(e.Binary.Op)
		if err != nil {
			return nil, err
		}
		lhs, err := e.Binary.LHS.toAST()
		if err != nil {
			return nil, err
		}
		rhs, err := e.Binary.RHS.toAST()
		if err != nil {
			return nil, err
		}
		return ast.BinaryOp{Op: op, LHS: lhs, RHS: rhs}, nil
	case e.Assign != nil:
		val, err := e.Assign.Value.toAST()
		if err != nil {
			return nil, errors.Wrapf(err, "assignment to %s", e.Assign.Name)
		}
		return ast.Assign{Name: e.Assign.Name, Value: val}, nil
	case e.Call != nil:
		call := ast.Call{Callee: e.Call.Callee}
		for i, arg := range e.Call.Args {
			val, err := arg.toAST()
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d of %s", i, e.Call.Callee)
			}
			call.Args = append(call.Args, val)
		}
		return call, nil
	case e.Declare != nil:
		return ast.Declare{Type: e.Declare.Type, Names: e.Declare.Names}, nil
	case e.DeclareAssign != nil:
		val, err := e.DeclareAssign.Value.toAST()
		if err != nil {
			return nil, errors.Wrapf(err, "declaration of %s", e.DeclareAssign.Name)
		}
		return ast.DeclareAssign{Type: e.DeclareAssign.Type, Name: e.DeclareAssign.Name, Value: val}, nil
	case e.Block != nil:
		block := ast.Block{}
		for _, stmt := range *e.Block {
			val, err := stmt.toAST()
			if err != nil {
				return nil, err
			}
			block = append(block, val)
		}
		return block, nil
	case e.If != nil:
		cond, err := e.If.Cond.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "if condition")
		}
		then, err := e.If.Then.toAST()
		if err != nil {
			return nil, err
		}
		els, err := e.If.Else.toAST()
		if err != nil {
			return nil, err
		}
		return ast.If{Cond: cond, Then: then, Else: els}, nil
	case e.While != nil:
		cond, err := e.While.Cond.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "while condition")
		}
		body, err := e.While.Body.toAST()
		if err != nil {
			return nil, err
		}
		return ast.While{Cond: cond, Body: body}, nil
	default:
		cond, err := e.Switch.Cond.toAST()
		if err != nil {
			return nil, errors.Wrap(err, "switch condition")
		}
		sw := ast.Switch{Cond: cond}
		for i, c := range e.Switch.Cases {
			body, err := c.Body.toAST()
			if err != nil {
				return nil, errors.Wrapf(err, "case %d", i)
			}
			sw.Cases = append(sw.Cases, ast.Case{Value: c.Value, Body: body, Break: c.Break})
		}
		return sw, nil
	}
}
