package reader

import (
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/tinyc/ast"
	"github.com/pontaoski/tinyc/types"
)

const sample = `
externs:
  - name: putd
    returns: void
    params:
      - {name: x, type: float64}
functions:
  - name: sum
    returns: int32
    params:
      - {name: n, type: int32}
    body:
      block:
        - declare-assign: {type: int32, name: total, value: {int: 0}}
        - while:
            cond: {binary: {op: ">", lhs: {var: n}, rhs: {int: 0}}}
            body:
              block:
                - assign: {name: total, value: {binary: {op: "+", lhs: {var: total}, rhs: {var: n}}}}
                - assign: {name: n, value: {binary: {op: "-", lhs: {var: n}, rhs: {int: 1}}}}
        - var: total
  - name: pick
    returns: double
    params:
      - {name: k, type: int}
    body:
      block:
        - declare: {type: double, names: [a, b]}
        - switch:
            cond: {var: k}
            cases:
              - value: 1
                body: {assign: {name: a, value: {float: 1.5}}}
                break: true
              - body: {call: {callee: putd, args: [{var: a}]}}
        - if:
            cond: {var: k}
            then: {var: a}
            else: {var: b}
`

func TestDecodeProgram(t *testing.T) {
	prog, err := DecodeProgram([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Externs) != 1 || prog.Externs[0].String() != "function putd(x: float64) -> void" {
		t.Fatalf("bad externs: %s", repr.String(prog.Externs))
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("got %d functions", len(prog.Functions))
	}

	sum := prog.Functions[0]
	if sum.Proto.String() != "function sum(n: int32) -> int32" {
		t.Errorf("bad prototype %s", sum.Proto)
	}
	body, ok := sum.Body.(ast.Block)
	if !ok || len(body) != 3 {
		t.Fatalf("bad body: %s", repr.String(sum.Body))
	}
	decl := body[0].(ast.DeclareAssign)
	if decl.Type != types.Int32 || decl.Name != "total" || decl.Value != ast.IntLit(0) {
		t.Errorf("bad declaration: %s", repr.String(decl))
	}
	loop := body[1].(ast.While)
	if cond := loop.Cond.(ast.BinaryOp); cond.Op != ast.Gt || cond.LHS != (ast.Var{Name: "n"}) {
		t.Errorf("bad loop condition: %s", repr.String(cond))
	}
	if body[2] != (ast.Var{Name: "total"}) {
		t.Errorf("block should end in the result, got %s", repr.String(body[2]))
	}

	pick := prog.Functions[1].Body.(ast.Block)
	declare := pick[0].(ast.Declare)
	if declare.Type != types.Float64 || strings.Join(declare.Names, ",") != "a,b" {
		t.Errorf("bad declaration: %s", repr.String(declare))
	}
	sw := pick[1].(ast.Switch)
	if len(sw.Cases) != 2 {
		t.Fatalf("got %d cases", len(sw.Cases))
	}
	if sw.Cases[0].Value == nil || *sw.Cases[0].Value != 1 || !sw.Cases[0].Break {
		t.Errorf("bad first case: %s", repr.String(sw.Cases[0]))
	}
	if sw.Cases[1].Value != nil || sw.Cases[1].Break {
		t.Errorf("second case should be a default that falls through: %s", repr.String(sw.Cases[1]))
	}
	call := sw.Cases[1].Body.(ast.Call)
	if call.Callee != "putd" || len(call.Args) != 1 {
		t.Errorf("bad call: %s", repr.String(call))
	}
	cond := pick[2].(ast.If)
	if cond.Then != (ast.Var{Name: "a"}) || cond.Else != (ast.Var{Name: "b"}) {
		t.Errorf("bad if: %s", repr.String(cond))
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"two kinds": `
functions:
  - name: f
    body: {int: 1, var: x}
`,
		"no kind": `
functions:
  - name: f
    body: {block: [{}]}
`,
		"missing name": `
functions:
  - returns: int32
    body: {int: 1}
`,
		"unknown key": `
functions:
  - name: f
    body: {loop: {}}
`,
		"unknown type": `
functions:
  - name: f
    returns: bool
`,
		"untyped parameter": `
externs:
  - name: f
    params: [{name: x}]
`,
		"unknown operator": `
functions:
  - name: f
    body: {binary: {op: "%", lhs: {int: 1}, rhs: {int: 2}}}
`,
	}
	for name, src := range cases {
		if _, err := DecodeProgram([]byte(src)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestMissingBodyIsEmpty(t *testing.T) {
	prog, err := DecodeProgram([]byte("functions:\n  - name: f\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := prog.Functions[0]
	if f.Body != nil || f.Proto.Returns != types.Void {
		t.Errorf("got %s", repr.String(f))
	}
}
