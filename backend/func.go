package backend

import (
	"fmt"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/tinyc", "backend")

// Func is a function under construction. It owns the insertion point and
// remembers every branch it emitted, so the control flow graph is known
// without inspecting terminators.
//
// Parameters, stack slots and blocks share one local namespace in the IR.
// Func hands out every name in it, so none of them collide.
type Func struct {
	*ir.Func
	Entry *ir.Block

	cur     *ir.Block
	succs   map[*ir.Block][]*ir.Block
	labels  map[string]int
	used    map[string]bool
	allocas int
}

// Begin creates the entry block of f and points the insertion point at it.
// Parameters whose names are taken are renamed.
func Begin(f *ir.Func) *Func {
	fn := &Func{
		Func:   f,
		succs:  make(map[*ir.Block][]*ir.Block),
		labels: make(map[string]int),
		used:   make(map[string]bool),
	}
	fn.Entry = f.NewBlock(fn.local("entry"))
	for _, p := range f.Params {
		p.SetName(fn.local(p.LocalName))
	}
	fn.cur = fn.Entry
	return fn
}

// numeric names are reserved for unnamed values
func numeric(name string) bool {
	return strings.Trim(name, "0123456789") == ""
}

// local reserves name, or name.N for the smallest free N if name is taken.
func (f *Func) local(name string) string {
	if name == "" {
		name = "local"
	}
	if !numeric(name) && !f.used[name] {
		f.used[name] = true
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s.%d", name, n)
		if !f.used[candidate] {
			f.used[candidate] = true
			return candidate
		}
	}
}

// Block returns the current insertion block.
func (f *Func) Block() *ir.Block {
	return f.cur
}

func (f *Func) SetInsertPoint(b *ir.Block) {
	f.cur = b
}

// AddBlock appends a block named prefix.N, where N counts blocks sharing
// that prefix within the function. Numbers already taken by other locals
// are skipped.
func (f *Func) AddBlock(prefix string) *ir.Block {
	n := f.labels[prefix]
	name := fmt.Sprintf("%s.%d", prefix, n)
	for f.used[name] {
		n++
		name = fmt.Sprintf("%s.%d", prefix, n)
	}
	f.labels[prefix] = n + 1
	f.used[name] = true
	return f.Func.NewBlock(name)
}

// Alloca reserves a stack slot at the top of the entry block, ahead of any
// other entry instruction.
func (f *Func) Alloca(t types.Type, name string) *ir.InstAlloca {
	a := ir.NewAlloca(t)
	a.SetName(f.local(name))

	rest := append([]ir.Instruction{a}, f.Entry.Insts[f.allocas:]...)
	f.Entry.Insts = append(f.Entry.Insts[:f.allocas], rest...)
	f.allocas++

	return a
}

// MoveToEnd moves b behind every other block of f.
func (f *Func) MoveToEnd(b *ir.Block) {
	for i, other := range f.Blocks {
		if other == b {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			f.Blocks = append(f.Blocks, b)
			return
		}
	}
}

func (f *Func) Br(from, to *ir.Block) {
	from.NewBr(to)
	f.edge(from, to)
}

func (f *Func) CondBr(from *ir.Block, cond value.Value, then, els *ir.Block) {
	from.NewCondBr(cond, then, els)
	f.edge(from, then)
	f.edge(from, els)
}

// Ret terminates the insertion block. A nil v returns void.
func (f *Func) Ret(v value.Value) {
	f.cur.NewRet(v)
}

func (f *Func) edge(from, to *ir.Block) {
	f.succs[from] = append(f.succs[from], to)
}

func (f *Func) Succs(b *ir.Block) []*ir.Block {
	return f.succs[b]
}

// Preds returns the predecessors of b in block order.
func (f *Func) Preds(b *ir.Block) []*ir.Block {
	var preds []*ir.Block
	for _, p := range f.Blocks {
		for _, s := range f.succs[p] {
			if s == b {
				preds = append(preds, p)
				break
			}
		}
	}
	return preds
}

// Discard drops the body, turning f back into a declaration.
func (f *Func) Discard() {
	f.Blocks = nil
	f.succs = make(map[*ir.Block][]*ir.Block)
	f.labels = make(map[string]int)
	f.used = make(map[string]bool)
	f.cur = nil
	f.Entry = nil
	f.allocas = 0
}

// LookupFunc finds a function of m by name.
func LookupFunc(m *ir.Module, name string) *ir.Func {
	for _, f := range m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// RemoveFunc deletes f from m.
func RemoveFunc(m *ir.Module, f *ir.Func) {
	for i, other := range m.Funcs {
		if other == f {
			m.Funcs = append(m.Funcs[:i], m.Funcs[i+1:]...)
			return
		}
	}
}
