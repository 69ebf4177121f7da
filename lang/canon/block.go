package canon

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/symbol"
)

// Block is a labelled, straight-line sequence of instructions. Control
// only enters at the top and leaves via the last instruction (Jmp,
// JmpCond, Ret, or Exit) or by falling through to the next block in
// source order.
type Block struct {
	Label  string
	Instrs []Instr
}

func (b *Block) emit(i Instr) { b.Instrs = append(b.Instrs, i) }

// Constant is one entry of a function's constants segment: an immediate
// value materialized once and referenced by Operand.Const from
// instructions, rather than re-encoded inline.
type Constant struct {
	Type     *symbol.Type
	IntVal   int64
	FloatVal float64
	StrVal   string
}

// Function is one compiled function: its signature, constants segment,
// and the ordered list of blocks composing its body.
type Function struct {
	Name       string
	ArgTypes   []*symbol.Type
	RetType    *symbol.Type
	FrameSize  int
	Constants  []Constant
	Blocks     []*Block
	EntryLabel string
}

func (f *Function) blockByLabel(label string) *Block {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b
		}
	}
	return nil
}

// Assembly is a full compiled program: every function, in the order added
// and indexed by name.
type Assembly struct {
	Functions []*Function
	ByName    map[string]*Function
}

// NewAssembly creates an empty Assembly.
func NewAssembly() *Assembly {
	return &Assembly{ByName: make(map[string]*Function)}
}

// Add registers fn in the assembly, indexed by its name. It returns an
// error if a function with that name already exists.
func (a *Assembly) Add(fn *Function) error {
	if _, ok := a.ByName[fn.Name]; ok {
		return fmt.Errorf("canon: function %q already defined", fn.Name)
	}
	a.Functions = append(a.Functions, fn)
	a.ByName[fn.Name] = fn
	return nil
}
