package symbol

import (
	"bytes"
	"fmt"

	"github.com/voxelforge/blockscript/internal/arena"
)

// DeclKind distinguishes the reasons a FuncDesc might have no body yet.
// "No body in this translation unit" means two very different things: a
// forward declaration ("ret name(args);") waiting for its definition
// later in the same unit, and a host intrinsic implemented in Go that
// never gets a BlockScript body at all.
type DeclKind int

const (
	DeclDefined   DeclKind = iota // has, or is being given, a BlockScript body
	DeclForward                   // no body yet; a later DeclDefined with the same signature binds it
	DeclIntrinsic                 // host-registered native function, never gets a body
)

// FuncDesc describes one function signature: its name, argument types (in
// order), return type (nil for void), and how its body (if any) is
// supplied.
type FuncDesc struct {
	Name       string
	ArgTypes   []*Type
	RetType    *Type
	Frame      int // index into the owning Table's Frames, -1 until a body is bound
	Kind       DeclKind
	EntryLabel string // canon block label, assigned by the canonizer

	id int
}

// ID returns the function descriptor's stable index within its owning
// FuncTable, usable as an opaque identifier by later compiler stages.
func (f *FuncDesc) ID() int { return f.id }

// Intrinsic reports whether f is a host-registered native function.
func (f *FuncDesc) Intrinsic() bool { return f.Kind == DeclIntrinsic }

// Forward reports whether f is a forward declaration still awaiting its
// definition.
func (f *FuncDesc) Forward() bool { return f.Kind == DeclForward }

// signature packs the argument types into a comparable byte sequence, two
// bytes per argument, the high and low byte of its type id (type ids are assigned by the owning TypeTable and
// are stable for the lifetime of a compilation), mirroring the original
// FunDesc signature-buffer dedup rule.
func signature(args []*Type) []byte {
	buf := make([]byte, 0, len(args)*2)
	for _, a := range args {
		buf = append(buf, byte(a.id>>8), byte(a.id))
	}
	return buf
}

// FuncTable holds every function descriptor declared in one symbol table
// level, deduplicating overloads by argument-type signature. Descriptors
// live in an arena.Slab so a *FuncDesc handed out by Declare stays valid
// across later declarations in the same table.
type FuncTable struct {
	funcs *arena.Slab[FuncDesc]
}

// NewFuncTable creates an empty FuncTable.
func NewFuncTable() *FuncTable { return &FuncTable{funcs: arena.NewSlab[FuncDesc](0)} }

func (ft *FuncTable) each(fn func(*FuncDesc) bool) {
	for i := 0; i < ft.funcs.Len(); i++ {
		if !fn(ft.funcs.At(i)) {
			return
		}
	}
}

// Declare registers a function overload under the given kind. A
// DeclDefined declaration whose signature matches an existing DeclForward
// entry binds that entry's body instead of creating a new descriptor (the
// Function descriptor's "resolved later in the same unit" case);
// otherwise a matching name+signature that already exists is rejected
// (the original engine's overload-dedup rule). Overloads that differ by
// argument count or types are always allowed; the return type is not part
// of the signature, so a declaration differing only by return type is
// rejected.
func (ft *FuncTable) Declare(name string, args []*Type, ret *Type, kind DeclKind) (*FuncDesc, error) {
	sig := signature(args)
	var found *FuncDesc
	ft.each(func(f *FuncDesc) bool {
		if f.Name == name && bytes.Equal(signature(f.ArgTypes), sig) {
			found = f
			return false
		}
		return true
	})
	if found != nil {
		if found.Kind == DeclForward && kind == DeclDefined {
			found.RetType = ret
			found.Kind = DeclDefined
			return found, nil
		}
		return nil, fmt.Errorf("symbol: function %q redeclared with identical argument types", name)
	}

	fd := ft.funcs.PushEmpty()
	*fd = FuncDesc{
		Name:     name,
		ArgTypes: args,
		RetType:  ret,
		Frame:    -1,
		Kind:     kind,
		id:       ft.funcs.Len() - 1,
	}
	return fd, nil
}

// ByID returns the descriptor with the given stable id, or nil if id is
// out of range.
func (ft *FuncTable) ByID(id int) *FuncDesc {
	if id < 0 || id >= ft.funcs.Len() {
		return nil
	}
	return ft.funcs.At(id)
}

// Find returns every overload registered under name, in declaration
// order.
func (ft *FuncTable) Find(name string) []*FuncDesc {
	var out []*FuncDesc
	ft.each(func(f *FuncDesc) bool {
		if f.Name == name {
			out = append(out, f)
		}
		return true
	})
	return out
}

// All returns every declared function, in declaration order.
func (ft *FuncTable) All() []*FuncDesc {
	out := make([]*FuncDesc, 0, ft.funcs.Len())
	ft.each(func(f *FuncDesc) bool {
		out = append(out, f)
		return true
	})
	return out
}
