package symbol

import "github.com/voxelforge/blockscript/internal/arena"

// Table is a hierarchical symbol table: one level owns a TypeTable, a
// FuncTable, and a stack of Frames, and may link non-owning child tables
// (host-provided libraries) whose types and functions are visible through
// it without being copied. Lookups search children first, then local
// state, so a host library can shadow nothing of the script's own scope
// while still being found by name.
type Table struct {
	Types *TypeTable
	Funcs *FuncTable

	Frames *arena.Slab[Frame]

	children []*Table
}

// NewTable creates an empty, root Table with its own TypeTable and
// FuncTable.
func NewTable() *Table {
	return &Table{Types: NewTypeTable(), Funcs: NewFuncTable(), Frames: arena.NewSlab[Frame](0)}
}

// RegisterChild links lib as a child of t, without copying its contents.
// Lookups on t will search lib before t's own state.
func (t *Table) RegisterChild(lib *Table) {
	t.children = append(t.children, lib)
}

// UnregisterChild removes a previously-registered child, if present.
func (t *Table) UnregisterChild(lib *Table) {
	for i, c := range t.children {
		if c == lib {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

// TypeByName searches children (most-recently-registered first), then
// this table's own types.
func (t *Table) TypeByName(name string) *Type {
	for i := len(t.children) - 1; i >= 0; i-- {
		if typ := t.children[i].TypeByName(name); typ != nil {
			return typ
		}
	}
	return t.Types.ByName(name)
}

// EnumByName is a convenience wrapper over TypeByName that only returns
// enum types.
func (t *Table) EnumByName(name string) *Type {
	typ := t.TypeByName(name)
	if typ != nil && typ.Kind == KindEnum {
		return typ
	}
	return nil
}

// FindFunction searches children, then this table's own functions,
// returning every overload found under name in the first table (child or
// self) where any match exists.
func (t *Table) FindFunction(name string) []*FuncDesc {
	for i := len(t.children) - 1; i >= 0; i-- {
		if fs := t.children[i].FindFunction(name); len(fs) > 0 {
			return fs
		}
	}
	return t.Funcs.Find(name)
}

// PushFrame creates a new frame nested under parent (-1 for a top-level
// function frame) and returns its index.
func (t *Table) PushFrame(parent int, cat Category) int {
	f := t.Frames.PushEmpty()
	*f = *NewFrame(parent, cat)
	return t.Frames.Len() - 1
}

// Frame returns the frame at index i.
func (t *Table) Frame(i int) *Frame { return t.Frames.At(i) }

// Library is a named, host-registered collection of types and intrinsic
// functions, linked into a script's symbol table via RegisterChild
// without copying its contents.
type Library struct {
	*Table
	Name string
}

// NewLibrary creates an empty, named Library ready to have types and
// intrinsics registered on it before being linked into a script's Table.
func NewLibrary(name string) *Library {
	return &Library{Table: NewTable(), Name: name}
}

// CreateIntrinsicFunctions registers a batch of host-callable functions
// with no BlockScript body.
func (l *Library) CreateIntrinsicFunctions(defs []IntrinsicDef) error {
	for _, d := range defs {
		if _, err := l.Funcs.Declare(d.Name, d.ArgTypes, d.RetType, DeclIntrinsic); err != nil {
			return err
		}
	}
	return nil
}

// IntrinsicDef describes one host-callable function signature to
// register via CreateIntrinsicFunctions.
type IntrinsicDef struct {
	Name     string
	ArgTypes []*Type
	RetType  *Type
}

// CreateStructTypes registers a batch of struct types.
func (l *Library) CreateStructTypes(defs []StructDef) error {
	for _, d := range defs {
		if _, err := l.Types.CreateStruct(d.Name, d.FieldNames, d.FieldTypes); err != nil {
			return err
		}
	}
	return nil
}

// StructDef describes one struct type to register via
// CreateStructTypes.
type StructDef struct {
	Name       string
	FieldNames []string
	FieldTypes []*Type
}

// CreateClassTypes registers a batch of host object-reference ("class")
// types, each exposing a property list the interop layer can dispatch
// reads/writes through.
func (l *Library) CreateClassTypes(defs []ClassDef) error {
	for _, d := range defs {
		if _, err := l.Types.CreateObjectRef(d.Name, d.Properties); err != nil {
			return err
		}
	}
	return nil
}

// ClassDef describes one object-reference type to register via
// CreateClassTypes.
type ClassDef struct {
	Name       string
	Properties []StructField
}

// CreateEnumTypes registers a batch of enum types.
func (l *Library) CreateEnumTypes(defs []EnumDef) error {
	for _, d := range defs {
		if _, err := l.Types.CreateEnum(d.Name, d.Enumerants); err != nil {
			return err
		}
	}
	return nil
}

// EnumDef describes one enum type to register via CreateEnumTypes.
type EnumDef struct {
	Name       string
	Enumerants []string
}
