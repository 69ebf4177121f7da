package interop

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/symbol"
)

// GlobalID is the opaque small integer a host uses to read or write a
// named global after compilation, per spec.md §4.8's bind-point pattern.
type GlobalID int

type globalEntry struct {
	Name   string
	Offset int
	Type   *symbol.Type
}

// GlobalTable lays out the host-declared global variables that live in
// the VM's bootstrap frame (the region addressed by Reg.G), in
// declaration order, exactly like a symbol.Frame lays out locals. There
// is no script-source syntax for declaring a global (spec.md's grammar
// has none); globals exist only as host-registered bind points, declared
// before the runtime is started.
type GlobalTable struct {
	entries []globalEntry
	byName  map[string]GlobalID
}

// NewGlobalTable creates an empty GlobalTable.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{byName: make(map[string]GlobalID)}
}

// Declare registers a new global named name with type t, returning its
// bind point id. It is an error to declare the same name twice.
func (g *GlobalTable) Declare(name string, t *symbol.Type) (GlobalID, error) {
	if _, ok := g.byName[name]; ok {
		return 0, fmt.Errorf("interop: global %q already declared", name)
	}
	offset := g.Size()
	id := GlobalID(len(g.entries))
	g.entries = append(g.entries, globalEntry{Name: name, Offset: offset, Type: t})
	g.byName[name] = id
	return id, nil
}

// Size returns the total byte size of the bootstrap frame needed to hold
// every declared global.
func (g *GlobalTable) Size() int {
	size := 0
	for _, e := range g.entries {
		size += e.Type.ByteSize
	}
	return size
}

// BindPoint returns the id of the global named name, or ok == false if
// no such global was declared.
func (g *GlobalTable) BindPoint(name string) (GlobalID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

func (g *GlobalTable) entry(id GlobalID) (globalEntry, bool) {
	if id < 0 || int(id) >= len(g.entries) {
		return globalEntry{}, false
	}
	return g.entries[id], true
}

// GlobalBindPoint resolves name to its GlobalID through r's global
// table.
func (r *Runtime) GlobalBindPoint(name string) (GlobalID, bool) {
	return r.Globals.BindPoint(name)
}

// ReadGlobalValue copies the global named by id into out, which must be
// at least the global's declared type size. It returns a host-contract
// error if out is too small or id is unknown.
func (r *Runtime) ReadGlobalValue(id GlobalID, out []byte) error {
	e, ok := r.Globals.entry(id)
	if !ok {
		return fmt.Errorf("interop: unknown global bind point %d", id)
	}
	if len(out) < e.Type.ByteSize {
		return fmt.Errorf("interop: read buffer too small for global %q (need %d, got %d)", e.Name, e.Type.ByteSize, len(out))
	}
	copy(out, r.State.GlobalBytes(e.Offset, e.Type.ByteSize))
	return nil
}

// WriteGlobalValue copies in into the global named by id. It returns a
// host-contract error if in is too small or id is unknown.
func (r *Runtime) WriteGlobalValue(id GlobalID, in []byte) error {
	e, ok := r.Globals.entry(id)
	if !ok {
		return fmt.Errorf("interop: unknown global bind point %d", id)
	}
	if len(in) < e.Type.ByteSize {
		return fmt.Errorf("interop: write buffer too small for global %q (need %d, got %d)", e.Name, e.Type.ByteSize, len(in))
	}
	r.State.SetGlobalBytes(e.Offset, in[:e.Type.ByteSize])
	return nil
}
