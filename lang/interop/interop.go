// Package interop implements the host-facing surface that sits above a
// compiled assembly and a running lang/vm.State: intrinsic function
// registration, object-property dispatch, and the global/function bind
// point protocol a host uses to read and drive a script without
// depending on lang/canon or lang/vm directly.
package interop

import (
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/vm"
)

// ObjectHandle is a typed index into a running state's heap slot table,
// re-exported so host code never needs to import lang/vm directly.
type ObjectHandle = vm.ObjectHandle

// PropertyAccessor dispatches ReadObjProp/WriteObjProp to host state. See
// vm.PropertyAccessor for the full contract; it lives there because vm
// cannot import interop without a cycle.
type PropertyAccessor = vm.PropertyAccessor

// Runtime bundles a compiled assembly, the symbol table it was built
// against, and one running VM state, giving a host everything it needs
// to look up bind points and drive execution without reaching into
// lang/canon or lang/vm itself.
type Runtime struct {
	Table   *symbol.Table
	Asm     *canon.Assembly
	State   *vm.State
	Globals *GlobalTable
}

// NewRuntime wraps an already-compiled assembly and symbol table with a
// fresh, uninitialized VM state.
func NewRuntime(tbl *symbol.Table, asm *canon.Assembly) *Runtime {
	return &Runtime{Table: tbl, Asm: asm, State: vm.New(), Globals: NewGlobalTable()}
}

// SetProperties installs the host's object-property callback.
func (r *Runtime) SetProperties(p PropertyAccessor) { r.State.Props = p }
