package vm

import "github.com/voxelforge/blockscript/lang/symbol"

// ObjectHandle is a typed index into the VM's heap slot table, replacing
// a raw host pointer at the instruction level: ReadObjProp/WriteObjProp
// carry one of these, never a void pointer, so the heap slot table can
// validate the handle's registered type on every use.
type ObjectHandle int32

// PropertyAccessor dispatches object-reference property reads and writes
// to host state. A type descriptor of Kind == KindObjectRef names its
// property list at compile time; PropIndex below is that list's index,
// resolved by lang/builder.
//
// Implementations model the reference engine's
// "(state, object-handle, property-node) -> pointer-to-property-bytes"
// callback as a capability interface instead of a raw function pointer,
// per the corresponding design note.
type PropertyAccessor interface {
	// PropertyBytes returns the current bytes of object handle obj's
	// property propIndex, or ok == false if the property or handle is
	// invalid (surfaced by the VM as ErrNullProperty).
	PropertyBytes(obj ObjectHandle, propIndex int) (data []byte, ok bool)

	// SetPropertyBytes writes data to object handle obj's property
	// propIndex, returning false under the same invalid conditions.
	SetPropertyBytes(obj ObjectHandle, propIndex int, data []byte) (ok bool)
}

// HeapSlotOf resolves handle to its registered pointer and type, or ok ==
// false if handle does not name a live slot.
func (s *State) HeapSlotOf(handle ObjectHandle) (slot HeapSlot, ok bool) {
	if handle < 0 || int(handle) >= s.heap.Len() {
		return HeapSlot{}, false
	}
	return *s.heap.At(int(handle)), true
}

// RegisterHeapObject stores ptr (borrowed from the host) in the heap slot
// table under typ, returning the handle to reference it by.
func (s *State) RegisterHeapObject(ptr any, typ *symbol.Type) ObjectHandle {
	slot := s.heap.PushEmpty()
	slot.Ptr = ptr
	slot.Type = typ
	return ObjectHandle(s.heap.Len() - 1)
}
