package interop

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/canon"
)

// FunctionID is the opaque small integer a host uses to call a compiled
// function after compilation, per spec.md §4.8's bind-point pattern.
type FunctionID int

// Start brings r's VM state up to nesting zero (the global frame),
// sized to hold every global declared on r.Globals before this call.
// Declare every global before calling Start; declarations afterward do
// not grow the already-pushed bootstrap frame.
func (r *Runtime) Start() error {
	bootstrap := &canon.Function{
		Name:       "$bootstrap",
		FrameSize:  r.Globals.Size(),
		EntryLabel: "$bootstrap_entry",
		Blocks: []*canon.Block{{
			Label:  "$bootstrap_entry",
			Instrs: []canon.Instr{canon.PushFrame{Size: r.Globals.Size()}},
		}},
	}
	r.State.Initialize(bootstrap)
	_, err := r.State.Step(r.Asm)
	return err
}

// GetFunctionBindPoint resolves name to the unique compiled function
// whose argument types (by source type name, in order) match
// argTypeNames, returning its FunctionID and true, or ok == false if
// zero or more than one match.
func (r *Runtime) GetFunctionBindPoint(name string, argTypeNames []string) (FunctionID, bool) {
	for i, fn := range r.Asm.Functions {
		if fn.Name != name || len(fn.ArgTypes) != len(argTypeNames) {
			continue
		}
		match := true
		for j, t := range fn.ArgTypes {
			if t.Name != argTypeNames[j] {
				match = false
				break
			}
		}
		if match {
			return FunctionID(i), true
		}
	}
	return 0, false
}

// ExecuteFunction calls the function bound to id, validating inBuf/outBuf
// against the function's declared argument and return sizes, and running
// the VM until it returns. It is a host-contract violation to call this
// while the state is not at nesting zero (a script call already in
// progress); the precondition is spec.md §4.8's "nested host-initiated
// calls are rejected".
func (r *Runtime) ExecuteFunction(id FunctionID, inBuf []byte, outBuf []byte) error {
	if int(id) < 0 || int(id) >= len(r.Asm.Functions) {
		return fmt.Errorf("interop: unknown function bind point %d", id)
	}
	fn := r.Asm.Functions[id]

	wantIn := 0
	for _, t := range fn.ArgTypes {
		wantIn += t.ByteSize
	}
	if len(inBuf) < wantIn {
		return fmt.Errorf("interop: input buffer too small for %q (need %d, got %d)", fn.Name, wantIn, len(inBuf))
	}
	if fn.RetType != nil && len(outBuf) < fn.RetType.ByteSize {
		return fmt.Errorf("interop: output buffer too small for %q (need %d, got %d)", fn.Name, fn.RetType.ByteSize, len(outBuf))
	}

	args := make([][]byte, len(fn.ArgTypes))
	offset := 0
	for i, t := range fn.ArgTypes {
		args[i] = inBuf[offset : offset+t.ByteSize]
		offset += t.ByteSize
	}
	return r.State.CallFunction(r.Asm, fn, args, outBuf)
}
