package vm

import "github.com/voxelforge/blockscript/lang/canon"

// IntrinsicContext is the buffer-based calling convention an intrinsic
// callback sees: the input buffer is the concatenation of the caller's
// argument operands in declaration order, and Out is a 16-byte buffer
// (the width of the RET register) where the callback writes its return
// value, if any; all of Out is copied into RET afterwards. State gives the callback heap lookups (for dereferencing
// string/object-handle arguments) and the running script's Logger.
type IntrinsicContext struct {
	In    []byte
	Out   []byte
	State *State
}

// IntrinsicFunc is a host-registered function with no BlockScript body.
// FunGo invokes it directly in place of jumping into a canon.Assembly
// block: no frame is pushed, and the callback's error (if any) aborts
// the step loop exactly like a runtime error from a canonical
// instruction.
type IntrinsicFunc func(ctx *IntrinsicContext) error

// callIntrinsic gathers in.Args into a contiguous buffer and invokes the
// registered callback, surfacing an unregistered name as stack
// corruption (the builder/canonizer should never emit a FunGo naming an
// intrinsic that was not declared).
func (s *State) callIntrinsic(in canon.FunGo) error {
	fn, ok := s.Intrinsics[in.Target]
	if !ok {
		return &RuntimeError{Op: "fungo", Err: ErrStackCorruption}
	}
	inBuf := make([]byte, 0, len(in.Args)*4)
	for _, a := range in.Args {
		inBuf = append(inBuf, s.readOperand(a, 4)...)
	}
	ctx := &IntrinsicContext{In: inBuf, Out: make([]byte, 16), State: s}
	if err := fn(ctx); err != nil {
		return &RuntimeError{Op: "intrinsic:" + in.Target, Err: err}
	}
	copy(s.Reg.RET[:], ctx.Out)
	return nil
}
