package vm

import "github.com/voxelforge/blockscript/lang/canon"

// GlobalBytes returns a copy of size bytes at offset relative to the
// bootstrap frame base (Reg.G), for lang/interop's ReadGlobalValue.
func (s *State) GlobalBytes(offset, size int) []byte {
	buf := make([]byte, size)
	copy(buf, s.ram[s.Reg.G+offset:s.Reg.G+offset+size])
	return buf
}

// SetGlobalBytes writes data at offset relative to the bootstrap frame
// base (Reg.G), for lang/interop's WriteGlobalValue.
func (s *State) SetGlobalBytes(offset int, data []byte) {
	copy(s.ram[s.Reg.G+offset:s.Reg.G+offset+len(data)], data)
}

// CallFunction invokes fn as a host-initiated call, the mechanism behind
// lang/interop's ExecuteFunction: it is only valid when s is at nesting
// zero (the global frame, no script call in progress), pushes fn's own
// frame exactly as a script-side FunGo would, copies argData into the
// new frame's argument slots in declaration order, runs until control
// returns to the nesting level it started from, and copies up to
// len(out) bytes of the RET register into out.
//
// Unlike FunGo, there is no caller instruction stream to resume into:
// CallFunction restores the state's own current position as the
// "caller", so a second host-initiated call can follow once this one
// returns. A stack corruption panic raised while stepping is recovered
// into the returned error unless the blockscript_strict build tag is set.
func (s *State) CallFunction(asm *canon.Assembly, fn *canon.Function, argData [][]byte, out []byte) (err error) {
	if s.nesting != 0 {
		return &RuntimeError{Op: "executefunction", Err: ErrHostReentrant}
	}
	defer recoverStackCorruption(&err)
	s.pending = &pendingCall{
		callerFn:    s.curFn,
		callerBlock: s.Reg.Block,
		resumeIP:    s.Reg.IP,
		callerSBP:   s.Reg.SBP,
	}
	s.curFn = fn
	s.Reg.Block = fn.EntryLabel
	s.Reg.IP = 0

	// Step through the callee's own leading PushFrame so its argument
	// slots exist before writing into them.
	if _, err := s.Step(asm); err != nil {
		return err
	}
	offset := 0
	for i, data := range argData {
		t := fn.ArgTypes[i]
		copy(s.ram[s.Reg.SBP+offset:s.Reg.SBP+offset+len(data)], data)
		offset += t.ByteSize
	}

	for {
		_, err := s.Step(asm)
		if err != nil {
			return err
		}
		if s.nesting == 0 {
			break
		}
	}
	copy(out, s.Reg.RET[:len(out)])
	return nil
}
