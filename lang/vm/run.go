package vm

import (
	"time"

	"github.com/voxelforge/blockscript/lang/canon"
)

// Run drives s to completion by calling Step until it reports no more
// work (Exit, or a Ret executed at nesting zero, which sets nesting to -1)
// or an error occurs. An error returned by Step is also written to
// s.Logger when one is set. A stack corruption panic raised by Step is
// recovered into the returned error unless the blockscript_strict build
// tag is set.
func Run(asm *canon.Assembly, s *State) (err error) {
	defer recoverStackCorruption(&err)
	for {
		cont, err := s.Step(asm)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Printf("%v", err)
			}
			return err
		}
		if !cont {
			return nil
		}
	}
}

func (s *State) currentBlock() (*canon.Block, error) {
	b := s.curFn.Blocks[0]
	for _, cand := range s.curFn.Blocks {
		if cand.Label == s.Reg.Block {
			b = cand
			break
		}
	}
	if b.Label != s.Reg.Block {
		return nil, &RuntimeError{Op: "dispatch", Err: ErrStackCorruption}
	}
	return b, nil
}

// Step executes exactly one canonical instruction, returning false once
// the VM should stop (Exit, or a Ret executed at nesting zero, which sets
// nesting to -1) or a non-nil error. It enforces the optional step/time budget
// before every instruction, mirroring machine.Thread's cooperative
// cancellation checks.
func (s *State) Step(asm *canon.Assembly) (cont bool, err error) {
	if s.steps == 0 {
		s.started = time.Now()
	}
	s.steps++
	if s.MaxSteps > 0 && s.steps > s.MaxSteps {
		return false, &RuntimeError{Op: "step", Err: ErrBudgetExceeded}
	}
	if s.TimeBudget > 0 && time.Since(s.started) > s.TimeBudget {
		return false, &RuntimeError{Op: "step", Err: ErrBudgetExceeded}
	}
	if s.Ctx != nil {
		select {
		case <-s.Ctx.Done():
			return false, &RuntimeError{Op: "step", Err: s.Ctx.Err()}
		default:
		}
	}

	block, err := s.currentBlock()
	if err != nil {
		return false, err
	}
	if s.Reg.IP < 0 || s.Reg.IP >= len(block.Instrs) {
		return false, &RuntimeError{Op: "dispatch", Err: ErrStackCorruption}
	}
	instr := block.Instrs[s.Reg.IP]
	next := s.Reg.IP + 1

	switch in := instr.(type) {
	case canon.Move:
		s.writeOperand(in.Dst, s.readOperand(in.Src, in.Dst.Size))

	case canon.Save:
		s.writeOperand(in.Dst, s.readOperand(in.Src, in.Dst.Size))

	case canon.Load:
		s.writeOperand(in.Dst, s.readOperand(in.Src, in.Dst.Size))

	case canon.LoadAddr:
		addr := s.Reg.SBP + in.Src.Offset
		buf := make([]byte, 4)
		putU32(buf, uint32(addr))
		s.writeOperand(in.Dst, buf)

	case canon.SaveToAddr:
		addr := int(getU32(s.readOperand(in.AddrReg, 4)))
		data := s.readOperand(in.Src, in.Src.Size)
		copy(s.ram[addr:addr+len(data)], data)

	case canon.CopyToAddr:
		dst := int(getU32(s.readOperand(in.DstAddrReg, 4)))
		src := int(getU32(s.readOperand(in.SrcAddrReg, 4)))
		copy(s.ram[dst:dst+in.Size], s.ram[src:src+in.Size])

	case canon.InsertDataToHeap:
		_ = in // host object registration is driven by interop, not by script code

	case canon.Cast:
		if err := s.execCast(in); err != nil {
			return false, err
		}

	case canon.ALU:
		if err := s.execALU(in); err != nil {
			return false, err
		}

	case canon.ReadObjProp:
		if err := s.execReadObjProp(in); err != nil {
			return false, err
		}

	case canon.WriteObjProp:
		if err := s.execWriteObjProp(in); err != nil {
			return false, err
		}

	case canon.FunGo:
		if in.IsIntrinsic {
			if err := s.callIntrinsic(in); err != nil {
				return false, err
			}
			break
		}
		callee, ok := asm.ByName[in.Target]
		if !ok {
			return false, &RuntimeError{Op: "fungo", Err: ErrStackCorruption}
		}
		s.pending = &pendingCall{
			callerFn:    s.curFn,
			callerBlock: s.Reg.Block,
			resumeIP:    next,
			callerSBP:   s.Reg.SBP,
		}
		s.curFn = callee
		s.Reg.Block = callee.EntryLabel
		s.Reg.IP = 0
		return true, nil

	case canon.PushFrame:
		s.execPushFrame(in)

	case canon.PopFrame:
		// scoped if/while frames are not yet emitted by the canonizer;
		// the matching pop for a function's own frame happens in Ret.

	case canon.Ret:
		s.execRet()
		return s.nesting >= 0, nil

	case canon.Jmp:
		s.Reg.Block = in.Target
		s.Reg.IP = 0
		return true, nil

	case canon.JmpCond:
		val := getU32(s.readOperand(in.Cond, 4))
		taken := val != 0
		if in.OnFalse {
			taken = !taken
		}
		if taken {
			s.Reg.Block = in.Target
			s.Reg.IP = 0
			return true, nil
		}

	case canon.Exit:
		return false, nil

	default:
		return false, &RuntimeError{Op: "dispatch", Err: ErrStackCorruption}
	}

	s.Reg.IP = next
	return true, nil
}

func (s *State) execReadObjProp(in canon.ReadObjProp) error {
	if s.Props == nil {
		return &RuntimeError{Op: "readobjprop", Err: ErrNullProperty}
	}
	handle := ObjectHandle(int32(getU32(s.readOperand(in.ObjSlot, 4))))
	data, ok := s.Props.PropertyBytes(handle, in.PropIndex)
	if !ok {
		// a null property pointer reads as zeros, per spec.
		s.writeOperand(in.Dst, make([]byte, max(in.Dst.Size, 4)))
		return &RuntimeError{Op: "readobjprop", Err: ErrNullProperty}
	}
	s.writeOperand(in.Dst, data)
	return nil
}

func (s *State) execWriteObjProp(in canon.WriteObjProp) error {
	if s.Props == nil {
		return &RuntimeError{Op: "writeobjprop", Err: ErrNullProperty}
	}
	handle := ObjectHandle(int32(getU32(s.readOperand(in.ObjSlot, 4))))
	data := s.readOperand(in.Src, in.Src.Size)
	if ok := s.Props.SetPropertyBytes(handle, in.PropIndex, data); !ok {
		return &RuntimeError{Op: "writeobjprop", Err: ErrNullProperty}
	}
	return nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (s *State) execCast(in canon.Cast) error {
	switch in.Kind {
	case canon.CastIntToFloat:
		v := int32(getU32(s.readOperand(in.Src, 4)))
		s.writeOperand(in.Dst, floatsToBytes([]float32{float32(v)}))
	case canon.CastScalarToVector:
		v := bytesToFloats(s.readOperand(in.Src, 4), 1)[0]
		lanes := make([]float32, in.Dims)
		for i := range lanes {
			lanes[i] = v
		}
		s.writeOperand(in.Dst, floatsToBytes(lanes))
	}
	return nil
}

func (s *State) execPushFrame(in canon.PushFrame) {
	if s.nesting == -1 {
		s.nesting = 0
		base := s.growRAM(in.Size)
		s.Reg.G = base
		s.Reg.SBP = base
		s.Reg.ESP = base + in.Size
		return
	}
	base := s.growRAM(frameHeaderSize + in.Size)
	s.writeFrameHeader(base, s.pending.callerSBP, s.pending.resumeIP)
	s.calls = append(s.calls, callFrame{
		callerFn:    s.pending.callerFn,
		callerBlock: s.pending.callerBlock,
		resumeIP:    s.pending.resumeIP,
		callerSBP:   s.pending.callerSBP,
	})
	s.pending = nil
	s.Reg.SBP = base + frameHeaderSize
	s.Reg.ESP = s.Reg.SBP + in.Size
	s.nesting++
}

func (s *State) execRet() {
	if s.nesting <= 0 {
		// returning from the global/outermost frame: nothing to restore,
		// just signal the caller to stop stepping.
		s.nesting = -1
		return
	}
	s.checkFrameHeader() // panics on sentinel mismatch
	top := s.calls[len(s.calls)-1]
	s.calls = s.calls[:len(s.calls)-1]

	s.shrinkRAMTo(s.Reg.SBP - frameHeaderSize)
	s.Reg.SBP = top.callerSBP
	s.curFn = top.callerFn
	s.Reg.Block = top.callerBlock
	s.Reg.IP = top.resumeIP
	s.nesting--
}
