package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/lang/canon"
)

func stackOp(off, size int) canon.Operand {
	return canon.Operand{Kind: canon.OperandStack, Offset: off, Size: size}
}

func constOp(idx int) canon.Operand {
	return canon.Operand{Kind: canon.OperandConst, Const: idx, Size: 4}
}

func regOp(name string) canon.Operand {
	return canon.Operand{Kind: canon.OperandReg, Reg: name, Size: 4}
}

func TestRunIntAddAndReturn(t *testing.T) {
	fn := &canon.Function{
		Name:       "answer",
		FrameSize:  8,
		EntryLabel: "entry",
		Constants:  []canon.Constant{{IntVal: 40}, {IntVal: 2}},
		Blocks: []*canon.Block{{
			Label: "entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 8},
				canon.ALU{Dst: stackOp(0, 4), Lhs: constOp(0), Rhs: constOp(1), Fn: canon.ALUAdd, Engine: canon.EngineInt},
				canon.Move{Dst: regOp("RET"), Src: stackOp(0, 4)},
				canon.PopFrame{},
				canon.Ret{HasValue: true},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(fn))

	st := New()
	st.Initialize(fn)
	require.NoError(t, Run(asm, st))

	got := int32(getU32(st.Reg.RET[:4]))
	require.Equal(t, int32(42), got)
}

func TestRunFunctionCall(t *testing.T) {
	callee := &canon.Function{
		Name:       "double",
		FrameSize:  4,
		EntryLabel: "double_entry",
		Constants:  []canon.Constant{{IntVal: 2}},
		Blocks: []*canon.Block{{
			Label: "double_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 4},
				canon.ALU{Dst: regOp("RET"), Lhs: constOp(0), Rhs: constOp(0), Fn: canon.ALUAdd, Engine: canon.EngineInt},
				canon.PopFrame{},
				canon.Ret{HasValue: true},
			},
		}},
	}
	caller := &canon.Function{
		Name:       "main",
		FrameSize:  4,
		EntryLabel: "main_entry",
		Blocks: []*canon.Block{{
			Label: "main_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 4},
				canon.FunGo{Target: "double"},
				canon.PopFrame{},
				canon.Ret{HasValue: true},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(callee))
	require.NoError(t, asm.Add(caller))

	st := New()
	st.Initialize(caller)
	require.NoError(t, Run(asm, st))

	got := int32(getU32(st.Reg.RET[:4]))
	require.Equal(t, int32(4), got)
	require.Equal(t, -1, st.Nesting())
}

func TestRunDivideByZeroReturnsError(t *testing.T) {
	fn := &canon.Function{
		Name:       "boom",
		FrameSize:  4,
		EntryLabel: "entry",
		Constants:  []canon.Constant{{IntVal: 1}, {IntVal: 0}},
		Blocks: []*canon.Block{{
			Label: "entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 4},
				canon.ALU{Dst: regOp("RET"), Lhs: constOp(0), Rhs: constOp(1), Fn: canon.ALUDiv, Engine: canon.EngineInt},
				canon.Ret{HasValue: true},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(fn))

	st := New()
	st.Initialize(fn)
	err := Run(asm, st)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestExitStopsStepping(t *testing.T) {
	fn := &canon.Function{
		Name:       "halt",
		EntryLabel: "entry",
		Blocks: []*canon.Block{{
			Label:  "entry",
			Instrs: []canon.Instr{canon.PushFrame{Size: 0}, canon.Exit{}},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(fn))

	st := New()
	st.Initialize(fn)
	require.NoError(t, Run(asm, st))
}

func TestStackCorruptionPanics(t *testing.T) {
	callee := &canon.Function{
		Name:       "inner",
		FrameSize:  0,
		EntryLabel: "inner_entry",
		Blocks: []*canon.Block{{
			Label: "inner_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 0},
				canon.Ret{HasValue: false},
			},
		}},
	}
	caller := &canon.Function{
		Name:       "outer",
		FrameSize:  0,
		EntryLabel: "outer_entry",
		Blocks: []*canon.Block{{
			Label: "outer_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 0},
				canon.FunGo{Target: "inner"},
				canon.Ret{HasValue: false},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(callee))
	require.NoError(t, asm.Add(caller))

	st := New()
	st.Initialize(caller)

	// step through the caller's PushFrame, the FunGo jump, and the callee's
	// own PushFrame (which writes the frame header), then corrupt it.
	for i := 0; i < 3; i++ {
		_, err := st.Step(asm)
		require.NoError(t, err)
	}
	headerOff := st.Reg.SBP - frameHeaderSize
	st.ram[headerOff+12] = 0 // stomp the sentinel

	require.Panics(t, func() {
		for {
			if _, err := st.Step(asm); err != nil {
				break
			}
		}
	})
}
