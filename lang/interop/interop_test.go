package interop

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/vm"
)

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func stackOp(off, size int) canon.Operand {
	return canon.Operand{Kind: canon.OperandStack, Offset: off, Size: size}
}

func regOp(name string) canon.Operand {
	return canon.Operand{Kind: canon.OperandReg, Reg: name, Size: 4}
}

func newTestRuntime(t *testing.T, fns ...*canon.Function) *Runtime {
	t.Helper()
	tbl := symbol.NewTable()
	asm := canon.NewAssembly()
	for _, fn := range fns {
		require.NoError(t, asm.Add(fn))
	}
	return NewRuntime(tbl, asm)
}

func TestExecuteFunctionCallsCompiledFunction(t *testing.T) {
	tbl := symbol.NewTable()
	add := &canon.Function{
		Name:       "add",
		ArgTypes:   []*symbol.Type{tbl.Types.Int, tbl.Types.Int},
		RetType:    tbl.Types.Int,
		FrameSize:  8,
		EntryLabel: "add_entry",
		Blocks: []*canon.Block{{
			Label: "add_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 8},
				canon.ALU{Dst: regOp("RET"), Lhs: stackOp(0, 4), Rhs: stackOp(4, 4), Fn: canon.ALUAdd, Engine: canon.EngineInt},
				canon.Ret{HasValue: true},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(add))
	r := NewRuntime(tbl, asm)
	require.NoError(t, r.Start())

	id, ok := r.GetFunctionBindPoint("add", []string{"int", "int"})
	require.True(t, ok)

	in := append(u32le(19), u32le(23)...)
	out := make([]byte, 4)
	require.NoError(t, r.ExecuteFunction(id, in, out))
	require.Equal(t, uint32(42), getU32(out))
}

func TestExecuteFunctionRejectsWrongBufferSize(t *testing.T) {
	tbl := symbol.NewTable()
	fn := &canon.Function{
		Name:       "needs_int",
		ArgTypes:   []*symbol.Type{tbl.Types.Int},
		RetType:    tbl.Types.Int,
		FrameSize:  4,
		EntryLabel: "entry",
		Blocks: []*canon.Block{{
			Label:  "entry",
			Instrs: []canon.Instr{canon.PushFrame{Size: 4}, canon.Ret{HasValue: true}},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(fn))
	r := NewRuntime(tbl, asm)
	require.NoError(t, r.Start())

	id, ok := r.GetFunctionBindPoint("needs_int", []string{"int"})
	require.True(t, ok)

	err := r.ExecuteFunction(id, []byte{1, 2}, make([]byte, 4))
	require.Error(t, err)
}

func TestGlobalReadWriteRoundTrips(t *testing.T) {
	r := newTestRuntime(t)
	tbl := r.Table
	id, err := r.Globals.Declare("score", tbl.Types.Int)
	require.NoError(t, err)
	require.NoError(t, r.Start())

	require.NoError(t, r.WriteGlobalValue(id, u32le(7)))
	out := make([]byte, 4)
	require.NoError(t, r.ReadGlobalValue(id, out))
	require.Equal(t, uint32(7), getU32(out))
}

func TestIntrinsicDispatchFromFunGo(t *testing.T) {
	tbl := symbol.NewTable()
	lib := symbol.NewLibrary("host")
	doubleFn := func(ctx *vm.IntrinsicContext) error {
		v := getU32(ctx.In[:4])
		copy(ctx.Out, u32le(v*2))
		return nil
	}
	require.NoError(t, CreateIntrinsicFunction(lib, "double", []string{"x"}, []*symbol.Type{tbl.Types.Int}, tbl.Types.Int, doubleFn))
	tbl.RegisterChild(lib.Table)

	caller := &canon.Function{
		Name:       "caller",
		FrameSize:  4,
		EntryLabel: "caller_entry",
		Constants:  []canon.Constant{{Type: tbl.Types.Int, IntVal: 21}},
		Blocks: []*canon.Block{{
			Label: "caller_entry",
			Instrs: []canon.Instr{
				canon.PushFrame{Size: 4},
				canon.Move{Dst: stackOp(0, 4), Src: canon.Operand{Kind: canon.OperandConst, Const: 0, Size: 4}},
				canon.FunGo{Target: "double", Args: []canon.Operand{stackOp(0, 4)}, IsIntrinsic: true},
				canon.Ret{HasValue: true},
			},
		}},
	}
	asm := canon.NewAssembly()
	require.NoError(t, asm.Add(caller))
	r := NewRuntime(tbl, asm)
	r.RegisterIntrinsic("double", doubleFn)
	require.NoError(t, r.Start())

	id, ok := r.GetFunctionBindPoint("caller", nil)
	require.True(t, ok)
	out := make([]byte, 4)
	require.NoError(t, r.ExecuteFunction(id, nil, out))
	require.Equal(t, uint32(42), getU32(out))
}
