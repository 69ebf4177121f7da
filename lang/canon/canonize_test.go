package canon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/internal/strpool"
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

func TestCanonizeSimpleReturn(t *testing.T) {
	tbl := symbol.NewTable()
	pool := strpool.New()
	frameIdx := tbl.PushFrame(-1, symbol.CategoryFunctionBody)

	retImm := &ast.ImmExpr{IntVal: 42}
	decl := &ast.FuncDecl{
		Name:    "answer",
		RetName: "int",
		RetType: tbl.Types.Int,
		Body: []ast.Stmt{
			&ast.ReturnStmt{X: retImm},
		},
	}

	fn, err := Canonize(tbl, pool, frameIdx, decl)
	require.NoError(t, err)
	require.Equal(t, "answer", fn.Name)
	require.NotEmpty(t, fn.Blocks)
	require.Equal(t, fn.Blocks[0].Instrs[0].Op(), OpPushFrame)

	asm := NewAssembly()
	require.NoError(t, asm.Add(fn))
	out := DasmString(asm)
	require.True(t, strings.Contains(out, "function: answer"))
	require.True(t, strings.Contains(out, "ret"))
}

func TestCanonizeWhileLoop(t *testing.T) {
	tbl := symbol.NewTable()
	pool := strpool.New()
	frameIdx := tbl.PushFrame(-1, symbol.CategoryFunctionBody)

	cond := &ast.Ident{Name: "running", Frame: frameIdx, Offset: 0}
	cond.SetResolvedType(tbl.Types.Int)
	decl := &ast.FuncDecl{
		Name: "loop",
		Body: []ast.Stmt{
			&ast.WhileStmt{Cond: cond, Body: nil},
		},
	}

	fn, err := Canonize(tbl, pool, frameIdx, decl)
	require.NoError(t, err)

	var labels []string
	for _, b := range fn.Blocks {
		labels = append(labels, b.Label)
	}
	require.Contains(t, labels, "entry_loop")
}

func TestCanonizeBinaryExprEmitsALU(t *testing.T) {
	tbl := symbol.NewTable()
	pool := strpool.New()
	frameIdx := tbl.PushFrame(-1, symbol.CategoryFunctionBody)

	a := &ast.Ident{Name: "a", Frame: frameIdx, Offset: 0}
	a.SetResolvedType(tbl.Types.Float)
	b := &ast.Ident{Name: "b", Frame: frameIdx, Offset: 4}
	b.SetResolvedType(tbl.Types.Float)
	sum := &ast.BinaryExpr{X: a, Op: token.PLUS, Y: b}
	sum.SetResolvedType(tbl.Types.Float)

	decl := &ast.FuncDecl{
		Name:    "add",
		RetName: "float",
		RetType: tbl.Types.Float,
		Body:    []ast.Stmt{&ast.ReturnStmt{X: sum}},
	}

	fn, err := Canonize(tbl, pool, frameIdx, decl)
	require.NoError(t, err)

	var found *ALU
	for _, instr := range fn.Blocks[0].Instrs {
		if alu, ok := instr.(ALU); ok {
			found = &alu
		}
	}
	require.NotNil(t, found)
	require.Equal(t, ALUAdd, found.Fn)
	require.Equal(t, EngineFloat, found.Engine)
}

func TestCanonizeStructFieldRoundTrips(t *testing.T) {
	tbl := symbol.NewTable()
	pool := strpool.New()
	frameIdx := tbl.PushFrame(-1, symbol.CategoryFunctionBody)

	pointType, err := tbl.Types.CreateStruct("Point", []string{"a", "b"}, []*symbol.Type{tbl.Types.Int, tbl.Types.Float})
	require.NoError(t, err)

	p := &ast.Ident{Name: "p", Frame: frameIdx, Offset: 0}
	p.SetResolvedType(pointType)

	fieldA := &ast.SelectorExpr{X: p, Sel: "a", FieldIndex: 0}
	fieldA.SetResolvedType(tbl.Types.Int)
	assign := &ast.BinaryExpr{X: fieldA, Op: token.EQ, Y: &ast.ImmExpr{IntVal: 7}}
	assign.SetResolvedType(tbl.Types.Int)

	decl := &ast.FuncDecl{
		Name: "setField",
		Body: []ast.Stmt{&ast.ExprStmt{X: assign}},
	}

	fn, err := Canonize(tbl, pool, frameIdx, decl)
	require.NoError(t, err)

	var save *Save
	for _, instr := range fn.Blocks[0].Instrs {
		if s, ok := instr.(Save); ok {
			save = &s
		}
		if _, ok := instr.(ReadObjProp); ok {
			t.Fatal("struct field assignment must not emit ReadObjProp")
		}
		if _, ok := instr.(WriteObjProp); ok {
			t.Fatal("struct field assignment must not emit WriteObjProp")
		}
	}
	require.NotNil(t, save)
	require.Equal(t, OperandStack, save.Dst.Kind)
	require.Equal(t, 0, save.Dst.Offset) // field "a" is at offset 0 within p
}

func TestCanonizeVectorSwizzleReadsComponent(t *testing.T) {
	tbl := symbol.NewTable()
	pool := strpool.New()
	frameIdx := tbl.PushFrame(-1, symbol.CategoryFunctionBody)

	v := &ast.Ident{Name: "v", Frame: frameIdx, Offset: 0}
	v.SetResolvedType(tbl.Types.Float3)

	single := &ast.SelectorExpr{X: v, Sel: "y"}
	single.SetResolvedType(tbl.Types.Float)

	decl := &ast.FuncDecl{
		Name:    "readY",
		RetName: "float",
		RetType: tbl.Types.Float,
		Body:    []ast.Stmt{&ast.ReturnStmt{X: single}},
	}

	fn, err := Canonize(tbl, pool, frameIdx, decl)
	require.NoError(t, err)
	for _, instr := range fn.Blocks[0].Instrs {
		if _, ok := instr.(ReadObjProp); ok {
			t.Fatal("vector swizzle must not emit ReadObjProp")
		}
	}
	// v.y is the second float component, 4 bytes into v's storage.
	moveToRet, ok := fn.Blocks[0].Instrs[1].(Move)
	require.True(t, ok)
	require.Equal(t, 4, moveToRet.Src.Offset)
}

func TestIsAssignOp(t *testing.T) {
	e := &ast.BinaryExpr{Op: token.EQ}
	require.True(t, isAssignOp(e))
	e.Op = token.PLUS
	require.False(t, isAssignOp(e))
}
