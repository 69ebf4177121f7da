package builder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/parser"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

func TestImplicitIntToFloatPromotion(t *testing.T) {
	tbl := symbol.NewTable()
	b := New(tbl, nil)

	decl := &ast.FuncDecl{
		Name:    "mix",
		RetName: "float",
		Body: []ast.Stmt{
			&ast.ReturnStmt{X: &ast.BinaryExpr{
				X:  &ast.ImmExpr{IntVal: 1},
				Op: token.PLUS,
				Y:  &ast.ImmExpr{FloatVal: 2, IsFloat: true},
			}},
		},
	}
	prog := &ast.Program{Stmts: []ast.Stmt{decl}}

	errs := b.Build(prog)
	require.Equal(t, 0, errs)

	ret := decl.Body[0].(*ast.ReturnStmt)
	bin := ret.X.(*ast.BinaryExpr)
	require.Equal(t, tbl.Types.Float, bin.ResolvedType())
	_, ok := bin.X.(*ast.CastExpr)
	require.True(t, ok, "int operand should be wrapped in an implicit cast to float")
}

func TestUndeclaredIdentifierReportsError(t *testing.T) {
	tbl := symbol.NewTable()
	var errs []string
	b := New(tbl, ListenerFunc(func(_ int, msg, _ string) { errs = append(errs, msg) }))

	decl := &ast.FuncDecl{
		Name: "f",
		Body: []ast.Stmt{
			&ast.ExprStmt{X: &ast.Ident{Name: "nope"}},
		},
	}
	prog := &ast.Program{Stmts: []ast.Stmt{decl}}

	require.Equal(t, 1, b.Build(prog))
	require.Len(t, errs, 1)
}

func TestOverloadResolution(t *testing.T) {
	tbl := symbol.NewTable()
	_, err := tbl.Funcs.Declare("scale", []*symbol.Type{tbl.Types.Float, tbl.Types.Float}, tbl.Types.Float, symbol.DeclIntrinsic)
	require.NoError(t, err)
	_, err = tbl.Funcs.Declare("scale", []*symbol.Type{tbl.Types.Float4, tbl.Types.Float}, tbl.Types.Float4, symbol.DeclIntrinsic)
	require.NoError(t, err)

	b := New(tbl, nil)
	call := &ast.CallExpr{
		Name: "scale",
		Args: []ast.Expr{
			&ast.ImmExpr{FloatVal: 1, IsFloat: true},
			&ast.ImmExpr{FloatVal: 2, IsFloat: true},
		},
	}
	decl := &ast.FuncDecl{Name: "g", Body: []ast.Stmt{&ast.ExprStmt{X: call}}}
	prog := &ast.Program{Stmts: []ast.Stmt{decl}}

	require.Equal(t, 0, b.Build(prog))
	require.Equal(t, tbl.Types.Float, call.ResolvedType())
}

func TestForwardDeclarationBindsLaterDefinition(t *testing.T) {
	src := `
int helper(int x);

int main(int x) {
	return helper(x);
}

int helper(int x) {
	return x;
}
`
	prog, errs := parser.Parse("test.bs", []byte(src))
	require.Empty(t, errs)

	tbl := symbol.NewTable()
	b := New(tbl, nil)
	require.Equal(t, 0, b.Build(prog))

	fwd := prog.Stmts[0].(*ast.FuncDecl)
	def := prog.Stmts[2].(*ast.FuncDecl)
	require.Equal(t, fwd.DescID, def.DescID, "forward declaration and its definition must share one descriptor")
}

func TestForwardDeclarationNeverDefinedIsAnError(t *testing.T) {
	src := `
int helper(int x);

int main(int x) {
	return helper(x);
}
`
	prog, errs := parser.Parse("test.bs", []byte(src))
	require.Empty(t, errs)

	tbl := symbol.NewTable()
	var msgs []string
	b := New(tbl, ListenerFunc(func(_ int, msg, _ string) { msgs = append(msgs, msg) }))
	require.NotEqual(t, 0, b.Build(prog))
	require.Contains(t, msgs, `function "helper" declared but never defined`)
}
