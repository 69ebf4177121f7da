package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/lang/ast"
)

func TestParseSimpleFunction(t *testing.T) {
	prog, errs := Parse("t", []byte(`
float add(float a, float b) {
	return a + b;
}
`))
	require.Empty(t, errs)
	require.Len(t, prog.Stmts, 1)

	fd, ok := prog.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fd.Name)
	require.Equal(t, "float", fd.RetName)
	require.Len(t, fd.Args, 2)
	require.Equal(t, "a", fd.Args[0].Name)
	require.Equal(t, "float", fd.Args[0].TypeName)
	require.Len(t, fd.Body, 1)

	ret, ok := fd.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.X.(*ast.BinaryExpr)
	require.True(t, ok)
	_, ok = bin.X.(*ast.Ident)
	require.True(t, ok)
}

func TestParseForwardDecl(t *testing.T) {
	prog, errs := Parse("t", []byte(`void noop();`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	require.Equal(t, "", fd.RetName)
	require.Nil(t, fd.Body)
}

func TestParseIfElseChain(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	if (a < b) {
		return;
	} else if (a == b) {
		return;
	} else {
		return;
	}
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	ifs := fd.Body[0].(*ast.IfStmt)
	require.Len(t, ifs.Elses, 2)
	require.NotNil(t, ifs.Elses[0].Cond)
	require.Nil(t, ifs.Elses[1].Cond)
}

func TestParseWhileLoop(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	while (x < 10) {
		x = x + 1;
	}
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	ws, ok := fd.Body[0].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, ws.Body, 1)
}

func TestParseTreeModifierStmt(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	node { 1.0, 2.0, "label" };
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	tm, ok := fd.Body[0].(*ast.TreeModifierStmt)
	require.True(t, ok)
	require.Equal(t, "node", tm.Var.Name)
	require.Len(t, tm.Values, 3)
}

func TestParseCallAndIndexAndSelector(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	a = arr[0].xyz;
	b = scale(1.0, 2.0);
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	require.Len(t, fd.Body, 2)

	assign1 := fd.Body[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	sel, ok := assign1.Y.(*ast.SelectorExpr)
	require.True(t, ok)
	require.Equal(t, "xyz", sel.Sel)
	_, ok = sel.X.(*ast.IndexExpr)
	require.True(t, ok)

	assign2 := fd.Body[1].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	call, ok := assign2.Y.(*ast.CallExpr)
	require.True(t, ok)
	require.Equal(t, "scale", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseExplicitCast(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	a = (float)x;
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	assign := fd.Body[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	cast, ok := assign.Y.(*ast.CastExpr)
	require.True(t, ok)
	require.Equal(t, "float", cast.TypeName)
}

func TestParseParenthesizedExpr(t *testing.T) {
	prog, errs := Parse("t", []byte(`
void f() {
	a = (b + c) * d;
}
`))
	require.Empty(t, errs)
	fd := prog.Stmts[0].(*ast.FuncDecl)
	assign := fd.Body[0].(*ast.ExprStmt).X.(*ast.BinaryExpr)
	mul, ok := assign.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	_, ok = mul.X.(*ast.BinaryExpr)
	require.True(t, ok, "left operand of * should be the parenthesized b + c")
}

func TestParseStructAndEnumDecl(t *testing.T) {
	prog, errs := Parse("t", []byte(`
struct Point {
	float x;
	float y;
};
enum Color {
	RED, GREEN, BLUE
};
`))
	require.Empty(t, errs)
	require.Len(t, prog.Stmts, 2)

	sd, ok := prog.Stmts[0].(*ast.StructDecl)
	require.True(t, ok)
	require.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Fields, 2)

	ed, ok := prog.Stmts[1].(*ast.EnumDecl)
	require.True(t, ok)
	require.Equal(t, []string{"RED", "GREEN", "BLUE"}, ed.Enumerants)
}

func TestParseSyntaxErrorReported(t *testing.T) {
	_, errs := Parse("t", []byte(`void f( { }`))
	require.NotEmpty(t, errs)
}
