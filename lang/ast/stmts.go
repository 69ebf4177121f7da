package ast

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

type stmtBase struct{}

func (stmtBase) stmt() {}

// ExprStmt is an expression used as a statement (a call, or an
// assignment expression).
type ExprStmt struct {
	stmtBase
	X Expr
}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, "exprstmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }

// ReturnStmt is a return statement. X is nil for a bare "return;" in a
// void function.
type ReturnStmt struct {
	stmtBase
	Return token.Pos
	X      Expr
}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos) {
	if n.X == nil {
		return n.Return, n.Return
	}
	_, end = n.X.Span()
	return n.Return, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.X != nil {
		Walk(v, n.X)
	}
}

// ArgDecl is a single function argument declaration.
type ArgDecl struct {
	Name     string
	TypeName string
	NamePos  token.Pos

	// Assigned by the builder.
	Type   *symbol.Type
	Frame  int
	Offset int
}

// FuncDecl is a function declaration (and, when Body is non-nil, a
// definition).
type FuncDecl struct {
	stmtBase
	FuncPos  token.Pos
	Name     string
	Args     []*ArgDecl
	RetName  string // "" means void
	Body     []Stmt // nil for a forward declaration

	// Assigned by the builder.
	RetType *symbol.Type
	Frame   int
	DescID  int
}

func (n *FuncDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n.Name+"()", map[string]int{"args": len(n.Args), "body": len(n.Body)})
}
func (n *FuncDecl) Span() (start, end token.Pos) {
	if len(n.Body) == 0 {
		return n.FuncPos, n.FuncPos
	}
	_, end = n.Body[len(n.Body)-1].Span()
	return n.FuncPos, end
}
func (n *FuncDecl) Walk(v Visitor) {
	for _, s := range n.Body {
		Walk(v, s)
	}
}

// WhileStmt is a while loop.
type WhileStmt struct {
	stmtBase
	While token.Pos
	Cond  Expr
	Body  []Stmt
}

func (n *WhileStmt) Format(f fmt.State, verb rune) {
	format(f, verb, "while", map[string]int{"body": len(n.Body)})
}
func (n *WhileStmt) Span() (start, end token.Pos) {
	if len(n.Body) == 0 {
		_, end = n.Cond.Span()
	} else {
		_, end = n.Body[len(n.Body)-1].Span()
	}
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	for _, s := range n.Body {
		Walk(v, s)
	}
}

// ElseClause is one link of an if/else-if/else chain, following the
// original ElseTail/ElseIfTail split: Cond is nil for a plain trailing
// else.
type ElseClause struct {
	Cond Expr
	Body []Stmt
}

// IfStmt is an if/else-if/else statement.
type IfStmt struct {
	stmtBase
	If    token.Pos
	Cond  Expr
	Body  []Stmt
	Elses []*ElseClause
}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	format(f, verb, "if", map[string]int{"elses": len(n.Elses)})
}
func (n *IfStmt) Span() (start, end token.Pos) {
	end = n.If
	if len(n.Elses) > 0 {
		last := n.Elses[len(n.Elses)-1]
		if len(last.Body) > 0 {
			_, end = last.Body[len(last.Body)-1].Span()
		}
	} else if len(n.Body) > 0 {
		_, end = n.Body[len(n.Body)-1].Span()
	}
	return n.If, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	for _, s := range n.Body {
		Walk(v, s)
	}
	for _, e := range n.Elses {
		if e.Cond != nil {
			Walk(v, e.Cond)
		}
		for _, s := range e.Body {
			Walk(v, s)
		}
	}
}

// TreeModifierStmt sets a sequence of object properties on a variable in
// source order, e.g. "node { 1.0, 2.0, "label" };", the statement form of
// the original StmtTreeModifier.
type TreeModifierStmt struct {
	stmtBase
	Var    *Ident
	Values []Expr
	RBrace token.Pos
}

func (n *TreeModifierStmt) Format(f fmt.State, verb rune) {
	format(f, verb, "treemod "+n.Var.Name, map[string]int{"values": len(n.Values)})
}
func (n *TreeModifierStmt) Span() (start, end token.Pos) {
	start, _ = n.Var.Span()
	return start, n.RBrace
}
func (n *TreeModifierStmt) Walk(v Visitor) {
	Walk(v, n.Var)
	for _, e := range n.Values {
		Walk(v, e)
	}
}

// StructField is one field of a struct type definition.
type StructField struct {
	Name     string
	TypeName string
}

// StructDecl declares a struct type.
type StructDecl struct {
	stmtBase
	Pos    token.Pos
	Name   string
	Fields []StructField
}

func (n *StructDecl) Format(f fmt.State, verb rune) {
	format(f, verb, "struct "+n.Name, map[string]int{"fields": len(n.Fields)})
}
func (n *StructDecl) Span() (start, end token.Pos) { return n.Pos, n.Pos }
func (n *StructDecl) Walk(Visitor)                 {}

// EnumDecl declares an enum type.
type EnumDecl struct {
	stmtBase
	Pos        token.Pos
	Name       string
	Enumerants []string
}

func (n *EnumDecl) Format(f fmt.State, verb rune) {
	format(f, verb, "enum "+n.Name, map[string]int{"enumerants": len(n.Enumerants)})
}
func (n *EnumDecl) Span() (start, end token.Pos) { return n.Pos, n.Pos }
func (n *EnumDecl) Walk(Visitor)                 {}
