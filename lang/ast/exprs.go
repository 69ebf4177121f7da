package ast

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/token"
)

// Ident is an identifier expression, referring to a local, argument, or
// global variable. Frame and Offset are assigned by the builder; Global
// is true for variables declared outside any function frame.
type Ident struct {
	exprBase
	NamePos token.Pos
	Name    string
	Frame   int
	Offset  int
	Global  bool
}

func (n *Ident) Format(f fmt.State, verb rune) { format(f, verb, n.Name, nil) }
func (n *Ident) Span() (start, end token.Pos) {
	return n.NamePos, n.NamePos + token.Pos(len(n.Name))
}
func (n *Ident) Walk(Visitor) {}

// BinaryExpr is a binary operator expression, e.g. a + b, a = b.
type BinaryExpr struct {
	exprBase
	X     Expr
	Op    token.Token
	OpPos token.Pos
	Y     Expr
}

func (n *BinaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n.Op.String(), nil) }
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	_, end = n.Y.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Y)
}

// UnaryExpr is a unary operator expression, e.g. -a, !a.
type UnaryExpr struct {
	exprBase
	Op    token.Token
	OpPos token.Pos
	X     Expr
}

func (n *UnaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n.Op.String(), nil) }
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.X.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.X) }

// CastExpr wraps an expression with an implicit or explicit conversion to
// a different type (int->float promotion, scalar->vector promotion, or an
// explicit cast expression in the source). TypeName carries the target
// type's source spelling for an explicit cast as produced by the parser;
// it is empty for implicit casts inserted by the builder, which resolve
// and set the target type directly via SetResolvedType.
type CastExpr struct {
	exprBase
	X        Expr
	TypeName string
	Implicit bool
}

func (n *CastExpr) Format(f fmt.State, verb rune) {
	label := "cast"
	if n.Implicit {
		label = "implicit-cast"
	}
	format(f, verb, label, nil)
}
func (n *CastExpr) Span() (start, end token.Pos) { return n.X.Span() }
func (n *CastExpr) Walk(v Visitor)               { Walk(v, n.X) }

// CallExpr is a function call expression.
type CallExpr struct {
	exprBase
	Name    string
	NamePos token.Pos
	Args    []Expr
	RParen  token.Pos

	// DescID is the resolved function descriptor index, assigned by the
	// builder once overload resolution selects a single candidate.
	DescID int
}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n.Name+"(...)", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) { return n.NamePos, n.RParen }
func (n *CallExpr) Walk(v Visitor) {
	for _, a := range n.Args {
		Walk(v, a)
	}
}

// IndexExpr is an array subscript expression, e.g. a[i].
type IndexExpr struct {
	exprBase
	X      Expr
	Index  Expr
	RBrack token.Pos
}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, "index", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.RBrack
}
func (n *IndexExpr) Walk(v Visitor) {
	Walk(v, n.X)
	Walk(v, n.Index)
}

// SelectorExpr is a field or swizzle access expression, e.g. a.b, v.xyz.
type SelectorExpr struct {
	exprBase
	X   Expr
	Sel string
	Pos token.Pos

	// FieldIndex is Sel's position in the base type's Fields list,
	// resolved by the builder. Used as a struct field index or a host
	// property index depending on the base type's Kind; unset for a
	// vector swizzle, which the canonizer resolves from Sel's letters
	// instead.
	FieldIndex int
}

func (n *SelectorExpr) Format(f fmt.State, verb rune) { format(f, verb, "."+n.Sel, nil) }
func (n *SelectorExpr) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.Pos + token.Pos(len(n.Sel))
}
func (n *SelectorExpr) Walk(v Visitor) { Walk(v, n.X) }

// ImmExpr is an immediate scalar literal (int or float).
type ImmExpr struct {
	exprBase
	ValuePos token.Pos
	IntVal   int64
	FloatVal float64
	IsFloat  bool
}

func (n *ImmExpr) Format(f fmt.State, verb rune) { format(f, verb, "imm", nil) }
func (n *ImmExpr) Span() (start, end token.Pos) {
	return n.ValuePos, n.ValuePos
}
func (n *ImmExpr) Walk(Visitor) {}

// StringExpr is a string literal expression.
type StringExpr struct {
	exprBase
	ValuePos token.Pos
	Value    string
}

func (n *StringExpr) Format(f fmt.State, verb rune) {
	format(f, verb, fmt.Sprintf("%q", n.Value), nil)
}
func (n *StringExpr) Span() (start, end token.Pos) {
	return n.ValuePos, n.ValuePos + token.Pos(len(n.Value))
}
func (n *StringExpr) Walk(Visitor) {}
