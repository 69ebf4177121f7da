// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the builder (lang/builder) during type checking.
//
// The Format/Span/Walk/marker-method shape of each node follows the
// teacher's lang/ast package; the node inventory itself follows the
// original engine's AST (Idd, Binop, FunCall, Imm, StmtFunDec, StmtWhile,
// StmtIfElse, ArgDec/ArgList, ...).
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk visits each child node, in source order.
	Walk(v Visitor)
}

// Expr represents an expression. Every Expr is annotated with its resolved
// type once the builder has run; Type is nil before that point.
type Expr interface {
	Node
	expr()

	// ResolvedType returns the type assigned by the builder, or nil if the
	// node has not been built yet.
	ResolvedType() *symbol.Type
	SetResolvedType(*symbol.Type)
}

// Stmt represents a statement.
type Stmt interface {
	Node
	stmt()
}

// exprBase is embedded by every Expr implementation to provide the
// ResolvedType/SetResolvedType pair without repeating it on each type.
type exprBase struct {
	typ *symbol.Type
}

func (e *exprBase) ResolvedType() *symbol.Type     { return e.typ }
func (e *exprBase) SetResolvedType(t *symbol.Type) { e.typ = t }
func (*exprBase) expr()                            {}

// Program is the root of a compiled unit: a flat list of top-level
// statements (function declarations, struct/enum definitions).
type Program struct {
	Name  string
	Stmts []Stmt
}

func (n *Program) Format(f fmt.State, verb rune) {
	format(f, verb, "program", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Program) Span() (start, end token.Pos) {
	if len(n.Stmts) == 0 {
		return 0, 0
	}
	start, _ = n.Stmts[0].Span()
	_, end = n.Stmts[len(n.Stmts)-1].Span()
	return start, end
}
func (n *Program) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func format(f fmt.State, verb rune, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(ast)", verb)
		return
	}
	label = strings.ReplaceAll(label, "\n", "⏎")
	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// Unwrap peels away implicit-cast wrapper expressions to find the
// underlying expression that was wrapped. It returns e unchanged if e is
// not a CastExpr.
func Unwrap(e Expr) Expr {
	for {
		c, ok := e.(*CastExpr)
		if !ok {
			return e
		}
		e = c.X
	}
}

// IsAssignable reports whether e can appear on the left-hand side of an
// assignment: a plain identifier, an array index, or a field/swizzle
// selector.
func IsAssignable(e Expr) bool {
	switch e.(type) {
	case *Ident, *IndexExpr, *SelectorExpr:
		return true
	default:
		return false
	}
}
