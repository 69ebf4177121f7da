package ast

// Visitor is implemented by callers of Walk that want to traverse an AST.
// Visit is called for every node before its children are visited; if it
// returns a non-nil Visitor, that visitor continues into the children,
// and Walk calls it again with a nil node once all children have been
// visited (mirroring go/ast.Walk's post-order hook).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the AST in depth-first order, calling v.Visit for n and
// recursively for each of its children.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	w := v.Visit(n)
	if w == nil {
		return
	}
	n.Walk(w)
	w.Visit(nil)
}

// inspector adapts a plain func(Node) bool to the Visitor interface, the
// way go/ast.Inspect does.
type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect traverses the AST calling f for each node; f returns false to
// stop descending into a node's children.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}
