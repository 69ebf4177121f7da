// Package builder implements the semantic pass over a parsed AST:
// name resolution, overload-aware function lookup, the implicit
// int->float and scalar->vector promotion rules, and frame-offset
// assignment.
//
// The plain-recursive-method traversal shape follows the teacher's
// lang/resolver package; Build runs it in two passes (function signatures
// first, then bodies). The semantics implemented (overload
// resolution, implicit casts, frame layout) are BlockScript's own and
// have no Starlark equivalent in the teacher.
package builder

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

// Listener receives one notification per semantic error encountered
// during Build, mirroring the original engine's event-listener host
// contract instead of raising exceptions.
type Listener interface {
	OnError(line int, message, tokenText string)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(line int, message, tokenText string)

func (f ListenerFunc) OnError(line int, message, tokenText string) { f(line, message, tokenText) }

// Builder walks a parsed ast.Program, annotating every node with its
// resolved type and frame placement, in place.
type Builder struct {
	tbl      *symbol.Table
	listener Listener
	errs     int

	curFrame int

	// forwardDecls holds every bodyless FuncDecl seen during pass 1, so
	// Build can flag any that are still unbound once the whole unit has
	// been scanned for their definition.
	forwardDecls []*ast.FuncDecl
}

// New creates a Builder that resolves names against tbl and reports
// errors to listener.
func New(tbl *symbol.Table, listener Listener) *Builder {
	return &Builder{tbl: tbl, listener: listener, curFrame: -1}
}

// ErrorCount returns the number of errors reported so far.
func (b *Builder) ErrorCount() int { return b.errs }

func (b *Builder) errorf(pos token.Pos, format string, args ...any) {
	b.errs++
	line, _ := pos.LineCol()
	if b.listener != nil {
		b.listener.OnError(line, fmt.Sprintf(format, args...), "")
	}
}

// Build type-checks every top-level declaration in prog. It returns the
// number of errors encountered; the caller should treat prog as unusable
// for canonization if that count is nonzero.
func (b *Builder) Build(prog *ast.Program) int {
	// pass 1: register every struct/enum/function signature so that
	// forward references (mutual recursion, out-of-order declarations)
	// resolve correctly.
	for _, s := range prog.Stmts {
		b.declareSignature(s)
	}
	// any forward declaration not bound to a body by the end of pass 1
	// never got a matching definition in this unit.
	for _, fd := range b.forwardDecls {
		if desc := b.tbl.Funcs.ByID(fd.DescID); desc != nil && desc.Forward() {
			b.errorf(fd.FuncPos, "function %q declared but never defined", fd.Name)
		}
	}
	// pass 2: check function bodies.
	for _, s := range prog.Stmts {
		if fd, ok := s.(*ast.FuncDecl); ok && fd.Body != nil {
			b.buildFunc(fd)
		}
	}
	return b.errs
}

func (b *Builder) declareSignature(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.StructDecl:
		fieldTypes := make([]*symbol.Type, len(s.Fields))
		fieldNames := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			fieldNames[i] = f.Name
			fieldTypes[i] = b.resolveTypeName(s.Pos, f.TypeName)
		}
		if _, err := b.tbl.Types.CreateStruct(s.Name, fieldNames, fieldTypes); err != nil {
			b.errorf(s.Pos, "%s", err)
		}

	case *ast.EnumDecl:
		if _, err := b.tbl.Types.CreateEnum(s.Name, s.Enumerants); err != nil {
			b.errorf(s.Pos, "%s", err)
		}

	case *ast.FuncDecl:
		argTypes := make([]*symbol.Type, len(s.Args))
		for i, a := range s.Args {
			a.Type = b.resolveTypeName(a.NamePos, a.TypeName)
			argTypes[i] = a.Type
		}
		var ret *symbol.Type
		if s.RetName != "" {
			ret = b.resolveTypeName(s.FuncPos, s.RetName)
		}
		s.RetType = ret
		kind := symbol.DeclDefined
		if s.Body == nil {
			kind = symbol.DeclForward
		}
		fd, err := b.tbl.Funcs.Declare(s.Name, argTypes, ret, kind)
		if err != nil {
			b.errorf(s.FuncPos, "%s", err)
			return
		}
		s.DescID = fd.ID()
		if kind == symbol.DeclForward {
			b.forwardDecls = append(b.forwardDecls, s)
		}
	}
}

func (b *Builder) resolveTypeName(pos token.Pos, name string) *symbol.Type {
	t := b.tbl.TypeByName(name)
	if t == nil {
		b.errorf(pos, "unknown type %q", name)
		return nil
	}
	return t
}

func (b *Builder) buildFunc(fd *ast.FuncDecl) {
	frameIdx := b.tbl.PushFrame(-1, symbol.CategoryFunctionBody)
	fd.Frame = frameIdx
	frame := b.tbl.Frame(frameIdx)
	prevFrame := b.curFrame
	b.curFrame = frameIdx
	defer func() { b.curFrame = prevFrame }()

	for _, a := range fd.Args {
		if a.Type == nil {
			continue
		}
		a.Frame = frameIdx
		a.Offset = frame.Declare(a.Name, a.Type)
	}

	var sawReturn bool
	for _, s := range fd.Body {
		if _, ok := s.(*ast.ReturnStmt); ok {
			sawReturn = true
		}
		b.stmt(s, frameIdx)
	}
	if fd.RetType != nil && !sawReturn {
		b.errorf(fd.FuncPos, "function %q must return a value of type %s on every path", fd.Name, fd.RetType)
	}
}

func (b *Builder) stmt(s ast.Stmt, frameIdx int) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		b.expr(s.X, frameIdx)

	case *ast.ReturnStmt:
		if s.X != nil {
			b.expr(s.X, frameIdx)
		}

	case *ast.WhileStmt:
		b.expr(s.Cond, frameIdx)
		for _, st := range s.Body {
			b.stmt(st, frameIdx)
		}

	case *ast.IfStmt:
		b.expr(s.Cond, frameIdx)
		for _, st := range s.Body {
			b.stmt(st, frameIdx)
		}
		for _, e := range s.Elses {
			if e.Cond != nil {
				b.expr(e.Cond, frameIdx)
			}
			for _, st := range e.Body {
				b.stmt(st, frameIdx)
			}
		}

	case *ast.TreeModifierStmt:
		b.expr(s.Var, frameIdx)
		for _, v := range s.Values {
			b.expr(v, frameIdx)
		}
	}
}

// expr type-checks e in place, returning its resolved type (also stored
// via e.SetResolvedType).
func (b *Builder) expr(e ast.Expr, frameIdx int) *symbol.Type {
	switch e := e.(type) {
	case *ast.Ident:
		frame := b.tbl.Frame(frameIdx)
		if entry, ok := frame.Find(e.Name); ok {
			e.Frame = frameIdx
			e.Offset = entry.Offset
			e.SetResolvedType(entry.Type)
			return entry.Type
		}
		e.Global = true
		b.errorf(e.NamePos, "undeclared identifier %q", e.Name)
		return nil

	case *ast.ImmExpr:
		if e.IsFloat {
			e.SetResolvedType(b.tbl.Types.Float)
		} else {
			e.SetResolvedType(b.tbl.Types.Int)
		}
		return e.ResolvedType()

	case *ast.StringExpr:
		e.SetResolvedType(b.tbl.Types.String)
		return e.ResolvedType()

	case *ast.UnaryExpr:
		t := b.expr(e.X, frameIdx)
		e.SetResolvedType(t)
		return t

	case *ast.BinaryExpr:
		return b.binaryExpr(e, frameIdx)

	case *ast.IndexExpr:
		base := b.expr(e.X, frameIdx)
		b.expr(e.Index, frameIdx)
		if base != nil && base.Kind == symbol.KindArray {
			e.SetResolvedType(base.Child)
			return base.Child
		}
		b.errorf(e.RBrack, "cannot index non-array type %s", base)
		return nil

	case *ast.SelectorExpr:
		base := b.expr(e.X, frameIdx)
		if base == nil {
			return nil
		}
		if base.Kind == symbol.KindVector {
			// swizzle: single-letter selectors resolve to the scalar
			// component type, multi-letter selectors to a same-size
			// vector type.
			dims := len(e.Sel)
			if dims == 1 {
				e.SetResolvedType(base.Child)
				return base.Child
			}
			vt := vectorOfDims(b.tbl.Types, dims)
			e.SetResolvedType(vt)
			return vt
		}
		for i, f := range base.Fields {
			if f.Name == e.Sel {
				e.FieldIndex = i
				e.SetResolvedType(f.Type)
				return f.Type
			}
		}
		b.errorf(e.Pos, "type %s has no field %q", base, e.Sel)
		return nil

	case *ast.CallExpr:
		return b.callExpr(e, frameIdx)

	case *ast.CastExpr:
		childType := b.expr(e.X, frameIdx)
		if e.TypeName == "" {
			// an implicit cast inserted by the builder itself already
			// carries its resolved type.
			if e.ResolvedType() == nil {
				e.SetResolvedType(childType)
			}
			return e.ResolvedType()
		}
		pos, _ := e.X.Span()
		target := b.resolveTypeName(pos, e.TypeName)
		e.SetResolvedType(target)
		return target

	default:
		return nil
	}
}

func vectorOfDims(tt *symbol.TypeTable, dims int) *symbol.Type {
	switch dims {
	case 2:
		return tt.Float2
	case 3:
		return tt.Float3
	case 4:
		return tt.Float4
	default:
		return tt.Float
	}
}

// binaryExpr type-checks a binary (including assignment) expression,
// applying implicit promotion by wrapping the narrower operand in a
// CastExpr when one side is int and the other float, or one side is a
// scalar and the other a same-base-type vector.
func (b *Builder) binaryExpr(e *ast.BinaryExpr, frameIdx int) *symbol.Type {
	lt := b.expr(e.X, frameIdx)
	rt := b.expr(e.Y, frameIdx)
	if lt == nil || rt == nil {
		return nil
	}

	if e.Op == token.EQ {
		if !ast.IsAssignable(e.X) {
			b.errorf(e.OpPos, "left-hand side of assignment is not assignable")
		}
		e.Y = b.coerce(e.Y, rt, lt)
		e.SetResolvedType(lt)
		return lt
	}

	result, lCast, rCast := promote(b.tbl.Types, lt, rt)
	if result == nil {
		b.errorf(e.OpPos, "incompatible operand types %s and %s for %s", lt, rt, e.Op)
		return nil
	}
	if lCast {
		e.X = wrapCast(e.X, result)
	}
	if rCast {
		e.Y = wrapCast(e.Y, result)
	}
	e.SetResolvedType(result)
	return result
}

func (b *Builder) coerce(e ast.Expr, from, to *symbol.Type) ast.Expr {
	if from == to {
		return e
	}
	if from == b.tbl.Types.Int && to == b.tbl.Types.Float {
		return wrapCast(e, to)
	}
	if from.Kind == symbol.KindScalar && to.Kind == symbol.KindVector {
		return wrapCast(e, to)
	}
	return e
}

// promote implements the implicit-cast rule table: int widens to float,
// a scalar widens to match a vector of the same base type. It returns the
// common result type and whether each side needs a wrapping cast.
func promote(tt *symbol.TypeTable, lt, rt *symbol.Type) (result *symbol.Type, lCast, rCast bool) {
	if lt == rt {
		return lt, false, false
	}
	if lt == tt.Int && rt == tt.Float {
		return rt, true, false
	}
	if lt == tt.Float && rt == tt.Int {
		return lt, false, true
	}
	if lt.Kind == symbol.KindVector && (rt == tt.Int || rt == tt.Float) {
		return lt, false, true
	}
	if rt.Kind == symbol.KindVector && (lt == tt.Int || lt == tt.Float) {
		return rt, true, false
	}
	return nil, false, false
}

func wrapCast(e ast.Expr, to *symbol.Type) ast.Expr {
	c := &ast.CastExpr{X: e, Implicit: true}
	c.SetResolvedType(to)
	return c
}

// callExpr resolves e against every overload of e.Name visible from the
// current symbol table, picking the unique overload whose argument types
// match after implicit promotion. It reports an error if zero or more
// than one overload matches.
func (b *Builder) callExpr(e *ast.CallExpr, frameIdx int) *symbol.Type {
	argTypes := make([]*symbol.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = b.expr(a, frameIdx)
	}

	candidates := b.tbl.FindFunction(e.Name)
	var match *symbol.FuncDesc
	for _, c := range candidates {
		if len(c.ArgTypes) != len(argTypes) {
			continue
		}
		ok := true
		for i, at := range argTypes {
			if at == nil {
				ok = false
				break
			}
			if at != c.ArgTypes[i] {
				if res, _, _ := promote(b.tbl.Types, at, c.ArgTypes[i]); res != c.ArgTypes[i] {
					ok = false
					break
				}
			}
		}
		if ok {
			if match != nil {
				b.errorf(e.NamePos, "ambiguous call to overloaded function %q", e.Name)
				return nil
			}
			match = c
		}
	}
	if match == nil {
		b.errorf(e.NamePos, "no matching overload for function %q", e.Name)
		return nil
	}
	e.DescID = match.ID()
	for i, a := range e.Args {
		e.Args[i] = b.coerce(a, argTypes[i], match.ArgTypes[i])
	}
	e.SetResolvedType(match.RetType)
	return match.RetType
}
