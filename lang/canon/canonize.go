package canon

import (
	"fmt"

	"github.com/voxelforge/blockscript/internal/strpool"
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/token"
)

// fcomp ("function compiler") tracks the mutable state while lowering one
// function body: the current block being appended to and the frame that
// backs its locals and temporaries, following the teacher's pcomp/fcomp
// split.
type fcomp struct {
	tbl    *symbol.Table
	pool   *strpool.Pool
	fn     *Function
	frame  *symbol.Frame
	frmIdx int
	cur    *Block
	labels int
}

// scope is the per-statement scratch object; stmt creates a fresh one for
// each statement. It carries no state: every temporary allocated by temp
// is declared in the function's frame and is not reclaimed at a statement
// boundary, so the frame grows by each temporary the function uses.
type scope struct{}

// Canonize lowers a single checked function declaration into a Function,
// a sequence of labelled blocks of canonical instructions.
func Canonize(tbl *symbol.Table, pool *strpool.Pool, frameIdx int, decl *ast.FuncDecl) (*Function, error) {
	fc := &fcomp{
		tbl:    tbl,
		pool:   pool,
		frmIdx: frameIdx,
		frame:  tbl.Frame(frameIdx),
	}
	argTypes := make([]*symbol.Type, len(decl.Args))
	for i, a := range decl.Args {
		argTypes[i] = a.Type
	}
	fc.fn = &Function{
		Name:       decl.Name,
		ArgTypes:   argTypes,
		RetType:    decl.RetType,
		EntryLabel: "entry_" + decl.Name,
	}
	fc.cur = fc.newBlock(fc.fn.EntryLabel)
	fc.cur.emit(PushFrame{Size: 0}) // patched to frame.TotalSize once known

	for _, s := range decl.Body {
		if err := fc.stmt(s); err != nil {
			return nil, err
		}
	}
	// fall-through return for void functions without an explicit return
	if decl.RetType == nil {
		fc.cur.emit(PopFrame{})
		fc.cur.emit(Ret{HasValue: false})
	}
	fc.fn.FrameSize = fc.frame.TotalSize
	if push, ok := fc.fn.Blocks[0].Instrs[0].(PushFrame); ok {
		_ = push
		fc.fn.Blocks[0].Instrs[0] = PushFrame{Size: fc.frame.TotalSize}
	}
	return fc.fn, nil
}

func (fc *fcomp) newBlock(label string) *Block {
	b := &Block{Label: label}
	fc.fn.Blocks = append(fc.fn.Blocks, b)
	return b
}

func (fc *fcomp) newLabel(prefix string) string {
	fc.labels++
	return fmt.Sprintf("%s_%d", prefix, fc.labels)
}

func (fc *fcomp) stmt(s ast.Stmt) error {
	_ = scope{}
	switch s := s.(type) {
	case *ast.ExprStmt:
		_, err := fc.expr(s.X)
		return err

	case *ast.ReturnStmt:
		if s.X != nil {
			v, err := fc.expr(s.X)
			if err != nil {
				return err
			}
			fc.cur.emit(Move{Dst: Operand{Kind: OperandReg, Reg: "RET"}, Src: v})
			fc.cur.emit(PopFrame{})
			fc.cur.emit(Ret{HasValue: true})
		} else {
			fc.cur.emit(PopFrame{})
			fc.cur.emit(Ret{HasValue: false})
		}
		return nil

	case *ast.WhileStmt:
		return fc.whileStmt(s)

	case *ast.IfStmt:
		return fc.ifStmt(s)

	case *ast.TreeModifierStmt:
		return fc.treeModifierStmt(s)

	default:
		return fmt.Errorf("canon: unsupported statement type %T", s)
	}
}

func (fc *fcomp) whileStmt(s *ast.WhileStmt) error {
	top := fc.newLabel("while_top")
	body := fc.newLabel("while_body")
	end := fc.newLabel("while_end")

	fc.cur.emit(Jmp{Target: top})
	fc.cur = fc.newBlock(top)
	cond, err := fc.expr(s.Cond)
	if err != nil {
		return err
	}
	fc.cur.emit(JmpCond{Cond: cond, Target: end, OnFalse: true})
	fc.cur.emit(Jmp{Target: body})

	fc.cur = fc.newBlock(body)
	for _, st := range s.Body {
		if err := fc.stmt(st); err != nil {
			return err
		}
	}
	fc.cur.emit(Jmp{Target: top})

	fc.cur = fc.newBlock(end)
	return nil
}

func (fc *fcomp) ifStmt(s *ast.IfStmt) error {
	end := fc.newLabel("if_end")
	return fc.ifClause(s.Cond, s.Body, s.Elses, end)
}

func (fc *fcomp) ifClause(cond ast.Expr, body []ast.Stmt, elses []*ast.ElseClause, end string) error {
	thenLbl := fc.newLabel("if_then")
	elseLbl := fc.newLabel("if_else")

	c, err := fc.expr(cond)
	if err != nil {
		return err
	}
	fc.cur.emit(JmpCond{Cond: c, Target: elseLbl, OnFalse: true})
	fc.cur.emit(Jmp{Target: thenLbl})

	fc.cur = fc.newBlock(thenLbl)
	for _, st := range body {
		if err := fc.stmt(st); err != nil {
			return err
		}
	}
	fc.cur.emit(Jmp{Target: end})

	fc.cur = fc.newBlock(elseLbl)
	if len(elses) > 0 {
		head := elses[0]
		if head.Cond != nil {
			if err := fc.ifClause(head.Cond, head.Body, elses[1:], end); err != nil {
				return err
			}
		} else {
			for _, st := range head.Body {
				if err := fc.stmt(st); err != nil {
					return err
				}
			}
			fc.cur.emit(Jmp{Target: end})
			fc.cur = fc.newBlock(end)
		}
	} else {
		fc.cur.emit(Jmp{Target: end})
		fc.cur = fc.newBlock(end)
	}
	return nil
}

func (fc *fcomp) treeModifierStmt(s *ast.TreeModifierStmt) error {
	objSlot, err := fc.expr(s.Var)
	if err != nil {
		return err
	}
	for i, v := range s.Values {
		src, err := fc.expr(v)
		if err != nil {
			return err
		}
		fc.cur.emit(WriteObjProp{ObjSlot: objSlot, PropIndex: i, Src: src})
	}
	return nil
}

// temp allocates a fresh frame-local temporary of type t and returns the
// operand referring to it.
func (fc *fcomp) temp(t *symbol.Type) Operand {
	off := fc.frame.Declare(fc.pool.Temp(), t)
	return Operand{Kind: OperandStack, Frame: fc.frmIdx, Offset: off, Size: t.ByteSize}
}

func (fc *fcomp) constant(c Constant) Operand {
	idx := len(fc.fn.Constants)
	fc.fn.Constants = append(fc.fn.Constants, c)
	return Operand{Kind: OperandConst, Const: idx}
}

// expr lowers e and returns the operand holding its value once evaluated.
func (fc *fcomp) expr(e ast.Expr) (Operand, error) {
	switch e := e.(type) {
	case *ast.Ident:
		return Operand{Kind: OperandStack, Frame: e.Frame, Offset: e.Offset, Size: sizeOf(e)}, nil

	case *ast.ImmExpr:
		if e.IsFloat {
			return fc.constant(Constant{Type: e.ResolvedType(), FloatVal: e.FloatVal}), nil
		}
		return fc.constant(Constant{Type: e.ResolvedType(), IntVal: e.IntVal}), nil

	case *ast.StringExpr:
		return fc.constant(Constant{Type: e.ResolvedType(), StrVal: e.Value}), nil

	case *ast.CastExpr:
		src, err := fc.expr(e.X)
		if err != nil {
			return Operand{}, err
		}
		dst := fc.temp(e.ResolvedType())
		kind := CastIntToFloat
		dims := e.ResolvedType().VectorDims()
		if dims > 1 {
			kind = CastScalarToVector
		}
		fc.cur.emit(Cast{Dst: dst, Src: src, Kind: kind, Dims: dims})
		return dst, nil

	case *ast.UnaryExpr:
		src, err := fc.expr(e.X)
		if err != nil {
			return Operand{}, err
		}
		dst := fc.temp(e.ResolvedType())
		fc.cur.emit(Move{Dst: dst, Src: src})
		return dst, nil

	case *ast.BinaryExpr:
		return fc.binaryExpr(e)

	case *ast.IndexExpr:
		base, err := fc.expr(e.X)
		if err != nil {
			return Operand{}, err
		}
		idx, err := fc.expr(e.Index)
		if err != nil {
			return Operand{}, err
		}
		addr := Operand{Kind: OperandReg, Reg: "A"}
		fc.cur.emit(LoadAddr{Dst: addr, Src: base})
		dst := fc.temp(e.ResolvedType())
		_ = idx // index scaling is resolved by the assembler from e.ResolvedType().ByteSize
		fc.cur.emit(Load{Dst: dst, Src: addr})
		return dst, nil

	case *ast.SelectorExpr:
		return fc.selectorExpr(e)

	case *ast.CallExpr:
		return fc.callExpr(e)

	default:
		return Operand{}, fmt.Errorf("canon: unsupported expression type %T", e)
	}
}

// selectorExpr lowers field/swizzle/property access. A struct field or a
// single-component swizzle is a constant-offset view of the container's
// own storage, not a copy; a multi-component swizzle gathers its
// components into a fresh temp with one Move apiece. Only a genuine
// KindObjectRef base goes through ReadObjProp, since its properties live
// in host memory reached through a vm.PropertyAccessor, not contiguously
// with the handle.
func (fc *fcomp) selectorExpr(e *ast.SelectorExpr) (Operand, error) {
	baseType := e.X.ResolvedType()
	base, err := fc.expr(e.X)
	if err != nil {
		return Operand{}, err
	}

	switch baseType.Kind {
	case symbol.KindObjectRef:
		dst := fc.temp(e.ResolvedType())
		fc.cur.emit(ReadObjProp{Dst: dst, ObjSlot: base, PropIndex: fieldIndex(e)})
		return dst, nil

	case symbol.KindVector:
		base = fc.asAddressable(base, baseType)
		if len(e.Sel) == 1 {
			return vectorComponent(base, e.Sel[0]), nil
		}
		dst := fc.temp(e.ResolvedType())
		for i, ch := range e.Sel {
			fc.cur.emit(Move{
				Dst: vectorComponent(dst, byte('x'+i)), // i-th component of dst, in swizzle order
				Src: vectorComponent(base, byte(ch)),
			})
		}
		return dst, nil

	default: // KindStruct
		base = fc.asAddressable(base, baseType)
		field := baseType.Fields[e.FieldIndex]
		return Operand{Kind: OperandStack, Frame: base.Frame, Offset: base.Offset + field.Offset, Size: field.Type.ByteSize}, nil
	}
}

// asAddressable ensures op names real backing storage rather than a
// register, materializing it into a fresh stack temp if needed so that
// callers can take a constant-offset view into it.
func (fc *fcomp) asAddressable(op Operand, t *symbol.Type) Operand {
	if op.Kind == OperandStack {
		return op
	}
	dst := fc.temp(t)
	fc.cur.emit(Move{Dst: dst, Src: op})
	return dst
}

// vectorComponent returns the constant-offset view of one named component
// (x/y/z/w) of a vector operand sitting in stack storage.
func vectorComponent(v Operand, letter byte) Operand {
	idx := componentIndex(letter)
	return Operand{Kind: OperandStack, Frame: v.Frame, Offset: v.Offset + idx*symbol.SizeFloat, Size: symbol.SizeFloat}
}

func componentIndex(letter byte) int {
	switch letter {
	case 'x':
		return 0
	case 'y':
		return 1
	case 'z':
		return 2
	case 'w':
		return 3
	default:
		return 0
	}
}

func (fc *fcomp) binaryExpr(e *ast.BinaryExpr) (Operand, error) {
	if isAssignOp(e) {
		rhs, err := fc.expr(e.Y)
		if err != nil {
			return Operand{}, err
		}
		return fc.assign(e.X, rhs)
	}

	lhs, err := fc.expr(e.X)
	if err != nil {
		return Operand{}, err
	}
	rhs, err := fc.expr(e.Y)
	if err != nil {
		return Operand{}, err
	}

	dst := fc.temp(e.ResolvedType())
	fc.cur.emit(ALU{
		Dst:    dst,
		Lhs:    lhs,
		Rhs:    rhs,
		Fn:     aluOp(e.Op),
		Engine: engineFor(e.X.ResolvedType()),
	})
	return dst, nil
}

// assign lowers the lhs of an "=" expression to the storage it names and
// writes rhs into it, returning the assigned value. A KindObjectRef
// property and a multi-component vector swizzle both need scatter writes
// that plain Save cannot express; everything else (locals, struct fields,
// single-component swizzles) resolves to a real constant-offset operand
// via selectorExpr/expr and takes a plain Save.
func (fc *fcomp) assign(lhs ast.Expr, rhs Operand) (Operand, error) {
	if sel, ok := lhs.(*ast.SelectorExpr); ok {
		baseType := sel.X.ResolvedType()
		switch baseType.Kind {
		case symbol.KindObjectRef:
			base, err := fc.expr(sel.X)
			if err != nil {
				return Operand{}, err
			}
			fc.cur.emit(WriteObjProp{ObjSlot: base, PropIndex: fieldIndex(sel), Src: rhs})
			return rhs, nil

		case symbol.KindVector:
			if len(sel.Sel) > 1 {
				base, err := fc.expr(sel.X)
				if err != nil {
					return Operand{}, err
				}
				base = fc.asAddressable(base, baseType)
				rhs = fc.asAddressable(rhs, sel.ResolvedType())
				for i, ch := range sel.Sel {
					fc.cur.emit(Save{
						Dst: vectorComponent(base, byte(ch)),
						Src: vectorComponent(rhs, byte('x'+i)),
					})
				}
				return rhs, nil
			}
		}
	}

	dst, err := fc.expr(lhs)
	if err != nil {
		return Operand{}, err
	}
	fc.cur.emit(Save{Dst: dst, Src: rhs})
	return dst, nil
}

// aluOp maps a binary operator token to the ALU engine operation that
// evaluates it.
func aluOp(tok token.Token) ALUOp {
	switch tok {
	case token.PLUS:
		return ALUAdd
	case token.MINUS:
		return ALUSub
	case token.STAR:
		return ALUMul
	case token.SLASH:
		return ALUDiv
	case token.PERCENT:
		return ALUMod
	case token.LT:
		return ALULt
	case token.LE:
		return ALULe
	case token.GT:
		return ALUGt
	case token.GE:
		return ALUGe
	case token.EQL:
		return ALUEq
	case token.NEQ:
		return ALUNe
	case token.AND:
		return ALUAnd
	case token.OR:
		return ALUOr
	default:
		return ALUAdd
	}
}

// engineFor picks the ALU engine matching a value's ALU tag, following
// the type table's Kind/ALU classification.
func engineFor(t *symbol.Type) Engine {
	if t == nil {
		return EngineInt
	}
	switch t.ALU {
	case symbol.ALUFloat:
		return EngineFloat
	case symbol.ALUFloat2:
		return EngineFloat2
	case symbol.ALUFloat3:
		return EngineFloat3
	case symbol.ALUFloat4:
		return EngineFloat4
	default:
		return EngineInt
	}
}

func (fc *fcomp) callExpr(e *ast.CallExpr) (Operand, error) {
	argSlots := make([]Operand, len(e.Args))
	for i, a := range e.Args {
		src, err := fc.expr(a)
		if err != nil {
			return Operand{}, err
		}
		argSlot := fc.temp(a.ResolvedType())
		fc.cur.emit(Move{Dst: argSlot, Src: src})
		argSlots[i] = argSlot
	}
	fc.cur.emit(FunGo{Target: e.Name, Args: argSlots, IsIntrinsic: fc.isIntrinsic(e.Name, len(e.Args))})
	if e.ResolvedType() == nil {
		return Operand{}, nil
	}
	dst := fc.temp(e.ResolvedType())
	fc.cur.emit(Move{Dst: dst, Src: Operand{Kind: OperandReg, Reg: "RET"}})
	return dst, nil
}

// isIntrinsic reports whether the first overload of name taking argc
// arguments, in FindFunction order, is a host intrinsic rather than a
// script-defined function. Overloads with the same argument count are not
// told apart by their argument types.
func (fc *fcomp) isIntrinsic(name string, argc int) bool {
	for _, c := range fc.tbl.FindFunction(name) {
		if len(c.ArgTypes) == argc {
			return c.Intrinsic()
		}
	}
	return false
}

func sizeOf(id *ast.Ident) int {
	if t := id.ResolvedType(); t != nil {
		return t.ByteSize
	}
	return 0
}

func fieldIndex(e *ast.SelectorExpr) int {
	return e.FieldIndex
}

func isAssignOp(e *ast.BinaryExpr) bool {
	return e.Op == token.EQ
}
