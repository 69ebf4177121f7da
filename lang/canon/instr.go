// Package canon lowers a type-checked AST into linear, labelled blocks of
// canonical instructions, and implements the human-readable assembly text
// format used to serialize them.
//
// The instruction set matches the original engine's BlockScriptCanon.h
// CanonTypes enum and CanonNode subclasses one-for-one; the block
// linearization approach (walk the AST, emit to the current block, start
// a new block at every branch) follows the teacher's compiler package.
package canon

import "fmt"

// Opcode identifies a canonical instruction kind.
type Opcode uint8

const (
	OpMove Opcode = iota
	OpSave
	OpLoad
	OpLoadAddr
	OpSaveToAddr
	OpCopyToAddr
	OpInsertDataToHeap
	OpCast
	OpReadObjProp
	OpWriteObjProp
	OpFunGo
	OpRet
	OpPushFrame
	OpPopFrame
	OpJmp
	OpJmpCond
	OpExit
	OpALU
)

func (o Opcode) String() string { return opcodeNames[o] }

var opcodeNames = [...]string{
	OpMove:             "move",
	OpSave:              "save",
	OpLoad:              "load",
	OpLoadAddr:          "loadaddr",
	OpSaveToAddr:        "savetoaddr",
	OpCopyToAddr:        "copytoaddr",
	OpInsertDataToHeap:  "insertdatatoheap",
	OpCast:              "cast",
	OpReadObjProp:       "readobjprop",
	OpWriteObjProp:      "writeobjprop",
	OpFunGo:             "fungo",
	OpRet:               "ret",
	OpPushFrame:         "pushframe",
	OpPopFrame:          "popframe",
	OpJmp:               "jmp",
	OpJmpCond:           "jmpcond",
	OpExit:              "exit",
	OpALU:               "alu",
}

// Operand is a reference to a value location used by an instruction:
// either a frame-relative stack slot (frame/offset), an immediate
// constant index, or a register name, exactly one of which applies
// depending on Kind.
type Operand struct {
	Kind OperandKind
	// Frame/Offset identify a stack slot when Kind == OperandStack.
	Frame  int
	Offset int
	// Const indexes into the owning Function's Constants when
	// Kind == OperandConst.
	Const int
	// Reg names a VM register when Kind == OperandReg.
	Reg string
	// Size is the byte width the instruction should move/compare, for
	// operand kinds where that is ambiguous otherwise.
	Size int
}

// OperandKind discriminates the union fields of Operand.
type OperandKind uint8

const (
	OperandStack OperandKind = iota
	OperandConst
	OperandReg
)

func (o Operand) String() string {
	switch o.Kind {
	case OperandStack:
		return fmt.Sprintf("[%d:%d]", o.Frame, o.Offset)
	case OperandConst:
		return fmt.Sprintf("#%d", o.Const)
	case OperandReg:
		return "%" + o.Reg
	default:
		return "?"
	}
}

// Instr is one canonical instruction. Every concrete instruction type
// below implements it.
type Instr interface {
	Op() Opcode
	String() string
}

type Move struct{ Dst, Src Operand }

func (i Move) Op() Opcode  { return OpMove }
func (i Move) String() string { return fmt.Sprintf("move %s, %s", i.Dst, i.Src) }

type Save struct{ Dst, Src Operand }

func (i Save) Op() Opcode     { return OpSave }
func (i Save) String() string { return fmt.Sprintf("save %s, %s", i.Dst, i.Src) }

type Load struct{ Dst, Src Operand }

func (i Load) Op() Opcode     { return OpLoad }
func (i Load) String() string { return fmt.Sprintf("load %s, %s", i.Dst, i.Src) }

// LoadAddr loads the absolute RAM address of Src into Dst (a register).
type LoadAddr struct {
	Dst Operand
	Src Operand
}

func (i LoadAddr) Op() Opcode     { return OpLoadAddr }
func (i LoadAddr) String() string { return fmt.Sprintf("loadaddr %s, %s", i.Dst, i.Src) }

// SaveToAddr writes Src to the RAM address held in AddrReg.
type SaveToAddr struct {
	AddrReg Operand
	Src     Operand
}

func (i SaveToAddr) Op() Opcode { return OpSaveToAddr }
func (i SaveToAddr) String() string {
	return fmt.Sprintf("savetoaddr %s, %s", i.AddrReg, i.Src)
}

// CopyToAddr copies Size bytes from SrcAddrReg to DstAddrReg (struct/array
// assignment by value).
type CopyToAddr struct {
	DstAddrReg Operand
	SrcAddrReg Operand
	Size       int
}

func (i CopyToAddr) Op() Opcode { return OpCopyToAddr }
func (i CopyToAddr) String() string {
	return fmt.Sprintf("copytoaddr %s, %s, %d", i.DstAddrReg, i.SrcAddrReg, i.Size)
}

// InsertDataToHeap pushes a host object handle (already resident in the
// VM heap table) referenced by Src onto the stack slot Dst.
type InsertDataToHeap struct{ Dst, Src Operand }

func (i InsertDataToHeap) Op() Opcode { return OpInsertDataToHeap }
func (i InsertDataToHeap) String() string {
	return fmt.Sprintf("insertdatatoheap %s, %s", i.Dst, i.Src)
}

// CastKind identifies which ALU conversion Cast performs.
type CastKind uint8

const (
	CastIntToFloat CastKind = iota
	CastScalarToVector
)

type Cast struct {
	Dst, Src Operand
	Kind     CastKind
	Dims     int // target vector dims for CastScalarToVector
}

func (i Cast) Op() Opcode { return OpCast }
func (i Cast) String() string {
	return fmt.Sprintf("cast %s, %s, kind=%d, dims=%d", i.Dst, i.Src, i.Kind, i.Dims)
}

// ReadObjProp reads property PropIndex of the host object handle held at
// ObjSlot into Dst.
type ReadObjProp struct {
	Dst       Operand
	ObjSlot   Operand
	PropIndex int
}

func (i ReadObjProp) Op() Opcode { return OpReadObjProp }
func (i ReadObjProp) String() string {
	return fmt.Sprintf("readobjprop %s, %s, %d", i.Dst, i.ObjSlot, i.PropIndex)
}

type WriteObjProp struct {
	ObjSlot   Operand
	PropIndex int
	Src       Operand
}

func (i WriteObjProp) Op() Opcode { return OpWriteObjProp }
func (i WriteObjProp) String() string {
	return fmt.Sprintf("writeobjprop %s, %d, %s", i.ObjSlot, i.PropIndex, i.Src)
}

// FunGo calls the function named Target. For a script-defined function,
// Target must match a label in the owning Assembly's function index and
// Args is informational only (the callee's own argument slots are
// already populated by the Move instructions preceding FunGo, following
// the frame-relative calling convention). For a host intrinsic
// (IsIntrinsic true), Target instead names an entry in the VM's
// intrinsic registry, and Args carries the operands to gather into the
// host-visible contiguous input buffer, since an intrinsic has no
// canonized frame of its own to read them from.
type FunGo struct {
	Target      string
	Args        []Operand
	IsIntrinsic bool
}

func (i FunGo) Op() Opcode { return OpFunGo }
func (i FunGo) String() string {
	if i.IsIntrinsic {
		return fmt.Sprintf("fungo.intrinsic %s, argc=%d", i.Target, len(i.Args))
	}
	return fmt.Sprintf("fungo %s", i.Target)
}

// Ret pops the current frame and returns to the caller, leaving the
// return value (if any) in the RET register.
type Ret struct{ HasValue bool }

func (i Ret) Op() Opcode { return OpRet }
func (i Ret) String() string {
	if i.HasValue {
		return "ret"
	}
	return "ret void"
}

type PushFrame struct{ Size int }

func (i PushFrame) Op() Opcode     { return OpPushFrame }
func (i PushFrame) String() string { return fmt.Sprintf("pushframe %d", i.Size) }

type PopFrame struct{}

func (i PopFrame) Op() Opcode     { return OpPopFrame }
func (i PopFrame) String() string { return "popframe" }

type Jmp struct{ Target string }

func (i Jmp) Op() Opcode     { return OpJmp }
func (i Jmp) String() string { return fmt.Sprintf("jmp %s", i.Target) }

type JmpCond struct {
	Cond     Operand
	Target   string
	OnFalse  bool // if true, jump when Cond is zero rather than nonzero
}

func (i JmpCond) Op() Opcode { return OpJmpCond }
func (i JmpCond) String() string {
	return fmt.Sprintf("jmpcond %s, %s, onfalse=%t", i.Cond, i.Target, i.OnFalse)
}

type Exit struct{}

func (i Exit) Op() Opcode     { return OpExit }
func (i Exit) String() string { return "exit" }

// ALUOp identifies the arithmetic or comparison operation an ALU
// instruction performs, dispatched at run time to one of the VM's ALU
// engines according to Engine.
type ALUOp uint8

const (
	ALUAdd ALUOp = iota
	ALUSub
	ALUMul
	ALUDiv
	ALUMod
	ALULt
	ALULe
	ALUGt
	ALUGe
	ALUEq
	ALUNe
	ALUAnd
	ALUOr
)

func (o ALUOp) String() string { return aluOpNames[o] }

var aluOpNames = [...]string{
	ALUAdd: "add", ALUSub: "sub", ALUMul: "mul", ALUDiv: "div", ALUMod: "mod",
	ALULt: "lt", ALULe: "le", ALUGt: "gt", ALUGe: "ge", ALUEq: "eq", ALUNe: "ne",
	ALUAnd: "and", ALUOr: "or",
}

// Engine identifies which of the VM's ALU engines (one per arithmetic
// value shape) an ALU instruction is evaluated by.
type Engine uint8

const (
	EngineInt Engine = iota
	EngineFloat
	EngineFloat2
	EngineFloat3
	EngineFloat4
)

func (e Engine) String() string { return engineNames[e] }

var engineNames = [...]string{
	EngineInt: "int", EngineFloat: "float",
	EngineFloat2: "float2", EngineFloat3: "float3", EngineFloat4: "float4",
}

// ALU evaluates Lhs <Op> Rhs through the named Engine and writes the
// result to Dst, replacing the reference implementation's four
// standalone long-lived engine globals with one instruction dispatched
// against explicit VM state (see the "Global mutable state for
// expression engines" design note).
type ALU struct {
	Dst, Lhs, Rhs Operand
	Fn            ALUOp
	Engine        Engine
}

func (i ALU) Op() Opcode { return OpALU }
func (i ALU) String() string {
	return fmt.Sprintf("alu.%s %s, %s, %s, %s", i.Engine, i.Dst, i.Lhs, i.Rhs, i.Fn)
}
