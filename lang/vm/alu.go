package vm

import (
	"math"

	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
)

// readOperand returns a copy of op's value as raw little-endian bytes,
// sized either by op.Size or, for register operands with no declared
// size, by fallback (the size declared by the instruction's other
// operand).
func (s *State) readOperand(op canon.Operand, fallback int) []byte {
	size := op.Size
	if size == 0 {
		size = fallback
	}
	if size == 0 {
		size = 4
	}
	switch op.Kind {
	case canon.OperandStack:
		addr := s.Reg.SBP + op.Offset
		buf := make([]byte, size)
		copy(buf, s.ram[addr:addr+size])
		return buf
	case canon.OperandConst:
		c := s.curFn.Constants[op.Const]
		buf := make([]byte, size)
		switch {
		case c.StrVal != "":
			// string constants are addressed by their own constants-
			// segment index rather than a heap slot, per the "separate
			// constants segment" redesign of string immediates.
			putU32(buf, uint32(op.Const))
		case c.Type != nil:
			if c.Type.ALU == symbol.ALUInt {
				putU32(buf, uint32(c.IntVal))
			} else {
				putU32(buf, math.Float32bits(float32(c.FloatVal)))
			}
		case c.IntVal != 0:
			putU32(buf, uint32(c.IntVal))
		default:
			putU32(buf, math.Float32bits(float32(c.FloatVal)))
		}
		return buf
	case canon.OperandReg:
		buf := make([]byte, size)
		copy(buf, s.regBytes(op.Reg)[:size])
		return buf
	default:
		return make([]byte, size)
	}
}

// writeOperand writes data into op's location.
func (s *State) writeOperand(op canon.Operand, data []byte) {
	switch op.Kind {
	case canon.OperandStack:
		addr := s.Reg.SBP + op.Offset
		copy(s.ram[addr:addr+len(data)], data)
	case canon.OperandReg:
		copy(s.regBytes(op.Reg), data)
	}
}

func (s *State) regBytes(name string) []byte {
	switch name {
	case "RET":
		return s.Reg.RET[:]
	case "A":
		return s.Reg.A[:]
	case "B":
		return s.Reg.B[:]
	case "C":
		return s.Reg.C[:]
	default:
		panic("vm: unknown register " + name)
	}
}

// vecEngine evaluates an ALU operation over Dims float32 lanes. Go's
// generics cannot parameterize an array length by a type parameter, so
// the reference design's four engines "collapsed into one generic
// vecEngine[N]" become one Dims-parameterized value type operating on
// slices instead of a literal generic array type; int and float (Dims
// == 1) share the same machinery as float2/float3/float4.
type vecEngine struct{ Dims int }

func (e vecEngine) eval(fn canon.ALUOp, a, b []float32) ([]float32, error) {
	out := make([]float32, e.Dims)
	for i := 0; i < e.Dims; i++ {
		switch fn {
		case canon.ALUAdd:
			out[i] = a[i] + b[i]
		case canon.ALUSub:
			out[i] = a[i] - b[i]
		case canon.ALUMul:
			out[i] = a[i] * b[i]
		case canon.ALUDiv:
			if b[i] == 0 {
				return nil, ErrDivideByZero
			}
			out[i] = a[i] / b[i]
		default:
			out[i] = compareLane(fn, a[i], b[i])
		}
	}
	return out, nil
}

func compareLane(fn canon.ALUOp, a, b float32) float32 {
	var ok bool
	switch fn {
	case canon.ALULt:
		ok = a < b
	case canon.ALULe:
		ok = a <= b
	case canon.ALUGt:
		ok = a > b
	case canon.ALUGe:
		ok = a >= b
	case canon.ALUEq:
		ok = a == b
	case canon.ALUNe:
		ok = a != b
	case canon.ALUAnd:
		ok = a != 0 && b != 0
	case canon.ALUOr:
		ok = a != 0 || b != 0
	}
	if ok {
		return 1
	}
	return 0
}

func floatsToBytes(vs []float32) []byte {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		putU32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf
}

func bytesToFloats(b []byte, dims int) []float32 {
	out := make([]float32, dims)
	for i := 0; i < dims; i++ {
		out[i] = math.Float32frombits(getU32(b[i*4 : i*4+4]))
	}
	return out
}

// execALU evaluates instr against s, writing the result to instr.Dst. Int
// arithmetic is handled separately from the float-based vecEngine since
// integer division/modulo have different by-zero and truncation rules.
func (s *State) execALU(instr canon.ALU) error {
	if instr.Engine == canon.EngineInt {
		lhs := int32(getU32(s.readOperand(instr.Lhs, 4)))
		rhs := int32(getU32(s.readOperand(instr.Rhs, 4)))
		result, err := evalInt(instr.Fn, lhs, rhs)
		if err != nil {
			return &RuntimeError{Op: "alu", Err: err}
		}
		buf := make([]byte, 4)
		putU32(buf, uint32(result))
		s.writeOperand(instr.Dst, buf)
		return nil
	}

	dims := dimsOf(instr.Engine)
	lhs := bytesToFloats(s.readOperand(instr.Lhs, 4*dims), dims)
	rhs := bytesToFloats(s.readOperand(instr.Rhs, 4*dims), dims)
	out, err := (vecEngine{Dims: dims}).eval(instr.Fn, lhs, rhs)
	if err != nil {
		return &RuntimeError{Op: "alu", Err: err}
	}
	s.writeOperand(instr.Dst, floatsToBytes(out))
	return nil
}

func dimsOf(e canon.Engine) int {
	switch e {
	case canon.EngineFloat2:
		return 2
	case canon.EngineFloat3:
		return 3
	case canon.EngineFloat4:
		return 4
	default:
		return 1
	}
}

func evalInt(fn canon.ALUOp, a, b int32) (int32, error) {
	switch fn {
	case canon.ALUAdd:
		return a + b, nil
	case canon.ALUSub:
		return a - b, nil
	case canon.ALUMul:
		return a * b, nil
	case canon.ALUDiv:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	case canon.ALUMod:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a % b, nil
	case canon.ALULt:
		return boolInt(a < b), nil
	case canon.ALULe:
		return boolInt(a <= b), nil
	case canon.ALUGt:
		return boolInt(a > b), nil
	case canon.ALUGe:
		return boolInt(a >= b), nil
	case canon.ALUEq:
		return boolInt(a == b), nil
	case canon.ALUNe:
		return boolInt(a != b), nil
	case canon.ALUAnd:
		return boolInt(a != 0 && b != 0), nil
	case canon.ALUOr:
		return boolInt(a != 0 || b != 0), nil
	default:
		return 0, nil
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
