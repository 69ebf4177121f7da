// Package symbol implements the type table, symbol table, function table
// and frame records shared by the builder, canonizer and VM.
package symbol

import "fmt"

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindScalar Kind = iota
	KindVector
	KindArray
	KindStruct
	KindEnum
	KindObjectRef
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindVector:
		return "vector"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindObjectRef:
		return "objref"
	case KindWildcard:
		return "wildcard"
	default:
		return "invalid"
	}
}

// ALU identifies which of the four ALU expression engines (or none)
// operates on a type.
type ALU uint8

const (
	ALUNone ALU = iota
	ALUInt
	ALUFloat
	ALUFloat2
	ALUFloat3
	ALUFloat4
)

// scalar byte sizes, shared by every type descriptor that resolves to
// them.
const (
	SizeInt    = 4
	SizeFloat  = 4
	SizeString = 4 // string handle: a 4-byte constants-segment index
)

// StructField is one member of a struct type.
type StructField struct {
	Name   string
	Type   *Type
	Offset int
}

// Type is a type descriptor. Types are allocated and deduplicated by a
// TypeTable; equal descriptors are always the same *Type value (pointer
// identity implies structural equality, and vice versa).
type Type struct {
	Kind Kind
	Name string
	ALU  ALU

	// Child is the element type for KindArray/KindVector (vector child is
	// the scalar component type), or nil otherwise.
	Child *Type

	// ArrayLen is the fixed element count for a KindArray type declared
	// with "static_array", or 0 for a dynamically-sized array.
	ArrayLen int

	// Fields holds struct members in declaration order, or enumerant
	// names (Fields[i].Name) for KindEnum, with Type nil in that case.
	Fields []StructField

	// ByteSize is the size in bytes of a value of this type in VM RAM.
	ByteSize int

	id int // index in the owning TypeTable, used for fast equality checks
}

// String renders the type the way it would appear in source.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KindArray:
		if t.ArrayLen > 0 {
			return fmt.Sprintf("%s[%d]", t.Child, t.ArrayLen)
		}
		return fmt.Sprintf("%s[]", t.Child)
	default:
		return t.Name
	}
}

// IsNumeric reports whether t is usable as an ALU operand.
func (t *Type) IsNumeric() bool { return t != nil && t.ALU != ALUNone }

// VectorDims returns the number of components of a float2/float3/float4
// type, or 1 for a scalar int/float, or 0 for anything else.
func (t *Type) VectorDims() int {
	switch t.ALU {
	case ALUInt, ALUFloat:
		return 1
	case ALUFloat2:
		return 2
	case ALUFloat3:
		return 3
	case ALUFloat4:
		return 4
	default:
		return 0
	}
}
