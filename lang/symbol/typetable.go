package symbol

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/voxelforge/blockscript/internal/arena"
)

// TypeTable owns every type descriptor created during compilation of one
// unit, deduplicating structurally-equal descriptors. Built-in scalar
// types (int, float, float2, float3, float4, string) are created eagerly
// by NewTypeTable. Descriptors live in an arena.Slab rather than a plain
// slice, so a *Type handed out (tt.Int, a struct field's Type, ...) stays
// valid no matter how many more types get declared afterward.
type TypeTable struct {
	types *arena.Slab[Type]
	byKey *swiss.Map[string, *Type]

	Int    *Type
	Float  *Type
	Float2 *Type
	Float3 *Type
	Float4 *Type
	String *Type
}

// NewTypeTable creates a TypeTable with the built-in scalar and vector
// types already registered.
func NewTypeTable() *TypeTable {
	tt := &TypeTable{types: arena.NewSlab[Type](0), byKey: swiss.NewMap[string, *Type](64)}
	tt.Int = tt.mustCreate(KindScalar, "int", nil, 0, ALUInt, nil)
	tt.Float = tt.mustCreate(KindScalar, "float", nil, 0, ALUFloat, nil)
	tt.Float2 = tt.mustCreate(KindVector, "float2", tt.Float, 0, ALUFloat2, nil)
	tt.Float3 = tt.mustCreate(KindVector, "float3", tt.Float, 0, ALUFloat3, nil)
	tt.Float4 = tt.mustCreate(KindVector, "float4", tt.Float, 0, ALUFloat4, nil)
	tt.String = tt.mustCreate(KindScalar, "string", nil, 0, ALUNone, nil)
	return tt
}

func (tt *TypeTable) mustCreate(kind Kind, name string, child *Type, arrayLen int, alu ALU, fields []StructField) *Type {
	t, err := tt.CreateType(kind, name, child, arrayLen, alu, fields)
	if err != nil {
		panic(err)
	}
	return t
}

func dedupKey(kind Kind, name string, child *Type, arrayLen int) string {
	var childID int
	if child != nil {
		childID = child.id
	}
	return fmt.Sprintf("%d|%s|%d|%d", kind, name, childID, arrayLen)
}

// CreateType creates, or returns the existing, type descriptor matching
// the given shape. Two requests with the same (kind, name, child,
// arrayLen) always return the identical *Type.
func (tt *TypeTable) CreateType(kind Kind, name string, child *Type, arrayLen int, alu ALU, fields []StructField) (*Type, error) {
	key := dedupKey(kind, name, child, arrayLen)
	if existing, ok := tt.byKey.Get(key); ok {
		return existing, nil
	}
	t := tt.types.PushEmpty()
	*t = Type{
		Kind:     kind,
		Name:     name,
		ALU:      alu,
		Child:    child,
		ArrayLen: arrayLen,
		Fields:   fields,
		id:       tt.types.Len() - 1,
	}
	t.ByteSize = byteSize(t)
	tt.byKey.Put(key, t)
	return t, nil
}

// byteSize computes the in-RAM size of a value of type t, following the
// formula: scalars are 4 bytes, vectors are 4*dims bytes, arrays are
// ArrayLen*Child.ByteSize (a dynamically-sized array, ArrayLen <= 0,
// stores only a 4-byte heap handle), structs are the sum of field sizes, enums are
// 4 bytes (stored as int), object references are a heap-slot index
// (4 bytes).
func byteSize(t *Type) int {
	switch t.Kind {
	case KindScalar:
		if t.Name == "string" {
			return SizeString
		}
		return SizeInt
	case KindVector:
		return SizeFloat * t.VectorDims()
	case KindArray:
		if t.ArrayLen <= 0 {
			return SizeInt // heap handle
		}
		return t.ArrayLen * t.Child.ByteSize
	case KindStruct:
		sum := 0
		for _, f := range t.Fields {
			sum += f.Type.ByteSize
		}
		return sum
	case KindEnum:
		return SizeInt
	case KindObjectRef:
		return SizeInt
	default:
		return 0
	}
}

// CreateStruct creates a struct type with the given fields, assigning
// sequential byte offsets.
func (tt *TypeTable) CreateStruct(name string, fieldNames []string, fieldTypes []*Type) (*Type, error) {
	if len(fieldNames) != len(fieldTypes) {
		return nil, fmt.Errorf("symbol: struct %q field name/type count mismatch", name)
	}
	fields := make([]StructField, len(fieldNames))
	offset := 0
	for i, n := range fieldNames {
		fields[i] = StructField{Name: n, Type: fieldTypes[i], Offset: offset}
		offset += fieldTypes[i].ByteSize
	}
	return tt.CreateType(KindStruct, name, nil, 0, ALUNone, fields)
}

// CreateEnum creates an enum type with the given enumerant names, in
// declaration order (enumerant value == index).
func (tt *TypeTable) CreateEnum(name string, enumerants []string) (*Type, error) {
	fields := make([]StructField, len(enumerants))
	for i, e := range enumerants {
		fields[i] = StructField{Name: e}
	}
	return tt.CreateType(KindEnum, name, nil, 0, ALUNone, fields)
}

// CreateArray creates a (possibly dynamically-sized, arrayLen==0) array
// type over child.
func (tt *TypeTable) CreateArray(child *Type, arrayLen int) (*Type, error) {
	return tt.CreateType(KindArray, child.Name+"[]", child, arrayLen, ALUNone, nil)
}

// CreateObjectRef creates an opaque host object-reference type.
func (tt *TypeTable) CreateObjectRef(name string, properties []StructField) (*Type, error) {
	return tt.CreateType(KindObjectRef, name, nil, 0, ALUNone, properties)
}

// ByName searches only this table's own types (not any child library),
// returning nil if not found.
func (tt *TypeTable) ByName(name string) *Type {
	for i := 0; i < tt.types.Len(); i++ {
		t := tt.types.At(i)
		if t.Name == name && t.Kind != KindArray {
			return t
		}
	}
	return nil
}

// Dump renders every registered type, for debugging.
func (tt *TypeTable) Dump() string {
	var sb strings.Builder
	for i := 0; i < tt.types.Len(); i++ {
		t := tt.types.At(i)
		fmt.Fprintf(&sb, "%-4d %-8s %-16s size=%d\n", t.id, t.Kind, t.String(), t.ByteSize)
	}
	return sb.String()
}
