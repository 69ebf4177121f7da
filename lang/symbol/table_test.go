package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChildLibraryLookup(t *testing.T) {
	root := NewTable()
	lib := NewLibrary("host")
	require.NoError(t, lib.CreateStructTypes([]StructDef{
		{Name: "Vec2", FieldNames: []string{"x", "y"}, FieldTypes: []*Type{lib.Types.Float, lib.Types.Float}},
	}))
	require.NoError(t, lib.CreateIntrinsicFunctions([]IntrinsicDef{
		{Name: "hostPrint", ArgTypes: []*Type{lib.Types.String}, RetType: nil},
	}))

	root.RegisterChild(lib.Table)

	require.NotNil(t, root.TypeByName("Vec2"))
	require.Len(t, root.FindFunction("hostPrint"), 1)

	root.UnregisterChild(lib.Table)
	require.Nil(t, root.TypeByName("Vec2"))
}

func TestFrameDeclareOffsets(t *testing.T) {
	tb := NewTable()
	idx := tb.PushFrame(-1, CategoryFunctionBody)
	f := tb.Frame(idx)

	off1 := f.Declare("a", tb.Types.Int)
	off2 := f.Declare("b", tb.Types.Float4)

	require.Equal(t, 0, off1)
	require.Equal(t, SizeInt, off2)
	require.Equal(t, SizeInt+4*SizeFloat, f.TotalSize)

	e, ok := f.Find("b")
	require.True(t, ok)
	require.Equal(t, off2, e.Offset)
}
