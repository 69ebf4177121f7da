package symbol

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestCreateTypeDedup(t *testing.T) {
	tt := NewTypeTable()
	a, err := tt.CreateArray(tt.Float, 4)
	require.NoError(t, err)
	b, err := tt.CreateArray(tt.Float, 4)
	require.NoError(t, err)
	require.Same(t, a, b, "identical array shapes must dedup to the same *Type")

	c, err := tt.CreateArray(tt.Float, 8)
	require.NoError(t, err)
	require.NotSame(t, a, c, "different array lengths must not dedup")
}

func TestBuiltinByteSizes(t *testing.T) {
	tt := NewTypeTable()
	require.Equal(t, SizeInt, tt.Int.ByteSize)
	require.Equal(t, SizeFloat, tt.Float.ByteSize)
	require.Equal(t, 2*SizeFloat, tt.Float2.ByteSize)
	require.Equal(t, 3*SizeFloat, tt.Float3.ByteSize)
	require.Equal(t, 4*SizeFloat, tt.Float4.ByteSize)
}

func TestStructByteSizeIsSumOfFields(t *testing.T) {
	f := func(nFields uint8) bool {
		n := int(nFields%8) + 1
		tt := NewTypeTable()
		names := make([]string, n)
		types := make([]*Type, n)
		want := 0
		for i := 0; i < n; i++ {
			names[i] = string(rune('a' + i))
			types[i] = tt.Float
			want += tt.Float.ByteSize
		}
		st, err := tt.CreateStruct("s", names, types)
		if err != nil {
			return false
		}
		return st.ByteSize == want
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestArrayByteSizeIsLenTimesElem(t *testing.T) {
	tt := NewTypeTable()
	arr, err := tt.CreateArray(tt.Float4, 3)
	require.NoError(t, err)
	require.Equal(t, 3*tt.Float4.ByteSize, arr.ByteSize)
}
