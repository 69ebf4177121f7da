package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuncTableOverloadDedup(t *testing.T) {
	tt := NewTypeTable()
	ft := NewFuncTable()

	_, err := ft.Declare("add", []*Type{tt.Int, tt.Int}, tt.Int, DeclDefined)
	require.NoError(t, err)

	_, err = ft.Declare("add", []*Type{tt.Float, tt.Float}, tt.Float, DeclDefined)
	require.NoError(t, err, "overload with different argument types must be allowed")

	_, err = ft.Declare("add", []*Type{tt.Int, tt.Int}, tt.Float, DeclDefined)
	require.Error(t, err, "identical argument-type signature must be rejected even with a different return type")

	require.Len(t, ft.Find("add"), 2)
}

func TestFuncTableForwardDeclarationBindsLaterDefinition(t *testing.T) {
	tt := NewTypeTable()
	ft := NewFuncTable()

	fwd, err := ft.Declare("helper", []*Type{tt.Int}, tt.Int, DeclForward)
	require.NoError(t, err)
	require.True(t, fwd.Forward())

	def, err := ft.Declare("helper", []*Type{tt.Int}, tt.Float, DeclDefined)
	require.NoError(t, err)
	require.Same(t, fwd, def, "a matching definition must bind the existing forward declaration, not create a new one")
	require.False(t, def.Forward())
	require.Equal(t, tt.Float, def.RetType)
	require.Len(t, ft.Find("helper"), 1)
}

func TestFuncTableIntrinsicIsNeverForward(t *testing.T) {
	tt := NewTypeTable()
	ft := NewFuncTable()

	fd, err := ft.Declare("native_op", []*Type{tt.Int}, tt.Int, DeclIntrinsic)
	require.NoError(t, err)
	require.True(t, fd.Intrinsic())
	require.False(t, fd.Forward())
}
