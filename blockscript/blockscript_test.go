package blockscript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voxelforge/blockscript/lang/symbol"
)

func TestCompileSimpleFunction(t *testing.T) {
	src := `
int answer() {
	return 40 + 2;
}
`
	tbl := symbol.NewTable()
	prog, err := Compile(strings.NewReader(src), "answer.bs", tbl, nil)
	require.NoError(t, err)
	require.NotNil(t, prog)
	require.NotNil(t, prog.Asm.ByName["answer"])
}

func TestCompileReportsSemanticErrors(t *testing.T) {
	src := `
int broken() {
	return unknownVariable;
}
`
	tbl := symbol.NewTable()
	_, err := Compile(strings.NewReader(src), "broken.bs", tbl, nil)
	require.Error(t, err)
	var errs ErrorList
	require.ErrorAs(t, err, &errs)
	require.NotEmpty(t, errs)
}

func TestCompileReportsSyntaxErrors(t *testing.T) {
	src := `int broken( { return 1; }`
	tbl := symbol.NewTable()
	_, err := Compile(strings.NewReader(src), "broken.bs", tbl, nil)
	require.Error(t, err)
}
