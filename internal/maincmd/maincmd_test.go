package maincmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestBuildFilesReportsOK(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "ok.bs", `
int add(int a, int b) {
	return a + b;
}
`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := BuildFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "ok")
}

func TestBuildFilesReportsSemanticError(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "bad.bs", `
int broken() {
	return missing;
}
`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := BuildFiles(context.Background(), stdio, path)
	require.Error(t, err)
	require.NotEmpty(t, errOut.String())
}

func TestCanonFilesPrintsDisassembly(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "add.bs", `
int add(int a, int b) {
	return a + b;
}
`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := CanonFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "function: add")
}

func TestRunFilesExecutesZeroArgFunction(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "answer.bs", `
int answer() {
	return 40 + 2;
}
`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := RunFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "answer() = 42")
}

func TestTokenizeFilesPrintsIdentAndIntLiterals(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "lit.bs", `x = 42;`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := TokenizeFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "identifier x")
	require.Contains(t, out.String(), "int literal 42")
}

func TestParseFilesPrintsAST(t *testing.T) {
	dir := t.TempDir()
	path := writeTempSource(t, dir, "noop.bs", `void noop() { return; }`)
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := ParseFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "noop")
}

func TestTokenizeFilesResolvesIncludeRelativeToSourceDir(t *testing.T) {
	dir := t.TempDir()
	writeTempSource(t, dir, "macros.bs", "#define ANSWER 42\n")
	path := writeTempSource(t, dir, "main.bs", "#include \"macros.bs\"\nint x = ANSWER;\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	err := TokenizeFiles(context.Background(), stdio, path)
	require.NoError(t, err)
	require.Contains(t, out.String(), "int literal 42")
}
