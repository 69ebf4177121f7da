package preprocess

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessInlinesInclude(t *testing.T) {
	files := map[string][]byte{
		"vec.bs": []byte("struct Vec { int x; int y; }\n"),
	}
	opener := func(path string) ([]byte, error) {
		b, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return b, nil
	}

	src := []byte("#include \"vec.bs\"\nint main() { return 0; }\n")
	out, err := Process(src, "main.bs", opener)
	require.NoError(t, err)
	require.Contains(t, string(out), "struct Vec")
	require.Contains(t, string(out), "int main()")
}

func TestProcessDetectsIncludeCycle(t *testing.T) {
	opener := func(path string) ([]byte, error) {
		return []byte("#include \"main.bs\"\n"), nil
	}
	_, err := Process([]byte("#include \"a.bs\"\n"), "main.bs", opener)
	require.Error(t, err)
}

func TestProcessSubstitutesDefine(t *testing.T) {
	src := []byte("#define SIZE 10\nint arr[SIZE];\n")
	out, err := Process(src, "t.bs", nil)
	require.NoError(t, err)
	require.NotContains(t, string(out), "#define")
	require.Contains(t, string(out), "int arr[10];")
}

func TestProcessLaterDefineSeesEarlierValue(t *testing.T) {
	src := []byte("#define BASE 4\n#define DOUBLE BASE * 2\nint x = DOUBLE;\n")
	out, err := Process(src, "t.bs", nil)
	require.NoError(t, err)
	require.Contains(t, string(out), "int x = 4 * 2;")
}

func TestProcessMissingIncludeFails(t *testing.T) {
	opener := func(path string) ([]byte, error) {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	_, err := Process([]byte("#include \"missing.bs\"\n"), "t.bs", opener)
	require.Error(t, err)
}

func TestProcessNoOpenerConfiguredFails(t *testing.T) {
	_, err := Process([]byte("#include \"missing.bs\"\n"), "t.bs", nil)
	require.Error(t, err)
}
