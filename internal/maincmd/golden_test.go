package maincmd

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/internal/filetest"
)

var testUpdateTokenizeTests = flag.Bool("test.update-tokenize-tests", false, "If set, replace expected tokenize test results with actual results.")

// TestTokenizeGolden runs TokenizeFiles over every testdata/in/*.bs fixture
// and compares its output against the matching testdata/out/*.want file,
// following the teacher's SourceFiles/DiffOutput golden-file convention.
func TestTokenizeGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".bs") {
		t.Run(fi.Name(), func(t *testing.T) {
			var out, errOut bytes.Buffer
			stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
			_ = TokenizeFiles(context.Background(), stdio, filepath.Join(srcDir, fi.Name()))

			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateTokenizeTests)
			filetest.DiffErrors(t, fi, errOut.String(), resultDir, testUpdateTokenizeTests)
		})
	}
}
