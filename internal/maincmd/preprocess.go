package maincmd

import (
	"os"
	"path/filepath"

	"github.com/voxelforge/blockscript/lang/preprocess"
)

// osOpener resolves #include "path" directives relative to dir (the
// including file's own directory), reading from the local filesystem —
// the CLI's own file-loading mechanism, standing in for whatever a real
// host embeds lang/preprocess with.
func osOpener(dir string) preprocess.FileOpener {
	return func(path string) ([]byte, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return os.ReadFile(path)
	}
}

// readSource reads name and runs it through the preprocessor, inlining
// #include directives resolved relative to name's directory and
// substituting #define macros, before any file-specific command sees it.
func readSource(name string) ([]byte, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return preprocess.Process(src, name, osOpener(filepath.Dir(name)))
}
