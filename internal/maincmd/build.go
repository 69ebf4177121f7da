package maincmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/blockscript"
	"github.com/voxelforge/blockscript/lang/symbol"
)

func (c *Cmd) Build(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return BuildFiles(ctx, stdio, args...)
}

// BuildFiles runs the parser and type-checker over each file, each
// compiled against its own fresh symbol table, reporting success or the
// semantic errors found.
func BuildFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	var firstErr error
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := readSource(name)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			printError(stdio, err)
			continue
		}

		tbl := symbol.NewTable()
		if _, err := blockscript.Compile(bytes.NewReader(src), name, tbl, nil); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		fmt.Fprintf(stdio.Stdout, "%s: ok\n", name)
	}
	return firstErr
}
