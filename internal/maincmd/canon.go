package maincmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/blockscript"
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
)

func (c *Cmd) Canon(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CanonFiles(ctx, stdio, args...)
}

// CanonFiles runs the full pipeline through canonization for each file
// and prints the resulting assembly's disassembly listing.
func CanonFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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
		prog, err := blockscript.Compile(bytes.NewReader(src), name, tbl, nil)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			fmt.Fprintln(stdio.Stderr, err)
			continue
		}
		fmt.Fprint(stdio.Stdout, canon.DasmString(prog.Asm))
	}
	return firstErr
}
