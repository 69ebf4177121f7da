package maincmd

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/blockscript"
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
	"github.com/voxelforge/blockscript/lang/vm"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, args...)
}

// RunFiles compiles each file and executes every zero-argument function
// it declares, printing each function's return value. It has no way to
// supply arguments from the command line, so functions taking any are
// skipped; this is a smoke-test entry point, not a general host runtime
// (see lang/interop for the embedding API).
func RunFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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

		for _, fn := range prog.Asm.Functions {
			if len(fn.ArgTypes) != 0 {
				continue
			}
			st := vm.New()
			st.Initialize(fn)
			if err := vm.Run(prog.Asm, st); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				fmt.Fprintf(stdio.Stderr, "%s: %s: %s\n", name, fn.Name, err)
				continue
			}
			fmt.Fprintf(stdio.Stdout, "%s: %s() = %s\n", name, fn.Name, formatRet(fn, st.Reg.RET))
		}
	}
	return firstErr
}

// formatRet renders a function's RET register according to its declared
// return type; anything other than a scalar int/float prints as raw
// bytes, since the CLI has no general value-printing pipeline for
// vectors, structs, or object references.
func formatRet(fn *canon.Function, ret [16]byte) string {
	t := fn.RetType
	if t == nil {
		return "<void>"
	}
	switch t.ALU {
	case symbol.ALUFloat:
		bits := binary.LittleEndian.Uint32(ret[:4])
		return fmt.Sprintf("%g", math.Float32frombits(bits))
	case symbol.ALUInt:
		v := binary.LittleEndian.Uint32(ret[:4])
		return fmt.Sprintf("%d", int32(v))
	default:
		return fmt.Sprintf("% x", ret[:t.ByteSize])
	}
}
