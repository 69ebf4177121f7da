package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses each file in turn and prints the resulting AST in
// its reparsable textual form, stopping at the first file with syntax
// errors.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := readSource(name)
		if err != nil {
			return printError(stdio, err)
		}

		prog, errs := parser.Parse(name, src)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(stdio.Stderr, e)
			}
			return printError(stdio, errs[0])
		}
		if err := ast.Fprint(stdio.Stdout, prog); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}
