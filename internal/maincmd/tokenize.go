package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/voxelforge/blockscript/lang/scanner"
	"github.com/voxelforge/blockscript/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans each file in turn and prints one line per token as
// "name:line:col: token", followed by the raw text for identifiers and
// literals, stopping after the first file with a lexical error.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := readSource(name)
		if err != nil {
			return printError(stdio, err)
		}

		var errs []error
		var sc scanner.Scanner
		sc.Init(name, src, func(pos token.Pos, msg string) {
			line, col := pos.LineCol()
			errs = append(errs, fmt.Errorf("%s:%d:%d: %s", name, line, col, msg))
		})

		var val scanner.Value
		for {
			tok := sc.Scan(&val)
			if tok == token.EOF {
				break
			}
			line, col := val.Pos.LineCol()
			fmt.Fprintf(stdio.Stdout, "%s:%d:%d: %s", name, line, col, tok)
			switch tok {
			case token.IDENT, token.INT, token.FLOAT, token.STRING:
				fmt.Fprintf(stdio.Stdout, " %s", val.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		for _, e := range errs {
			fmt.Fprintln(stdio.Stderr, e)
		}
		if len(errs) > 0 {
			return printError(stdio, errs[0])
		}
	}
	return nil
}
