package canon

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dasm writes a human-readable disassembly of asm to w, in ordered
// sections (program, then per function: function / constants / code) the way the
// teacher's compiler package renders its own bytecode, adapted to
// BlockScript's instruction set and per-function constants segment.
func Dasm(w io.Writer, asm *Assembly) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "program:\n  functions: %d\n", len(asm.Functions))
	for _, fn := range asm.Functions {
		fmt.Fprintf(bw, "function: %s\n", fn.Name)
		fmt.Fprintf(bw, "  args: %d\n", len(fn.ArgTypes))
		for i, a := range fn.ArgTypes {
			fmt.Fprintf(bw, "    %d: %s\n", i, a)
		}
		if fn.RetType != nil {
			fmt.Fprintf(bw, "  ret: %s\n", fn.RetType)
		} else {
			fmt.Fprintf(bw, "  ret: void\n")
		}
		fmt.Fprintf(bw, "  frame-size: %d\n", fn.FrameSize)
		fmt.Fprintf(bw, "constants:\n")
		for i, c := range fn.Constants {
			fmt.Fprintf(bw, "  %d: int=%d float=%g str=%q\n", i, c.IntVal, c.FloatVal, c.StrVal)
		}
		fmt.Fprintf(bw, "code:\n")
		for _, b := range fn.Blocks {
			fmt.Fprintf(bw, "%s:\n", b.Label)
			for _, instr := range b.Instrs {
				fmt.Fprintf(bw, "    %s\n", instr.String())
			}
		}
	}
	return bw.Flush()
}

// DasmString renders asm the same way Dasm does, returning the result as
// a string, for use in golden-file tests.
func DasmString(asm *Assembly) string {
	var sb strings.Builder
	_ = Dasm(&sb, asm)
	return sb.String()
}

// countLines counts the lines of s whose space-trimmed text begins with
// prefix. Nothing in the module calls it.
func countLines(s, prefix string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			n++
		}
	}
	return n
}

// parseIntOrZero parses s, trimmed of surrounding spaces, as a decimal
// integer and returns 0 if it does not parse. Nothing in the module calls
// it; the package has no textual assembler.
func parseIntOrZero(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}
