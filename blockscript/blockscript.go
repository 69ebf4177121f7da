// Package blockscript is the single programmatic entry point over the
// whole compilation pipeline: scan, parse, type-check, and canonize a
// source buffer into a linked, runnable Assembly.
package blockscript

import (
	"fmt"
	"io"

	"github.com/voxelforge/blockscript/internal/strpool"
	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/builder"
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/parser"
	"github.com/voxelforge/blockscript/lang/symbol"
)

// Logger is the minimal host logging contract, a Printf-shaped sink a
// host can point at its own log stream. A nil Logger is valid; Compile
// simply does not log.
type Logger interface {
	Printf(format string, args ...any)
}

// CompileError is one lexical, syntax, or semantic error encountered
// while compiling, carrying the line it was reported against.
type CompileError struct {
	Line    int
	Message string
}

func (e CompileError) Error() string { return fmt.Sprintf("%d: %s", e.Line, e.Message) }

// ErrorList collects every error produced by a single Compile call. A
// non-empty ErrorList means the returned Program is unusable for running
// (Canonize was not attempted, or produced incomplete functions).
type ErrorList []CompileError

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "blockscript: no errors"
	}
	s := fmt.Sprintf("blockscript: %d error(s)", len(l))
	for _, e := range l {
		s += "\n\t" + e.Error()
	}
	return s
}

// Program is a fully compiled unit: its symbol table (for host interop
// bind-point lookups) and its linked, canonized Assembly (for vm.Run or
// interop.Runtime).
type Program struct {
	Name string
	Tbl  *symbol.Table
	Asm  *canon.Assembly
}

// Reset clears Asm back to empty, for recompiling the same Program value
// in place (e.g. a host's edit-reload loop) without re-linking libraries
// into a fresh Tbl.
func (p *Program) Reset() {
	p.Asm = canon.NewAssembly()
}

// Compile reads source from r, lexes and parses it, type-checks it
// against tbl (which may already have host libraries registered via
// RegisterChild), and canonizes every function with a body into Asm. Any
// lexical, syntax, or semantic error aborts canonization and is returned
// as an ErrorList; logger, if non-nil, additionally receives one line
// per error as it is discovered.
func Compile(r io.Reader, name string, tbl *symbol.Table, logger Logger) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("blockscript: reading %q: %w", name, err)
	}

	prog, perrs := parser.Parse(name, src)
	var errs ErrorList
	for _, e := range perrs {
		errs = append(errs, CompileError{Message: e.Error()})
		if logger != nil {
			logger.Printf("%s: %s", name, e)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	b := builder.New(tbl, builder.ListenerFunc(func(line int, message, tokenText string) {
		errs = append(errs, CompileError{Line: line, Message: message})
		if logger != nil {
			logger.Printf("%s:%d: %s", name, line, message)
		}
	}))
	if n := b.Build(prog); n > 0 {
		return nil, errs
	}

	pool := strpool.New()
	asm := canon.NewAssembly()
	for _, s := range prog.Stmts {
		fd, ok := s.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		fn, err := canon.Canonize(tbl, pool, fd.Frame, fd)
		if err != nil {
			errs = append(errs, CompileError{Message: err.Error()})
			if logger != nil {
				logger.Printf("%s: canonize %s: %s", name, fd.Name, err)
			}
			continue
		}
		if err := asm.Add(fn); err != nil {
			errs = append(errs, CompileError{Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &Program{Name: name, Tbl: tbl, Asm: asm}, nil
}
