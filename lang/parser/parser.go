// Package parser implements a recursive-descent parser over the token
// stream produced by lang/scanner, building the ast.Program consumed by
// lang/builder.
//
// The overall shape (a Parser struct carrying one token of lookahead,
// panic-based error recovery contained within Parse, separate files per
// grammar area) follows the teacher's lang/parser package; the grammar
// itself is BlockScript's C-style grammar rather than Starlark's.
package parser

import (
	"fmt"

	"github.com/voxelforge/blockscript/lang/ast"
	"github.com/voxelforge/blockscript/lang/scanner"
	"github.com/voxelforge/blockscript/lang/token"
)

// Parser consumes a token stream and builds an *ast.Program.
type Parser struct {
	sc  *scanner.Scanner
	tok token.Token
	val scanner.Value

	// one token of extra lookahead, used to disambiguate a tree modifier
	// statement ("ident { ... }") from a block-introducing statement at
	// the start of a statement list, and a cast "(type) expr" from a
	// parenthesized expression.
	haveNext bool
	nextTok  token.Token
	nextVal  scanner.Value

	errs []error
}

// Parse tokenizes and parses src (named name, for error messages),
// returning the resulting program and any syntax errors encountered. The
// returned program may be partial if errors were encountered.
func Parse(name string, src []byte) (*ast.Program, []error) {
	var p Parser
	p.sc = &scanner.Scanner{}
	p.sc.Init(name, src, func(pos token.Pos, msg string) {
		p.errs = append(p.errs, fmt.Errorf("%s: %s", posString(pos), msg))
	})
	p.next()

	prog := &ast.Program{Name: name}
	func() {
		defer p.recover()
		for p.tok != token.EOF {
			prog.Stmts = append(prog.Stmts, p.topLevelDecl())
		}
	}()
	return prog, p.errs
}

func posString(pos token.Pos) string {
	line, col := pos.LineCol()
	return fmt.Sprintf("%d:%d", line, col)
}

// parseError is panicked by expect/fail and recovered at the top of
// Parse, so that a single syntax error does not require every call site
// to thread an error return.
type parseError struct{ err error }

func (p *Parser) recover() {
	if r := recover(); r != nil {
		if pe, ok := r.(parseError); ok {
			p.errs = append(p.errs, pe.err)
			return
		}
		panic(r)
	}
}

func (p *Parser) fail(format string, args ...any) {
	panic(parseError{fmt.Errorf("%s: %s", posString(p.val.Pos), fmt.Sprintf(format, args...))})
}

func (p *Parser) next() {
	if p.haveNext {
		p.tok, p.val = p.nextTok, p.nextVal
		p.haveNext = false
		return
	}
	p.tok = p.sc.Scan(&p.val)
}

// peekNext returns the token following the current one, buffering it so
// the next call to next() returns it without rescanning. Used to
// disambiguate a tree modifier statement ("ident { ... }") from a
// statement beginning with an identifier expression, and a cast from a
// parenthesized expression.
func (p *Parser) peekNext() token.Token {
	if !p.haveNext {
		p.nextTok = p.sc.Scan(&p.nextVal)
		p.haveNext = true
	}
	return p.nextTok
}

func (p *Parser) expect(tok token.Token) scanner.Value {
	if p.tok != tok {
		p.fail("expected %s, got %s", tok.GoString(), p.tok.GoString())
	}
	v := p.val
	p.next()
	return v
}

func (p *Parser) accept(tok token.Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}
