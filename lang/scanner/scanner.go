// Package scanner tokenizes BlockScript source text for the parser.
//
// The overall structure (character-class-driven Scan loop, explicit
// advance/peek, pos-carrying token values) follows the teacher's own
// scanner package; the character classes and literal grammar are
// BlockScript's C-style grammar rather than Starlark's.
package scanner

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/voxelforge/blockscript/lang/token"
)

// Value carries the literal payload of a scanned token alongside its
// source position.
type Value struct {
	Pos    token.Pos
	Raw    string
	Int    int64
	Float  float64
	String string
}

// ErrorHandler is called for each lexical error encountered while
// scanning.
type ErrorHandler func(pos token.Pos, msg string)

// Scanner tokenizes a single source buffer.
type Scanner struct {
	name string
	src  []byte
	err  ErrorHandler

	cur  rune
	off  int
	roff int
	line int
	col  int
}

// Init prepares the scanner to tokenize src. name is used only for error
// messages.
func (s *Scanner) Init(name string, src []byte, errHandler ErrorHandler) {
	s.name = name
	s.src = src
	s.err = errHandler
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.advance()
}

func (s *Scanner) pos() token.Pos {
	line, col := s.line, s.col
	if line > token.MaxLines {
		line = token.MaxLines
	}
	if col > token.MaxCols {
		col = token.MaxCols
	}
	return token.MakePos(line, col)
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error("illegal UTF-8 encoding")
		}
	}
	s.roff += w
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.col++
	s.cur = r
}

func (s *Scanner) advanceIf(b byte) bool {
	if s.cur == rune(b) {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) error(msg string) {
	if s.err != nil {
		s.err(s.pos(), msg)
	}
}

func (s *Scanner) errorf(format string, args ...any) {
	s.error(fmt.Sprintf(format, args...))
}

// Scan returns the next token and fills val with its literal payload.
func (s *Scanner) Scan(val *Value) token.Token {
	s.skipWhitespaceAndComments()

	pos := s.pos()
	var tok token.Token

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.Lookup(lit)
		*val = Value{Raw: lit, Pos: pos}

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		t, lit := s.number()
		tok = t
		*val = Value{Raw: lit, Pos: pos}
		if tok == token.INT {
			val.Int = parseInt(lit)
		} else {
			val.Float = parseFloat(lit)
		}

	case cur == '"':
		lit, str := s.shortString()
		tok = token.STRING
		*val = Value{Raw: lit, Pos: pos, String: str}

	default:
		s.advance()
		switch cur {
		case '=':
			tok = token.EQ
			if s.advanceIf('=') {
				tok = token.EQL
			}
		case '!':
			tok = token.NOT
			if s.advanceIf('=') {
				tok = token.NEQ
			}
		case '<':
			tok = token.LT
			if s.advanceIf('=') {
				tok = token.LE
			}
		case '>':
			tok = token.GT
			if s.advanceIf('=') {
				tok = token.GE
			}
		case '&':
			tok = token.ILLEGAL
			if s.advanceIf('&') {
				tok = token.AND
			}
		case '|':
			tok = token.ILLEGAL
			if s.advanceIf('|') {
				tok = token.OR
			}
		case '-':
			tok = token.MINUS
			if s.advanceIf('>') {
				tok = token.ARROW
			}
		case '+':
			tok = token.PLUS
		case '*':
			tok = token.STAR
		case '/':
			tok = token.SLASH
		case '%':
			tok = token.PERCENT
		case '.':
			tok = token.DOT
		case ',':
			tok = token.COMMA
		case ';':
			tok = token.SEMI
		case ':':
			tok = token.COLON
		case '(':
			tok = token.LPAREN
		case ')':
			tok = token.RPAREN
		case '[':
			tok = token.LBRACK
		case ']':
			tok = token.RBRACK
		case '{':
			tok = token.LBRACE
		case '}':
			tok = token.RBRACE
		case -1:
			tok = token.EOF
		default:
			s.errorf("illegal character %#U", cur)
			tok = token.ILLEGAL
		}
		*val = Value{Raw: tok.String(), Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			s.advance()
			s.advance()
			for {
				if s.cur == -1 {
					s.error("unterminated block comment")
					return
				}
				if s.cur == '*' && s.peek() == '/' {
					s.advance()
					s.advance()
					break
				}
				s.advance()
			}
		default:
			return
		}
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isDecimal(rn rune) bool { return isDigit(rn) }
