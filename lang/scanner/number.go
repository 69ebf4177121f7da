package scanner

import (
	"strconv"

	"github.com/voxelforge/blockscript/lang/token"
)

func (s *Scanner) number() (token.Token, string) {
	start := s.off
	tok := token.INT

	for isDecimal(s.cur) {
		s.advance()
	}
	if s.cur == '.' {
		tok = token.FLOAT
		s.advance()
		for isDecimal(s.cur) {
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		tok = token.FLOAT
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		if !isDecimal(s.cur) {
			s.error("exponent has no digits")
		}
		for isDecimal(s.cur) {
			s.advance()
		}
	}
	return tok, string(s.src[start:s.off])
}

func parseInt(lit string) int64 {
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func parseFloat(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
