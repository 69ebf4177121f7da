package scanner

import (
	"testing"

	"github.com/voxelforge/blockscript/lang/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var s Scanner
	var errs []string
	s.Init("test", []byte(src), func(_ token.Pos, msg string) {
		errs = append(errs, msg)
	})
	var toks []token.Token
	var val Value
	for {
		tok := s.Scan(&val)
		toks = append(toks, tok)
		if tok == token.EOF {
			break
		}
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	return toks
}

func TestScanKeywordsAndIdents(t *testing.T) {
	got := scanAll(t, "if while return foo")
	want := []token.Token{token.IF, token.WHILE, token.RETURN, token.IDENT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScanNumbers(t *testing.T) {
	var s Scanner
	s.Init("test", []byte("42 3.14 1e3"), nil)
	var val Value
	tok := s.Scan(&val)
	if tok != token.INT || val.Int != 42 {
		t.Fatalf("got %v %+v, want INT 42", tok, val)
	}
	tok = s.Scan(&val)
	if tok != token.FLOAT || val.Float != 3.14 {
		t.Fatalf("got %v %+v, want FLOAT 3.14", tok, val)
	}
	tok = s.Scan(&val)
	if tok != token.FLOAT || val.Float != 1000 {
		t.Fatalf("got %v %+v, want FLOAT 1000", tok, val)
	}
}

func TestScanStringAndComments(t *testing.T) {
	got := scanAll(t, `"hello" // a comment
/* block */ 1`)
	want := []token.Token{token.STRING, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestScanOperators(t *testing.T) {
	got := scanAll(t, "<= >= == != && || -> !")
	want := []token.Token{
		token.LE, token.GE, token.EQL, token.NEQ, token.AND, token.OR, token.ARROW, token.NOT, token.EOF,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
