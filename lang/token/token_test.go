package token

import "testing"

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestLookupKeyword(t *testing.T) {
	for word, tok := range keywords {
		if got := Lookup(word); got != tok {
			t.Errorf("Lookup(%q) = %v, want %v", word, got, tok)
		}
	}
	if got := Lookup("notAKeyword"); got != IDENT {
		t.Errorf("Lookup(notAKeyword) = %v, want IDENT", got)
	}
}

func TestIsKeyword(t *testing.T) {
	if !RETURN.IsKeyword() {
		t.Errorf("RETURN.IsKeyword() = false, want true")
	}
	if IDENT.IsKeyword() {
		t.Errorf("IDENT.IsKeyword() = true, want false")
	}
}
