// Package strpool implements a fixed-capacity string interner used to
// copy identifiers and literals out of source buffers that may be
// discarded after compilation, and to manufacture temporary names during
// canonicalization.
package strpool

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// MaxLen is the maximum length, in bytes, of an interned string, matching
// the original engine's identifier buffer size.
const MaxLen = 64

// Pool interns strings, deduplicating repeated literals within a
// compilation unit.
type Pool struct {
	seen *swiss.Map[string, string]
	tmp  int
}

// New creates an empty Pool.
func New() *Pool {
	return &Pool{seen: swiss.NewMap[string, string](64)}
}

// Intern returns a canonical copy of s. Calling Intern twice with equal
// strings returns the same underlying string value. It errors if s
// exceeds MaxLen.
func (p *Pool) Intern(s string) (string, error) {
	if len(s) > MaxLen {
		return "", fmt.Errorf("strpool: identifier %q exceeds maximum length %d", s, MaxLen)
	}
	if v, ok := p.seen.Get(s); ok {
		return v, nil
	}
	cp := string([]byte(s))
	p.seen.Put(s, cp)
	return cp, nil
}

// Temp manufactures a fresh compiler-generated temporary name, such as
// "$t0", "$t1", guaranteed not to collide with source identifiers (which
// cannot start with '$').
func (p *Pool) Temp() string {
	name := fmt.Sprintf("$t%d", p.tmp)
	p.tmp++
	return name
}

// Reset clears all interned strings and the temporary-name counter.
func (p *Pool) Reset() {
	p.seen = swiss.NewMap[string, string](64)
	p.tmp = 0
}
