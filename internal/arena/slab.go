package arena

import "unsafe"

// Slab is a growable, page-indexed sequence of T. Element i lives on page
// i/perPage at offset i%perPage, mirroring the original engine's
// page-indexed container: growth allocates one page of pointers at a
// time instead of reallocating and copying a single backing array, so
// existing *T values returned by PushEmpty/At stay valid across growth.
//
// Elements are individually heap-allocated rather than packed into a
// shared Arena's byte pages: every concrete T used in this codebase
// (type descriptors, function descriptors, frame records, heap slots)
// holds Go pointers (child *Type, []FuncDesc argument slices, the any
// in a heap slot, ...), and placing a pointer-containing value inside
// memory the garbage collector was told is an opaque []byte is unsound —
// the collector's pointer bitmap for that allocation says "no pointers
// here", so any pointer stored there by a later *T write can be
// collected out from under it. perPg is still sized against a byte
// budget (via unsafe.Sizeof) purely to match the original container's
// "N elements per page" granularity; no Arena-backed bytes are involved.
type Slab[T any] struct {
	pages [][]*T
	len   int
	perPg int
}

// NewSlab creates a Slab sized so each page holds roughly pageSize bytes
// worth of T (0 means PageSize).
func NewSlab[T any](pageSize int) *Slab[T] {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	perPg := pageSize / elemStride[T]()
	if perPg < 1 {
		perPg = 1
	}
	return &Slab[T]{perPg: perPg}
}

// elemStride reports sizeof(T), used only to size perPg.
func elemStride[T any]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// Len returns the number of live elements.
func (s *Slab[T]) Len() int { return s.len }

// PushEmpty appends a zero-value T and returns a pointer to it in place.
func (s *Slab[T]) PushEmpty() *T {
	pageIdx := s.len / s.perPg
	for pageIdx >= len(s.pages) {
		page := make([]*T, s.perPg)
		for i := range page {
			var v T
			page[i] = &v
		}
		s.pages = append(s.pages, page)
	}
	offset := s.len % s.perPg
	el := s.pages[pageIdx][offset]
	var z T
	*el = z // an element reused after Pop or Reset still holds old contents
	s.len++
	return el
}

// At returns a pointer to the element at index i. It panics if i is out
// of range.
func (s *Slab[T]) At(i int) *T {
	if i < 0 || i >= s.len {
		panic("arena: slab index out of range")
	}
	return s.pages[i/s.perPg][i%s.perPg]
}

// Pop shrinks the logical length by one.
func (s *Slab[T]) Pop() {
	if s.len == 0 {
		panic("arena: pop of empty slab")
	}
	s.len--
}

// Reset truncates the slab back to zero length. Page buffers and their
// elements are retained for reuse; PushEmpty zeroes each element as it
// hands it out again.
func (s *Slab[T]) Reset() {
	s.len = 0
}
