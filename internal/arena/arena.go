// Package arena implements a page-based bump allocator (Arena) and a
// page-indexed container (Slab). Slab backs the compiler's type, function
// and frame tables and the VM's heap slot table; neither Slab nor the VM's
// stack RAM allocates from an Arena. Individual Arena allocations are
// never freed; the whole arena is rewound with Reset or released with
// Release.
package arena

// PageSize is the default page size in bytes, shared with the VM's RAM
// page size.
const PageSize = 512

// Arena is a page-based bump allocator. The zero value is ready to use.
type Arena struct {
	pageSize int
	pages    [][]byte
	cursor   int // offset into the last page
}

// New creates an Arena with the given page size. A pageSize of 0 uses
// PageSize.
func New(pageSize int) *Arena {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Arena{pageSize: pageSize}
}

// Alloc returns a zeroed byte slice of length n, backed by the arena.
func (a *Arena) Alloc(n int) []byte {
	if n <= 0 {
		return nil
	}
	if len(a.pages) == 0 || a.cursor+n > len(a.pages[len(a.pages)-1]) {
		size := a.pageSize
		if n > size {
			size = n
		}
		if k := len(a.pages); k < cap(a.pages) && len(a.pages[:k+1][k]) >= size {
			a.pages = a.pages[:k+1] // reuse a page retained (and zeroed) by Reset
		} else {
			a.pages = append(a.pages, make([]byte, size))
		}
		a.cursor = 0
	}
	page := a.pages[len(a.pages)-1]
	b := page[a.cursor : a.cursor+n]
	a.cursor += n
	return b
}

// Reset rewinds the arena to empty without releasing its pages, so
// subsequent allocations reuse the existing backing memory.
func (a *Arena) Reset() {
	for _, p := range a.pages {
		for i := range p {
			p[i] = 0
		}
	}
	a.pages = a.pages[:0]
	a.cursor = 0
}

// Release drops all pages. The arena must not be used afterward without
// calling New again or relying on Alloc to allocate a fresh page.
func (a *Arena) Release() {
	a.pages = nil
	a.cursor = 0
}
