// Package vm implements the canonical-instruction interpreter: register
// file, growable stack RAM, heap slot table for host object handles, and
// the fetch-execute loop over a lang/canon.Assembly.
//
// The register file and frame-header/sentinel protocol follow spec.md
// §4.7 verbatim; the Go realization collapses each function's locals and
// temporaries into a single RAM frame (matching lang/builder's one-frame-
// per-function model), so frame-relative addressing here is always
// relative to the current SBP rather than walking a FrameOffset chain —
// see DESIGN.md for the reasoning.
package vm

import (
	"context"
	"time"

	"github.com/voxelforge/blockscript/internal/arena"
	"github.com/voxelforge/blockscript/lang/canon"
	"github.com/voxelforge/blockscript/lang/symbol"
)

// frameHeaderSize is the fixed-size record written immediately below
// every non-bootstrap stack frame: previous SBP, saved IP, saved call
// stack depth marker, and a sentinel magic value, each a 4-byte field.
const frameHeaderSize = 16

// sentinelMagic is the fixed value written to every frame header and
// checked on every pop; a mismatch indicates stack corruption.
const sentinelMagic = 0xB10C5C8C

// Logger receives diagnostic output from the VM: Run writes each runtime
// error it returns from Step to it. A minimal Printf-shaped interface, so
// hosts can plug in whatever structured logger they already use.
type Logger interface {
	Printf(format string, args ...any)
}

// Reg holds the VM's register file. RET/A/B/C are scratch registers wide
// enough to hold the largest ALU value (a float4, 16 bytes); only the
// low Size bytes of a read are meaningful for narrower values.
type Reg struct {
	RET, A, B, C [16]byte
	G            int // global frame base (byte offset into ram)
	SBP          int // current frame base
	ESP          int // top of stack
	IP           int // instruction index within the current block
	Block        string
}

// HeapSlot is one entry of the VM's heap slot table: a borrowed host
// object pointer together with the type descriptor it was registered
// under, so ReadObjProp/WriteObjProp can validate property access.
type HeapSlot struct {
	Ptr  any
	Type *symbol.Type
}

// callFrame is the VM's control-flow call stack: one entry per active
// FunGo, giving Ret the caller's function, resume point, and saved SBP.
// It is kept alongside (not instead of) the RAM frame header so the
// header's sentinel can still be checked on every Ret, matching the
// reference engine's "walk and verify" discipline even though this
// simplified VM does not need to walk it to find the caller.
type callFrame struct {
	callerFn    *canon.Function
	callerBlock string
	resumeIP    int
	callerSBP   int
}

// pendingCall carries the caller context captured by FunGo across the
// jump into the callee's entry block, consumed by that block's own
// PushFrame instruction.
type pendingCall struct {
	callerFn    *canon.Function
	callerBlock string
	resumeIP    int
	callerSBP   int
}

// State is one VM instance: register file, stack RAM, heap table, and
// the bookkeeping needed to run a lang/canon.Assembly. The zero value is
// not ready to use; call Initialize.
type State struct {
	Reg Reg

	ram  []byte
	heap *arena.Slab[HeapSlot]

	curFn   *canon.Function
	calls   []callFrame
	pending *pendingCall
	nesting int // -1 means no frame pushed yet

	Logger Logger

	// Props dispatches ReadObjProp/WriteObjProp to host state through a
	// capability interface rather than a raw callback pointer, per the
	// "Property callbacks as opaque function pointers" design note. Left
	// nil, every object property access is a runtime error.
	Props PropertyAccessor

	// Intrinsics holds every host-registered callback reachable by a
	// FunGo with IsIntrinsic set, keyed by function name. Populated by
	// lang/interop when a library is linked in; a name with no entry is
	// a runtime error, not a panic.
	Intrinsics map[string]IntrinsicFunc

	// Context and development-build guards against runaway scripts,
	// mirroring machine.Thread's ctx/steps/maxSteps fields.
	Ctx        context.Context
	MaxSteps   int
	TimeBudget time.Duration
	steps      int
	started    time.Time
}

// New creates a State ready for Initialize.
func New() *State {
	return &State{heap: arena.NewSlab[HeapSlot](arena.PageSize), nesting: -1}
}

// Initialize resets s and points it at fn's entry block, ready for Run or
// repeated Step calls. It passes no arguments to fn: fn's frame is
// created, zeroed, by its leading PushFrame on the first Step. A call
// with arguments goes through CallFunction instead.
func (s *State) Initialize(fn *canon.Function) {
	s.Reset()
	s.curFn = fn
	s.Reg.Block = fn.EntryLabel
	s.Reg.IP = 0
}

// Reset releases all stack RAM and heap slots and returns s to its
// pristine, unstarted state.
func (s *State) Reset() {
	s.ram = s.ram[:0]
	s.heap.Reset()
	s.curFn = nil
	s.calls = nil
	s.pending = nil
	s.nesting = -1
	s.Reg = Reg{}
	s.steps = 0
}

// Nesting returns the current call depth; -1 before the first frame is
// pushed, 0 at the global frame, and higher while inside nested calls.
func (s *State) Nesting() int { return s.nesting }

// growRAM extends the stack RAM by n bytes, rounded up to a whole number
// of arena pages, and returns the byte offset at which the new region
// starts. RAM is a flat, shrinkable slice rather than a literal
// arena.Arena: the arena's bump allocator has no shrink operation, which
// the stack's Ret-time "grow on call, shrink on return" discipline needs,
// so only the page-size growth granularity is shared with arena.PageSize.
func (s *State) growRAM(n int) int {
	start := len(s.ram)
	need := start + n
	if need <= cap(s.ram) {
		s.ram = s.ram[:need]
		for i := start; i < need; i++ {
			s.ram[i] = 0
		}
		return start
	}
	pages := (need + arena.PageSize - 1) / arena.PageSize
	grown := make([]byte, need, pages*arena.PageSize)
	copy(grown, s.ram)
	s.ram = grown
	return start
}

func (s *State) shrinkRAMTo(n int) {
	s.ram = s.ram[:n]
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// writeFrameHeader writes a non-bootstrap frame header at ram[off:off+16].
func (s *State) writeFrameHeader(off, prevSBP, resumeIP int) {
	h := s.ram[off : off+frameHeaderSize]
	putU32(h[0:4], uint32(prevSBP))
	putU32(h[4:8], uint32(resumeIP))
	putU32(h[8:12], uint32(len(s.calls)))
	putU32(h[12:16], sentinelMagic)
}

// checkFrameHeader verifies the sentinel of the header immediately below
// the current frame base. A mismatch is stack corruption: per spec.md §7
// this is a fatal assertion in development builds, so it panics rather
// than returning an error; callers that cross a host boundary (notably
// interop.ExecuteFunction) recover it by default and report it as a
// runtime error, except under the blockscript_strict build tag.
func (s *State) checkFrameHeader() {
	off := s.Reg.SBP - frameHeaderSize
	if off < 0 || off+frameHeaderSize > len(s.ram) {
		panic(&RuntimeError{Op: "ret", Err: ErrStackCorruption})
	}
	h := s.ram[off : off+frameHeaderSize]
	if getU32(h[12:16]) != sentinelMagic {
		panic(&RuntimeError{Op: "ret", Err: ErrStackCorruption})
	}
}
