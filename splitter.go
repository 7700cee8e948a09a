// Package syncsplit lets many goroutines split one pre-sized mutable slice
// at the same time.
//
// A Splitter hands out disjoint sub-ranges of a single backing slice through
// atomic claims, so parallel tree or DAG builders can place every node in one
// array instead of allocating per node. Claims only ever move forward; there
// is no free and no reuse. Once a claim does not fit, the splitter is
// exhausted and every later claim fails too.
package syncsplit

import "sync/atomic"

// Splitter allows concurrent claims of disjoint sub-ranges of a slice.
//
// The zero value is not usable; call New. A Splitter must not be copied.
// Claim methods may be called from any number of goroutines. Done requires
// all claimants to be joined first: the join barrier is also what publishes
// their writes into the slice to whoever reads it afterwards.
type Splitter[T any] struct {
	buf  []T
	next atomic.Int64
}

// New returns a Splitter claiming out of buf. The Splitter borrows buf for
// its whole lifetime; the caller must not touch the elements until all
// claimants are joined.
func New[T any](buf []T) *Splitter[T] {
	return &Splitter[T]{buf: buf}
}

// pop advances the cursor by n and returns the pre-advance index. A request
// longer than the whole buffer can never fit and fails without moving the
// cursor. A request longer than what remains pins the cursor to the
// capacity, so every later claim fails as well.
func (s *Splitter[T]) pop(n int64) (int64, bool) {
	ln := int64(len(s.buf))
	if n > ln {
		return 0, false
	}
	end := s.next.Add(n)
	if start := end - n; end <= ln && start < ln {
		return start, true
	}
	// The failed fetch-add may have left the cursor past the end; pin it
	// back so Done reports the real high-water mark.
	s.next.Store(ln)
	return 0, false
}

// Pop claims the next element, returning it and its index in the original
// slice. ok is false once the slice is exhausted.
func (s *Splitter[T]) Pop() (el *T, idx int, ok bool) {
	start, ok := s.pop(1)
	if !ok {
		return nil, 0, false
	}
	return &s.buf[start], int(start), true
}

// PopTwo claims two adjacent elements, returning both and the index of the
// first. Claiming a pair with a single element left exhausts the splitter
// and the leftover element is never handed out.
func (s *Splitter[T]) PopTwo() (first, second *T, idx int, ok bool) {
	start, ok := s.pop(2)
	if !ok {
		return nil, nil, 0, false
	}
	return &s.buf[start], &s.buf[start+1], int(start), true
}

// PopN claims n contiguous elements, returning them and their offset in the
// original slice. n may be zero: a zero-length claim yields an empty range
// at the current offset until the splitter is exhausted, then fails like any
// other. The result has cap == n, so appending to it cannot reach a
// neighbouring claim. Panics if n is negative.
func (s *Splitter[T]) PopN(n int) (sub []T, idx int, ok bool) {
	if n < 0 {
		panic("syncsplit: negative claim length")
	}
	start, ok := s.pop(int64(n))
	if !ok {
		return nil, 0, false
	}
	end := start + int64(n)
	return s.buf[start:end:end], int(start), true
}

// Done returns the number of claimed elements: the prefix of the original
// slice that was actually used, suitable for truncating it. Call Done only
// after joining all claimants; from then on the value is stable.
func (s *Splitter[T]) Done() int {
	return int(s.next.Load())
}

// Cap returns the size of the backing slice.
func (s *Splitter[T]) Cap() int {
	return len(s.buf)
}
