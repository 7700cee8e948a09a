// Package arena specializes the splitter to a single byte slab, adding
// aligned claims, typed views into claimed space, and an anonymous-mmap
// backing for callers that want the slab off the Go heap.
package arena

import (
	"unsafe"

	"github.com/modern-go/reflect2"
	"golang.org/x/sys/unix"

	"github.com/funny-falcon/syncsplit"
)

// Arena is a byte splitter over one fixed slab.
type Arena struct {
	*syncsplit.Splitter[byte]
	buf    []byte
	mapped bool
}

// New returns an Arena claiming out of a caller-provided slab.
func New(buf []byte) *Arena {
	return &Arena{Splitter: syncsplit.New(buf), buf: buf}
}

// Map returns an Arena backed by an anonymous private mapping of size bytes.
// Call Release to drop the mapping.
func Map(size int) (*Arena, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, err
	}
	a := New(buf)
	a.mapped = true
	return a, nil
}

// Release unmaps a Map-backed arena. No claimed range may be touched
// afterwards. It is a no-op for arenas over caller-provided slabs.
func (a *Arena) Release() error {
	if !a.mapped {
		return nil
	}
	a.mapped = false
	buf := a.buf
	a.buf = nil
	return unix.Munmap(buf)
}

// PopAligned claims n bytes rounded up to align. Offsets stay aligned as
// long as every claim on the arena agrees on align. align must be a power
// of two.
func (a *Arena) PopAligned(n, align int) ([]byte, int, bool) {
	if align <= 0 || align&(align-1) != 0 {
		panic("arena: align must be a power of two")
	}
	return a.PopN((n + align - 1) &^ (align - 1))
}

// Get points ptr, which must be a pointer to a pointer, at the bytes
// starting at off.
//
//	var rec *Record
//	a.Get(off, &rec)
func (a *Arena) Get(off int, ptr interface{}) {
	addr := unsafe.Pointer(&a.buf[off])
	*(*unsafe.Pointer)(reflect2.PtrOf(ptr)) = addr
}

// Bytes returns the whole backing slab.
func (a *Arena) Bytes() []byte {
	return a.buf
}
