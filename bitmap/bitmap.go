// Package bitmap allocates the fixed size bit array shared by every worker.
//
// The buffer is handed to workers as a Handle: a bare base pointer and a bit
// count with no ownership. The T that produced it must stay open until every
// goroutine holding the Handle has returned. Nothing in the type system checks
// this; callers allocate before spawning and Close only after joining.
package bitmap

import (
	"math/bits"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/zeebo/errs/v2"
)

const wordSize = 8

// T owns a zero initialized, word aligned buffer.
type T struct {
	_ [0]func() // no equality

	size  uint64
	words []uint64
	free  func() error
}

// New allocates a buffer with size addressable bytes. The backing memory is
// rounded up to whole 64 bit words so that word sized accesses to the last
// addressable bit stay in bounds.
func New(size uint64) (*T, error) {
	if size == 0 {
		return nil, errs.Errorf("bitmap size must be positive")
	}
	if size > maxSize {
		return nil, errs.Errorf("bitmap size too large: %d", size)
	}

	words, free, err := alloc((size + wordSize - 1) / wordSize)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	return &T{size: size, words: words, free: free}, nil
}

const (
	maxInt = int(^uint(0) >> 1)

	// maxSize keeps Bits() and the rounded mapping length in range.
	maxSize = uint64(maxInt)/8 - wordSize
)

// Size returns the number of addressable bytes.
func (t *T) Size() uint64 { return t.size }

// Bits returns the number of addressable bits.
func (t *T) Bits() uint64 { return t.size * 8 }

// Bytes returns the addressable bytes. Bit i lives in Bytes()[i/8] at bit i%8.
func (t *T) Bytes() []byte {
	if len(t.words) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&t.words[0])), t.size)
}

// Handle returns the non-owning view handed to workers.
func (t *T) Handle() Handle {
	if len(t.words) == 0 {
		return Handle{}
	}
	return Handle{base: unsafe.Pointer(&t.words[0]), bits: t.Bits()}
}

// Count returns the number of set bits.
func (t *T) Count() (n uint64) {
	for _, w := range t.words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// Indices returns every set bit index.
func (t *T) Indices() *roaring64.Bitmap {
	rb := roaring64.NewBitmap()
	for i, w := range t.words {
		for w != 0 {
			rb.Add(uint64(i)*64 + uint64(bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	return rb
}

// Close releases the buffer. Every Handle derived from t is invalid after.
func (t *T) Close() error {
	if t.free == nil {
		return nil
	}
	free := t.free
	t.free, t.words = nil, nil
	return errs.Wrap(free())
}

// Handle is a shared view of a T's buffer. Copies are cheap and all refer to
// the same memory; no copy keeps the buffer alive past Close.
type Handle struct {
	base unsafe.Pointer
	bits uint64
}

func (h Handle) Base() unsafe.Pointer { return h.base }
func (h Handle) Bits() uint64         { return h.bits }
func (h Handle) Valid() bool          { return h.base != nil && h.bits > 0 }
