package bitmap

import (
	"testing"
	"unsafe"

	"github.com/zeebo/assert"
)

func TestBitmap(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		_, err := New(0)
		assert.Error(t, err)
	})

	t.Run("TooLarge", func(t *testing.T) {
		for _, size := range []uint64{maxSize + 1, 1 << 61, 1<<61 + 1, 1 << 63, 1<<64 - 1} {
			_, err := New(size)
			assert.Error(t, err)
		}
		assert.That(t, (maxSize+wordSize)*8 <= uint64(maxInt))
	})

	t.Run("Fresh", func(t *testing.T) {
		bm, err := New(4096)
		assert.NoError(t, err)
		defer bm.Close()

		assert.Equal(t, bm.Size(), uint64(4096))
		assert.Equal(t, bm.Bits(), uint64(4096*8))
		assert.Equal(t, len(bm.Bytes()), 4096)
		assert.Equal(t, bm.Count(), uint64(0))

		for _, b := range bm.Bytes() {
			assert.Equal(t, b, byte(0))
		}
	})

	t.Run("Aligned", func(t *testing.T) {
		for _, size := range []uint64{1, 7, 8, 9, 1000, 1 << 20} {
			bm, err := New(size)
			assert.NoError(t, err)

			h := bm.Handle()
			assert.That(t, h.Valid())
			assert.Equal(t, uintptr(h.Base())%8, uintptr(0))
			assert.Equal(t, h.Bits(), size*8)
			assert.Equal(t, len(bm.words), int((size+7)/8))

			assert.NoError(t, bm.Close())
		}
	})

	t.Run("Count", func(t *testing.T) {
		bm, err := New(16)
		assert.NoError(t, err)
		defer bm.Close()

		b := bm.Bytes()
		b[0] = 0b0000_0101
		b[9] = 0b1000_0000
		b[15] = 0b1000_0000

		assert.Equal(t, bm.Count(), uint64(4))

		rb := bm.Indices()
		assert.Equal(t, rb.GetCardinality(), uint64(4))
		assert.DeepEqual(t, rb.ToArray(), []uint64{0, 2, 79, 127})
	})

	t.Run("Close", func(t *testing.T) {
		bm, err := New(64)
		assert.NoError(t, err)

		assert.NoError(t, bm.Close())
		assert.NoError(t, bm.Close())
		assert.That(t, !bm.Handle().Valid())
		assert.That(t, bm.Bytes() == nil)
	})
}

func TestHandleShared(t *testing.T) {
	bm, err := New(64)
	assert.NoError(t, err)
	defer bm.Close()

	h1, h2 := bm.Handle(), bm.Handle()
	assert.Equal(t, h1, h2)

	*(*byte)(unsafe.Add(h1.Base(), 3)) = 0xff
	assert.Equal(t, bm.Bytes()[3], byte(0xff))
	assert.Equal(t, bm.Count(), uint64(8))
}
