package index

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Seed returns a non-zero starting state for worker id, taken from the cycle
// counter. Threads started in the same tick still get distinct states.
func Seed(id int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], cycles())
	binary.LittleEndian.PutUint64(buf[8:16], uint64(id))

	s := xxh3.Hash(buf[:])
	if s == 0 {
		s = ConstantIndex
	}
	return s
}
