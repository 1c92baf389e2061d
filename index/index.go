// Package index produces the bit indexes workers operate on.
package index

import (
	"fmt"

	"github.com/zeebo/errs/v2"
)

// ConstantIndex is the index every worker targets in Constant mode.
const ConstantIndex = 123123

// Mode selects how indexes are produced.
type Mode uint8

const (
	// Constant always returns the same index. Every thread targets the same
	// cache line, which is the worst case for contention.
	Constant Mode = iota

	// Random returns xorshift indexes spread over the whole bitmap.
	Random
)

func (m Mode) String() string {
	switch m {
	case Constant:
		return "constant"
	case Random:
		return "random"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "constant":
		*m = Constant
	case "random":
		*m = Random
	default:
		return errs.Errorf("unknown index mode: %q", b)
	}
	return nil
}

// Xorshift advances a 64 bit xorshift state. Zero is a fixed point.
func Xorshift(x uint64) uint64 {
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 43
	return x
}

// Next returns the index for the given state and the state to use next time.
// bits must be non-zero.
func Next(mode Mode, state, bits uint64) (idx, next uint64) {
	if mode == Random {
		next = Xorshift(state)
		return next % bits, next
	}
	return ConstantIndex % bits, state
}

// Source is a per worker index generator. It is not safe for concurrent use.
type Source struct {
	mode  Mode
	state uint64
	bits  uint64
}

// NewSource returns a Source over [0, bits). bits must be non-zero.
func NewSource(mode Mode, seed, bits uint64) Source {
	return Source{mode: mode, state: seed, bits: bits}
}

// Next returns the next index.
func (s *Source) Next() (idx uint64) {
	idx, s.state = Next(s.mode, s.state, s.bits)
	return idx
}

func (s *Source) State() uint64 { return s.state }
