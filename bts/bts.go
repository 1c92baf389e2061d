// Package bts sets single bits in a shared buffer using one of two
// strategies whose cost under contention is being compared.
//
// Both strategies treat base as the start of a little endian bit string: bit
// idx lives in byte idx/8 at bit idx%8. Callers guarantee that idx is below
// the number of bits addressable from base and that base is 8 byte aligned.
package bts

import (
	"fmt"
	"unsafe"

	"github.com/zeebo/errs/v2"
)

// Strategy selects how a bit is set.
type Strategy uint8

const (
	// Atomic uses a single locked read-modify-write against memory.
	Atomic Strategy = iota

	// Manual loads the word, sets the bit in a register and stores the word
	// back only if the bit was clear. It is not atomic: concurrent writers to
	// the same word lose updates.
	Manual
)

// Func returns the setter for the strategy.
func (s Strategy) Func() func(base unsafe.Pointer, idx uint64) {
	if s == Manual {
		return SetManual
	}
	return SetAtomic
}

func (s Strategy) String() string {
	switch s {
	case Atomic:
		return "atomic"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Strategy) UnmarshalText(b []byte) error {
	switch string(b) {
	case "atomic":
		*s = Atomic
	case "manual":
		*s = Manual
	default:
		return errs.Errorf("unknown strategy: %q", b)
	}
	return nil
}

// SetAtomic sets bit idx. Safe against concurrent SetAtomic calls on the same
// word.
func SetAtomic(base unsafe.Pointer, idx uint64) { setAtomic(base, idx) }

// SetManual sets bit idx with a plain load and a conditional store.
func SetManual(base unsafe.Pointer, idx uint64) { setManual(base, idx) }
