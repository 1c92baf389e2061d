//go:build amd64 && gc
// +build amd64,gc

package bts

import "unsafe"

// Issues `LOCK BTSQ idx, (base)`. The memory operand form addresses the bit
// string rooted at base, so idx may exceed 63.
//
//go:noescape
func setAtomicBTS(base unsafe.Pointer, idx uint64)

// Loads the aligned word holding idx, runs the register form of BTSQ, and
// skips the store when the carry flag says the bit was already set.
//
//go:noescape
func setManualBTS(base unsafe.Pointer, idx uint64)

func setAtomic(base unsafe.Pointer, idx uint64) { setAtomicBTS(base, idx) }
func setManual(base unsafe.Pointer, idx uint64) { setManualBTS(base, idx) }

// Native reports whether the setters are the assembly versions.
const Native = true
