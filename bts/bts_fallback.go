package bts

import (
	"sync/atomic"
	"unsafe"
)

func word(base unsafe.Pointer, idx uint64) *uint64 {
	return (*uint64)(unsafe.Add(base, (idx>>6)<<3))
}

// SetAtomicFallback is the portable form of SetAtomic.
func SetAtomicFallback(base unsafe.Pointer, idx uint64) {
	atomic.OrUint64(word(base, idx), 1<<(idx&63))
}

// SetManualFallback is the portable form of SetManual. It races with every
// other writer of the same word.
func SetManualFallback(base unsafe.Pointer, idx uint64) {
	w := word(base, idx)
	v := *w
	m := uint64(1) << (idx & 63)
	if v&m != 0 {
		return
	}
	*w = v | m
}
