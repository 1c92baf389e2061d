//go:build !(amd64 && gc)
// +build !amd64 !gc

package bts

import "unsafe"

func setAtomic(base unsafe.Pointer, idx uint64) { SetAtomicFallback(base, idx) }
func setManual(base unsafe.Pointer, idx uint64) { SetManualFallback(base, idx) }

const Native = false
