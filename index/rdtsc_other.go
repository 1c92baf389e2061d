//go:build !(amd64 && gc)
// +build !amd64 !gc

package index

import "github.com/zeebo/mwc"

// No portable cycle counter; a freshly seeded generator is as good a source
// of per-thread entropy.
func cycles() uint64 { return mwc.Rand().Uint64() }
