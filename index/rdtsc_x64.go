//go:build amd64 && gc
// +build amd64,gc

package index

// rdtsc reads the time stamp counter.
func rdtsc() uint64

func cycles() uint64 { return rdtsc() }
