//go:build unix

package bitmap

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// alloc maps anonymous memory outside of the Go heap. The kernel hands back
// zeroed, page aligned pages and the collector never scans or moves them.
func alloc(words uint64) ([]uint64, func() error, error) {
	data, err := unix.Mmap(-1, 0, int(words*wordSize),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}

	if err := adviseHuge(data); err != nil {
		_ = unix.Munmap(data)
		return nil, nil, err
	}

	ws := unsafe.Slice((*uint64)(unsafe.Pointer(&data[0])), words)
	return ws, func() error { return unix.Munmap(data) }, nil
}
