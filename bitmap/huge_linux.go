package bitmap

import "golang.org/x/sys/unix"

// adviseHuge asks for transparent huge pages to keep TLB misses out of the
// measurement. Kernels built without THP answer EINVAL, which is fine.
func adviseHuge(data []byte) error {
	err := unix.Madvise(data, unix.MADV_HUGEPAGE)
	if err == unix.EINVAL {
		return nil
	}
	return err
}
