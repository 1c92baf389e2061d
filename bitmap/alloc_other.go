//go:build !unix

package bitmap

func alloc(words uint64) ([]uint64, func() error, error) {
	return make([]uint64, words), func() error { return nil }, nil
}
