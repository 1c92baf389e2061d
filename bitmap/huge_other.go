//go:build unix && !linux

package bitmap

func adviseHuge(data []byte) error { return nil }
