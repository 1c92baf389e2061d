//go:build !linux

package launch

func allowedCPUs() ([]int, error) { return nil, nil }

func pin(cpu int) error { return nil }
