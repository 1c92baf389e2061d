package launch

import (
	"github.com/zeebo/errs/v2"
	"golang.org/x/sys/unix"
)

// allowedCPUs returns the CPUs the process may run on, in ascending order.
func allowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, errs.Wrap(err)
	}

	var cpus []int
	for cpu := 0; len(cpus) < set.Count(); cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}
	return cpus, nil
}

// pin binds the calling OS thread to cpu. The caller must hold the thread
// with runtime.LockOSThread.
func pin(cpu int) error {
	var set unix.CPUSet
	set.Set(cpu)
	return errs.Wrap(unix.SchedSetaffinity(0, &set))
}
