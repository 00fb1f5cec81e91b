//go:build linux

package parallel

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinCPU gives the calling thread a soft affinity hint for the given CPU.
// The hint is advisory: failures are ignored and the scheduler remains
// free to migrate the thread if the mask cannot be applied.
func pinCPU(cpu int) {
	n := runtime.NumCPU()
	if n <= 1 {
		return
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu % n)
	_ = unix.SchedSetaffinity(0, &set)
}
