//go:build !linux

package parallel

// pinCPU is a no-op on platforms without thread affinity support.
func pinCPU(int) {}
