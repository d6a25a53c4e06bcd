package cgroup

// Cgroup defines the common interface to control the per-container cgroup
// including v1 and v2 implementations.
type Cgroup interface {
	// AddProc add a process into the cgroup
	AddProc(pid ...int) error

	// Destroy deletes the cgroup
	Destroy() error

	// SetCPUBandwidth sets the cpu bandwidth. Times in us
	SetCPUBandwidth(quota, period uint64) error

	// SetMemoryLimit sets the memory limit from a human readable size (e.g. 100m)
	SetMemoryLimit(size string) error
}
