package cgroup

const (
	// systemd mounted cgroups
	basePath = "/sys/fs/cgroup"

	cgroupProcs          = "cgroup.procs"
	cgroupSubtreeControl = "cgroup.subtree_control"
	cgroupControllers    = "cgroup.controllers"

	filePerm = 0644
	dirPerm  = 0755

	CPU    = "cpu"
	Memory = "memory"

	// DefaultCPUPeriod is the cfs period in us used to compute the cpu quota
	DefaultCPUPeriod = 100000
)

// CgroupType is the cgroup hierarchy version
type CgroupType int

const (
	TypeV1 CgroupType = iota + 1
	TypeV2
)

func (t CgroupType) String() string {
	switch t {
	case TypeV1:
		return "v1"
	case TypeV2:
		return "v2"
	default:
		return "invalid"
	}
}
