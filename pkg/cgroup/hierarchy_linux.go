package cgroup

import (
	"path"
	"strings"

	"github.com/moby/sys/mountinfo"
)

// hierarchyFunc resolves the v1 hierarchy mount point of a controller
type hierarchyFunc func(controller string) (string, error)

// fixedHierarchy assumes each controller is mounted at root/<controller>
func fixedHierarchy(root string) hierarchyFunc {
	return func(controller string) (string, error) {
		return path.Join(root, controller), nil
	}
}

// mountedHierarchy finds the controller in the mount table, since co-mounted
// controllers (e.g. cpu,cpuacct) live under a combined directory
func mountedHierarchy(controller string) (string, error) {
	mounts, err := mountinfo.GetMounts(mountinfo.FSTypeFilter("cgroup"))
	if err != nil {
		return "", err
	}
	for _, m := range mounts {
		for _, opt := range strings.Split(m.VFSOptions, ",") {
			if opt == controller {
				return m.Mountpoint, nil
			}
		}
	}
	return path.Join(basePath, controller), nil
}
