package mount

import (
	"fmt"
	"strings"
)

// Mount describes a single mount point, Options is the comma separated
// fstab style option list (e.g. "nosuid,nodev,noexec" or "bind,ro")
type Mount struct {
	Source, Target, FsType, Options string
}

// IsBindMount returns if it is a bind mount
func (m Mount) IsBindMount() bool {
	return m.hasOption("bind") || m.hasOption("rbind")
}

// IsReadOnly returns if it is a readonly mount
func (m Mount) IsReadOnly() bool {
	return m.hasOption("ro")
}

func (m Mount) hasOption(o string) bool {
	for _, v := range strings.Split(m.Options, ",") {
		if v == o {
			return true
		}
	}
	return false
}

func (m Mount) String() string {
	switch {
	case m.IsBindMount():
		flag := "rw"
		if m.IsReadOnly() {
			flag = "ro"
		}
		return fmt.Sprintf("bind[%s:%s:%s]", m.Source, m.Target, flag)

	case m.FsType == "tmpfs":
		return fmt.Sprintf("tmpfs[%s]", m.Target)

	case m.FsType == "proc", m.FsType == "sysfs":
		return fmt.Sprintf("%s[%s]", m.FsType, m.Target)

	default:
		return fmt.Sprintf("mount[%s,%s:%s:%s]", m.FsType, m.Source, m.Target, m.Options)
	}
}
