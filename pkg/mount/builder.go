package mount

import "strings"

// pseudoOptions are the options of the kernel pseudo file systems
const pseudoOptions = "nosuid,nodev,noexec"

// Builder builds the mount table performed inside the container
type Builder struct {
	Mounts []Mount
}

// NewBuilder creates new mount builder instance
func NewBuilder() *Builder {
	return &Builder{}
}

// NewDefaultBuilder creates builder with /proc and /sys mounted
func NewDefaultBuilder() *Builder {
	return NewBuilder().WithProc().WithSysfs()
}

// WithBind adds a bind mount to builder
func (b *Builder) WithBind(source, target string, readonly bool) *Builder {
	opts := "bind,nosuid"
	if readonly {
		opts += ",ro"
	}
	b.Mounts = append(b.Mounts, Mount{
		Source:  source,
		Target:  target,
		Options: opts,
	})
	return b
}

// WithTmpfs add a tmpfs mount to builder
func (b *Builder) WithTmpfs(target, data string) *Builder {
	opts := "nosuid,nodev,noatime"
	if data != "" {
		opts += "," + data
	}
	b.Mounts = append(b.Mounts, Mount{
		Source:  "tmpfs",
		Target:  target,
		FsType:  "tmpfs",
		Options: opts,
	})
	return b
}

// WithProc add proc file system at /proc
func (b *Builder) WithProc() *Builder {
	b.Mounts = append(b.Mounts, Mount{
		Source:  "proc",
		Target:  "/proc",
		FsType:  "proc",
		Options: pseudoOptions,
	})
	return b
}

// WithSysfs add sysfs file system at /sys
func (b *Builder) WithSysfs() *Builder {
	b.Mounts = append(b.Mounts, Mount{
		Source:  "sysfs",
		Target:  "/sys",
		FsType:  "sysfs",
		Options: pseudoOptions,
	})
	return b
}

func (b Builder) String() string {
	var sb strings.Builder
	sb.WriteString("Mounts: ")
	for i, m := range b.Mounts {
		sb.WriteString(m.String())
		if i != len(b.Mounts)-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}
