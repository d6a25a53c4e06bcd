package cgroup

import (
	"errors"
	"fmt"
	"path"
)

// Limiter applies resource limits to a process inside a per-container
// sub-cgroup named <prefix>/<name>
type Limiter struct {
	// Root is the cgroup mount root, empty uses /sys/fs/cgroup. For v1 a
	// non-default root expects each controller at <root>/<controller>
	Root string

	// Type is the hierarchy version, zero detects from the mounted root
	Type CgroupType

	// Prefix is the parent group shared by all containers
	Prefix string

	// Period is the cfs period in us, zero uses DefaultCPUPeriod
	Period uint64
}

// NewLimiter creates limiter for the system mounted cgroup hierarchy
func NewLimiter(prefix string) *Limiter {
	return &Limiter{
		Root:   basePath,
		Type:   DetectType(),
		Prefix: prefix,
		Period: DefaultCPUPeriod,
	}
}

func (l *Limiter) String() string {
	return fmt.Sprintf("cgroup limiter(%v): %s", l.cgroupType(), path.Join(l.root(), l.Prefix))
}

// LimitCPU moves pid into the cpu sub-cgroup and caps it to fraction of a
// single core within each period
func (l *Limiter) LimitCPU(name string, pid int, fraction float64) error {
	period := l.period()
	quota, err := CPUQuota(fraction, period)
	if err != nil {
		return err
	}
	cg, err := l.open(name, &Controllers{CPU: true})
	if err != nil {
		return fmt.Errorf("cgroup: limit cpu %w", err)
	}
	if err := cg.AddProc(pid); err != nil {
		return fmt.Errorf("cgroup: limit cpu add proc %d: %w", pid, err)
	}
	if err := cg.SetCPUBandwidth(quota, period); err != nil {
		return fmt.Errorf("cgroup: limit cpu set bandwidth %d/%d: %w", quota, period, err)
	}
	return nil
}

// LimitMemory moves pid into the memory sub-cgroup and sets its limit
func (l *Limiter) LimitMemory(name string, pid int, size string) error {
	if size == "" {
		return errors.New("cgroup: empty memory limit")
	}
	cg, err := l.open(name, &Controllers{Memory: true})
	if err != nil {
		return fmt.Errorf("cgroup: limit memory %w", err)
	}
	if err := cg.AddProc(pid); err != nil {
		return fmt.Errorf("cgroup: limit memory add proc %d: %w", pid, err)
	}
	if err := cg.SetMemoryLimit(size); err != nil {
		return fmt.Errorf("cgroup: limit memory set %q: %w", size, err)
	}
	return nil
}

// Remove deletes the sub-cgroup of every controller, missing ones are ignored
func (l *Limiter) Remove(name string) error {
	cg, err := l.lookup(name, &Controllers{CPU: true, Memory: true})
	if err != nil {
		return err
	}
	return cg.Destroy()
}

func (l *Limiter) open(name string, ct *Controllers) (Cgroup, error) {
	if name == "" || path.Base(name) != name {
		return nil, fmt.Errorf("invalid cgroup name %q", name)
	}
	prefix := path.Join(l.Prefix, name)
	if l.cgroupType() == TypeV2 {
		return newV2(l.root(), prefix, ct)
	}
	return newV1(l.hierarchy(), prefix, ct)
}

// lookup builds the accessor without creating any directory
func (l *Limiter) lookup(name string, ct *Controllers) (Cgroup, error) {
	if name == "" || path.Base(name) != name {
		return nil, fmt.Errorf("invalid cgroup name %q", name)
	}
	prefix := path.Join(l.Prefix, name)
	if l.cgroupType() == TypeV2 {
		return &V2{path: path.Join(l.root(), prefix)}, nil
	}
	v1 := &V1{prefix: prefix}
	h := l.hierarchy()
	for _, c := range []struct {
		enable bool
		name   string
		cg     **controller
	}{
		{ct.CPU, CPU, &v1.cpu},
		{ct.Memory, Memory, &v1.memory},
	} {
		if !c.enable {
			continue
		}
		root, err := h(c.name)
		if err != nil {
			return nil, err
		}
		*c.cg = &controller{path: path.Join(root, prefix)}
	}
	return v1, nil
}

func (l *Limiter) hierarchy() hierarchyFunc {
	if l.root() == basePath {
		return mountedHierarchy
	}
	return fixedHierarchy(l.root())
}

func (l *Limiter) root() string {
	if l.Root == "" {
		return basePath
	}
	return l.Root
}

func (l *Limiter) cgroupType() CgroupType {
	if l.Type == 0 {
		return DetectType()
	}
	return l.Type
}

func (l *Limiter) period() uint64 {
	if l.Period == 0 {
		return DefaultCPUPeriod
	}
	return l.Period
}
