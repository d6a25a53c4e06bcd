package cgroup

import (
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

var _ Cgroup = &V1{}

// V1 is the combination of v1 controllers
type V1 struct {
	prefix string

	cpu    *controller
	memory *controller

	all []*controller

	existing bool
}

func (c *V1) String() string {
	names := make([]string, 0, numberOfControllers)
	for _, v := range []struct {
		now  *controller
		name string
	}{
		{c.cpu, CPU},
		{c.memory, Memory},
	} {
		if v.now == nil {
			continue
		}
		names = append(names, v.name)
	}
	return "v1(" + c.prefix + ")[" + strings.Join(names, ", ") + "]"
}

func newV1(hierarchy hierarchyFunc, prefix string, ct *Controllers) (cg *V1, err error) {
	v1 := &V1{
		prefix: prefix,
	}
	// if failed, remove potential created directory
	defer func() {
		if err != nil && !v1.existing {
			for _, p := range v1.all {
				remove(p.path)
			}
		}
	}()

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
		var root string
		if root, err = hierarchy(c.name); err != nil {
			return nil, err
		}
		p := path.Join(root, prefix)
		*c.cg = &controller{path: p}
		err = EnsureDirExists(p)
		if os.IsExist(err) {
			err = nil
			if len(v1.all) == 0 {
				v1.existing = true
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		v1.all = append(v1.all, *c.cg)
	}
	return v1, nil
}

// AddProc writes cgroup.procs to all controller
func (c *V1) AddProc(pids ...int) error {
	for _, s := range []*controller{c.cpu, c.memory} {
		if s == nil {
			continue
		}
		if err := s.AddProc(pids...); err != nil {
			return err
		}
	}
	return nil
}

// Destroy removes dir for controllers, errors are ignored if remove one failed
func (c *V1) Destroy() error {
	var err1 error
	for _, s := range []*controller{c.cpu, c.memory} {
		if s == nil {
			continue
		}
		if err := remove(s.path); err != nil {
			err1 = err
		}
	}
	return err1
}

// SetCPUBandwidth set cpu.cfs_quota_us and cpu.cfs_period_us
func (c *V1) SetCPUBandwidth(quota, period uint64) error {
	if err := c.SetCPUCfsQuota(quota); err != nil {
		return err
	}
	return c.SetCPUCfsPeriod(period)
}

// SetCPUCfsPeriod set cpu.cfs_period_us in us
func (c *V1) SetCPUCfsPeriod(p uint64) error {
	return c.cpu.WriteUint("cpu.cfs_period_us", p)
}

// SetCPUCfsQuota set cpu.cfs_quota_us in us
func (c *V1) SetCPUCfsQuota(p uint64) error {
	return c.cpu.WriteUint("cpu.cfs_quota_us", p)
}

// SetMemoryLimit write memory.limit_in_bytes in bytes
func (c *V1) SetMemoryLimit(size string) error {
	b, err := units.RAMInBytes(size)
	if err != nil {
		return err
	}
	return c.memory.WriteFile("memory.limit_in_bytes", []byte(strconv.FormatInt(b, 10)))
}
