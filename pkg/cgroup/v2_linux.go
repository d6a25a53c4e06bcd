package cgroup

import (
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

var _ Cgroup = &V2{}

// V2 is the cgroup in the unified hierarchy
type V2 struct {
	path     string
	existing bool
}

func (c *V2) String() string {
	return "v2(" + c.path + ")"
}

func newV2(root, prefix string, ct *Controllers) (cg *V2, err error) {
	v2 := &V2{
		path: path.Join(root, prefix),
	}
	if _, err := os.Stat(v2.path); err == nil {
		v2.existing = true
	}
	defer func() {
		if err != nil && !v2.existing {
			remove(v2.path)
		}
	}()

	// ensure controllers were enabled
	s := ct.Names()
	controlMsg := []byte("+" + strings.Join(s, " +"))

	// start from base dir
	entries := strings.Split(prefix, "/")
	current := ""
	for _, e := range entries {
		parent := current
		current = current + "/" + e
		// try mkdir if not exists
		if _, err := os.Stat(path.Join(root, current)); os.IsNotExist(err) {
			if err := os.Mkdir(path.Join(root, current), dirPerm); err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}

		// need to enable it in its parent folder if not available yet
		ect, err := availableControllers(path.Join(root, current))
		if err != nil {
			return nil, err
		}
		if len(s) == 0 || ect.Contains(ct) {
			continue
		}
		if err := writeFile(path.Join(root, parent, cgroupSubtreeControl), controlMsg); err != nil {
			return nil, err
		}
	}
	return v2, nil
}

func availableControllers(p string) (*Controllers, error) {
	c, err := readFile(path.Join(p, cgroupControllers))
	if os.IsNotExist(err) {
		return &Controllers{}, nil
	}
	if err != nil {
		return nil, err
	}
	return parseControllers(string(c)), nil
}

// AddProc appends pids into cgroup.procs
func (c *V2) AddProc(pids ...int) error {
	return AddProcesses(path.Join(c.path, cgroupProcs), pids)
}

// Destroy removes the cgroup directory
func (c *V2) Destroy() error {
	return remove(c.path)
}

// SetCPUBandwidth set cpu.max quota period
func (c *V2) SetCPUBandwidth(quota, period uint64) error {
	content := strconv.FormatUint(quota, 10) + " " + strconv.FormatUint(period, 10)
	return c.WriteFile("cpu.max", []byte(content))
}

// SetMemoryLimit memory.max, which only accepts bytes
func (c *V2) SetMemoryLimit(size string) error {
	b, err := units.RAMInBytes(size)
	if err != nil {
		return err
	}
	return c.WriteFile("memory.max", []byte(strconv.FormatInt(b, 10)))
}

// WriteFile writes cgroup file and handles potential EINTR error while writes to
// the slow device (cgroup)
func (c *V2) WriteFile(name string, content []byte) error {
	return writeFile(path.Join(c.path, name), content)
}
