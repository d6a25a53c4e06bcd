package cgroup

import (
	"errors"
	"path"
	"strconv"
)

// controller is the accessor for a single cgroup directory with given path
type controller struct {
	path string
}

// errNotInitialized is returned when trying to write to a controller that was not enabled
var errNotInitialized = errors.New("cgroup was not initialized")

// WriteUint writes uint64 into given file
func (c *controller) WriteUint(filename string, i uint64) error {
	return c.WriteFile(filename, []byte(strconv.FormatUint(i, 10)))
}

// WriteFile writes cgroup file and handles potential EINTR error while writes to
// the slow device (cgroup)
func (c *controller) WriteFile(name string, content []byte) error {
	if c == nil || c.path == "" {
		return errNotInitialized
	}
	return writeFile(path.Join(c.path, name), content)
}

// AddProc appends pids to the cgroup.procs of the controller
func (c *controller) AddProc(pids ...int) error {
	if c == nil || c.path == "" {
		return errNotInitialized
	}
	return AddProcesses(path.Join(c.path, cgroupProcs), pids)
}
