package cgroup

import (
	"errors"
	"os"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// EnsureDirExists creates directories if the path not exists
func EnsureDirExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, dirPerm)
	}
	return os.ErrExist
}

// DetectType detects current mounted cgroup type in systemd default path
func DetectType() CgroupType {
	// if /sys/fs/cgroup is mounted as CGROUPV2 or TMPFS (V1)
	var st unix.Statfs_t
	if err := unix.Statfs(basePath, &st); err != nil {
		// ignore errors, defaulting to CgroupV1
		return TypeV1
	}
	if st.Type == unix.CGROUP2_SUPER_MAGIC {
		return TypeV2
	}
	return TypeV1
}

// AddProcesses appends pids into the cgroup.procs file, one write per pid
// since the kernel only accepts a single pid each write
func AddProcesses(p string, pids []int) error {
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, pid := range pids {
		_, err := f.WriteString(strconv.Itoa(pid) + "\n")
		for err != nil && errors.Is(err, syscall.EINTR) {
			_, err = f.WriteString(strconv.Itoa(pid) + "\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// removal of a cgroup fails with EBUSY until all member processes are reaped,
// which happens asynchronously after the pid namespace init exits
const (
	removeRetry = 50
	removeWait  = 10 * time.Millisecond
)

func remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(name)
	for i := 0; i < removeRetry && errors.Is(err, syscall.EBUSY); i++ {
		time.Sleep(removeWait)
		err = os.Remove(name)
	}
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func readFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	for err != nil && errors.Is(err, syscall.EINTR) {
		data, err = os.ReadFile(p)
	}
	return data, err
}

func writeFile(p string, content []byte) error {
	err := os.WriteFile(p, content, filePerm)
	for err != nil && errors.Is(err, syscall.EINTR) {
		err = os.WriteFile(p, content, filePerm)
	}
	return err
}
