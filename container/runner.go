package container

import (
	"context"
	"io"
	"net"

	"github.com/criyle/go-container/pkg/netdev"
)

// NetworkProvisioner creates and removes the veth link on the host
type NetworkProvisioner interface {
	CreatePair(hostPrefix, nsPrefix string) (netdev.VethPair, error)
	SetHardwareAddr(device string, mac net.HardwareAddr) error
	AttachToBridge(device, bridge string) error
	SetUp(device string) error
	MoveToNamespace(device string, pid int, newName string) error
	DeleteByName(ctx context.Context, device string) error
}

// ResourceLimiter applies cgroup limits to the container init process
type ResourceLimiter interface {
	LimitCPU(name string, pid int, fraction float64) error
	LimitMemory(name string, pid int, size string) error
	Remove(name string) error
}

// Runner launches containers with the given config
type Runner struct {
	Config

	Network NetworkProvisioner
	Limiter ResourceLimiter

	// Stdin, Stdout and Stderr of the command, nil uses /dev/null
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// prepareConf adjusts the container init configuration right before it
	// is sent
	prepareConf func(*containerConfig)
}
