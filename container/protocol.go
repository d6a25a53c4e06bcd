package container

import (
	"syscall"

	"github.com/criyle/go-container/pkg/mount"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/criyle/go-container/pkg/seccomp"
)

// cmd is the control message send into container
type cmd struct {
	Cmd string // type of the cmd

	ConfCmd *confCmd // to set configuration
}

// confCmd stores conf parameter
type confCmd struct {
	Conf containerConfig
}

// containerConfig is the environment the container init sets up before execve
type containerConfig struct {
	HostName   string
	DomainName string

	ContainerRoot string
	Binds         []mount.Mount // targets under ContainerRoot, before chroot
	Mounts        []mount.Mount

	Network *netdev.InterfaceConfig

	Argv    []string       // execve argv
	Env     []string       // execve env
	Seccomp seccomp.Filter // seccomp filter
}

// reply is the reply message send back to controller
type reply struct {
	Error *errorReply // nil if no error
}

// errorReply stores error returned back from container
type errorReply struct {
	Kind  Kind
	Op    string
	Msg   string
	Errno *syscall.Errno
}

func (e *errorReply) Error() string {
	return e.Msg
}

// Unwrap exposes the errno, e.g. ENOENT when the command was not found
func (e *errorReply) Unwrap() error {
	if e.Errno == nil {
		return nil
	}
	return *e.Errno
}
