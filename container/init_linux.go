package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/containerd/log"
	"github.com/criyle/go-container/pkg/mount"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/criyle/go-container/pkg/unixsocket"
	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"
)

func init() {
	reexec.Register(initArg, containerInit)
}

// Init runs the container init when the binary was re-executed as
// container_init and returns true. Call it first in main (and TestMain) and
// return immediately when it reports true.
func Init() bool {
	return reexec.Init()
}

type containerServer struct {
	socket *socket
}

// containerInit never returns, the process either execve the command or exits
func containerInit() {
	// limit container resource usage
	runtime.GOMAXPROCS(containerMaxProc)

	// host shared the socket at fd 3 (marked close_exec)
	soc, err := unixsocket.NewSocket(containerSocketFd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "container_init: failed to new socket %v\n", err)
		os.Exit(setupFailureExit)
	}
	cs := &containerServer{socket: (*socket)(soc)}
	os.Exit(cs.serve())
}

// serve handles commands until conf, any socket error exits the container
func (c *containerServer) serve() (code int) {
	defer func() {
		if err := recover(); err != nil {
			c.replyError(ErrNamespaceSetup, "panic", fmt.Errorf("%v", err))
			code = setupFailureExit
		}
	}()

	for {
		var cm cmd
		if err := c.socket.RecvMsg(&cm); err != nil {
			fmt.Fprintf(os.Stderr, "container_exit: %v\n", err)
			return setupFailureExit
		}
		switch cm.Cmd {
		case cmdPing:
			if err := c.socket.SendMsg(reply{}); err != nil {
				fmt.Fprintf(os.Stderr, "container_exit: %v\n", err)
				return setupFailureExit
			}

		case cmdConf:
			return c.handleConf(cm.ConfCmd)

		default:
			c.replyError(ErrNamespaceSetup, "serve", fmt.Errorf("unknown command: %s", cm.Cmd))
			return setupFailureExit
		}
	}
}

// handleConf sets up the environment step by step and execve the command,
// it only returns the exit code of a failure
func (c *containerServer) handleConf(conf *confCmd) int {
	if conf == nil || len(conf.Conf.Argv) == 0 {
		c.replyError(ErrNamespaceSetup, "conf", errors.New("empty configuration"))
		return setupFailureExit
	}
	cfg := &conf.Conf

	for _, s := range []struct {
		op string
		fn func(*containerConfig) error
	}{
		{"hostname", setHostName},
		{"private", makePrivate},
		{"bind", bindMounts},
		{"rootfs", switchRoot},
		{"mount", mountFileSystems},
		{"network", configureNetwork},
	} {
		if err := s.fn(cfg); err != nil {
			c.replyError(ErrNamespaceSetup, s.op, err)
			return setupFailureExit
		}
	}

	path, err := lookPath(cfg.Argv[0], cfg.Env)
	if err != nil {
		c.replyError(ErrExec, "lookpath", err)
		return execFailureExit
	}
	if err := cfg.Seccomp.Load(); err != nil {
		c.replyError(ErrNamespaceSetup, "seccomp", err)
		return setupFailureExit
	}
	err = unix.Exec(path, cfg.Argv, cfg.Env)
	c.replyError(ErrExec, "execve", fmt.Errorf("execve %s: %w", path, err))
	return execFailureExit
}

func (c *containerServer) replyError(kind Kind, op string, err error) {
	log.L.WithError(err).WithField("step", op).Error("container setup failed")

	rep := &errorReply{Kind: kind, Op: op, Msg: err.Error()}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		rep.Errno = &errno
	}
	if err := c.socket.SendMsg(reply{Error: rep}); err != nil {
		fmt.Fprintf(os.Stderr, "container_exit: failed to reply %v\n", err)
	}
}

func setHostName(c *containerConfig) error {
	if err := unix.Sethostname([]byte(c.HostName)); err != nil {
		return fmt.Errorf("sethostname %q: %w", c.HostName, err)
	}
	if c.DomainName == "" {
		return nil
	}
	if err := unix.Setdomainname([]byte(c.DomainName)); err != nil {
		return fmt.Errorf("setdomainname %q: %w", c.DomainName, err)
	}
	return nil
}

// makePrivate keeps every following mount within the new mount namespace
func makePrivate(*containerConfig) error {
	return mount.MakePrivate()
}

// bindMounts binds host directories into the container root while the host
// tree is still reachable
func bindMounts(c *containerConfig) error {
	return (&mount.Builder{Mounts: c.Binds}).Mount()
}

// switchRoot chroot into the container root
func switchRoot(c *containerConfig) error {
	if err := unix.Chdir(c.ContainerRoot); err != nil {
		return fmt.Errorf("chdir %s: %w", c.ContainerRoot, err)
	}
	if err := unix.Chroot("."); err != nil {
		return fmt.Errorf("chroot %s: %w", c.ContainerRoot, err)
	}
	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("chdir /: %w", err)
	}
	return nil
}

func mountFileSystems(c *containerConfig) error {
	return (&mount.Builder{Mounts: c.Mounts}).Mount()
}

func configureNetwork(c *containerConfig) error {
	if c.Network == nil {
		return nil
	}
	return netdev.ConfigureInterface(context.Background(), *c.Network)
}

// lookPath resolves file against PATH of env inside the new root
func lookPath(file string, env []string) (string, error) {
	if strings.Contains(file, "/") {
		return file, nil
	}
	for _, e := range env {
		if p, ok := strings.CutPrefix(e, "PATH="); ok {
			os.Setenv("PATH", p)
		}
	}
	return exec.LookPath(file)
}
