package container

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/criyle/go-container/pkg/unixsocket"
	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"
)

// cloneFlags are the namespaces of every container
const cloneFlags = unix.CLONE_NEWUTS | unix.CLONE_NEWNS | unix.CLONE_NEWPID | unix.CLONE_NEWNET

// process is the container init process on the host side
type process struct {
	cmd    *exec.Cmd
	socket *socket // host - container communication

	waited bool
	status ExitStatus
	err    error
}

// spawn re-executes the current binary as container init within new
// namespaces, sharing one end of a socket pair at fd 3
func (r *Runner) spawn() (*process, error) {
	// prepare host <-> container unix socket
	ins, outs, err := unixsocket.NewSocketPair()
	if err != nil {
		return nil, fmt.Errorf("failed to create socket: %w", err)
	}
	defer outs.Close()

	outf, err := outs.File()
	if err != nil {
		ins.Close()
		return nil, fmt.Errorf("failed to dup container socket fd: %w", err)
	}
	defer outf.Close()

	c := reexec.Command(initArg)
	c.Env = []string{PathEnv}
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	c.ExtraFiles = []*os.File{outf}
	c.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: cloneFlags,
		Pdeathsig:  syscall.SIGKILL,
	}
	if err := c.Start(); err != nil {
		ins.Close()
		return nil, fmt.Errorf("failed to start container: %w", err)
	}
	return &process{
		cmd:    c,
		socket: (*socket)(ins),
	}, nil
}

func (p *process) pid() int {
	return p.cmd.Process.Pid
}

// ping checks the container init is serving the socket
func (p *process) ping() error {
	if err := p.socket.SendMsg(cmd{Cmd: cmdPing}); err != nil {
		return err
	}
	var rep reply
	if err := p.socket.RecvMsg(&rep); err != nil {
		return err
	}
	if rep.Error != nil {
		return rep.Error
	}
	return nil
}

// conf sends the configuration and waits for the container init to either
// execve (socket closed on exec) or report a failure
func (p *process) conf(conf *containerConfig) error {
	c := cmd{
		Cmd:     cmdConf,
		ConfCmd: &confCmd{Conf: *conf},
	}
	if err := p.socket.SendMsg(c); err != nil {
		if errors.Is(err, errMessageTooLarge) {
			return newError(ErrConfiguration, "conf", err)
		}
		return newError(ErrNamespaceSetup, "conf", err)
	}

	var rep reply
	err := p.socket.RecvMsg(&rep)
	switch {
	case errors.Is(err, io.EOF):
		return nil

	case err != nil:
		return newError(ErrNamespaceSetup, "conf", err)

	case rep.Error != nil:
		kind := rep.Error.Kind
		if kind != ErrExec {
			kind = ErrNamespaceSetup
		}
		return newError(kind, rep.Error.Op, rep.Error)
	}
	return newError(ErrNamespaceSetup, "conf", errors.New("unexpected reply"))
}

func (p *process) kill() {
	p.cmd.Process.Kill()
}

// wait reaps the container init, a non-zero exit is not an error
func (p *process) wait() (ExitStatus, error) {
	if p.waited {
		return p.status, p.err
	}
	p.waited = true
	p.socket.Close()

	err := p.cmd.Wait()
	var ee *exec.ExitError
	if err != nil && !errors.As(err, &ee) {
		p.err = err
	}
	if p.cmd.ProcessState != nil {
		p.status = exitStatusFromState(p.cmd.ProcessState)
	}
	return p.status, p.err
}

// stop kills and reaps the container init if it was not waited
func (p *process) stop() {
	if p.waited {
		return
	}
	p.kill()
	p.wait()
}
