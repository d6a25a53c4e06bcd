package container

import (
	"fmt"
	"os"
	"syscall"
)

// ExitStatus is the final status of the container init process
type ExitStatus struct {
	Code     int
	Signal   syscall.Signal
	Signaled bool
}

// Success returns true if the command exited with 0
func (s ExitStatus) Success() bool {
	return !s.Signaled && s.Code == 0
}

// ExitCode follows the shell convention, 128 + signal when killed by signal
func (s ExitStatus) ExitCode() int {
	if s.Signaled {
		return 128 + int(s.Signal)
	}
	return s.Code
}

func (s ExitStatus) String() string {
	if s.Signaled {
		return fmt.Sprintf("signal: %v", s.Signal)
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

func exitStatusFromState(ps *os.ProcessState) ExitStatus {
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		return ExitStatus{Code: ps.ExitCode()}
	}
	if ws.Signaled() {
		return ExitStatus{Signal: ws.Signal(), Signaled: true}
	}
	return ExitStatus{Code: ws.ExitStatus()}
}
