package unixsocket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// Socket represents a unix socket
type Socket struct {
	*net.UnixConn
}

// NewSocket creates Socket conn struct using existing unix socket fd
// creates by socketpair or net.DialUnix and mark it as close_on_exec (avoid fd leak)
// it need SOCK_SEQPACKET socket for reliable transfer and message boundaries
func NewSocket(fd int) (*Socket, error) {
	file := os.NewFile(uintptr(fd), "unix-socket")
	if file == nil {
		return nil, fmt.Errorf("NewSocket: fd(%d) is not a valid fd", fd)
	}
	defer file.Close()
	syscall.CloseOnExec(int(file.Fd()))
	conn, err := net.FileConn(file)
	if err != nil {
		return nil, err
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("NewSocket: fd(%d) is not a unix socket", fd)
	}
	return &Socket{unixConn}, nil
}

// NewSocketPair creates connected unix socketpair using SOCK_SEQPACKET
func NewSocketPair() (*Socket, *Socket, error) {
	fd, err := syscall.Socketpair(syscall.AF_LOCAL, syscall.SOCK_SEQPACKET|syscall.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call socketpair(%v)", err)
	}
	ins, err := NewSocket(fd[0])
	if err != nil {
		syscall.Close(fd[0])
		syscall.Close(fd[1])
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call NewSocket ins(%v)", err)
	}
	outs, err := NewSocket(fd[1])
	if err != nil {
		ins.Close()
		syscall.Close(fd[1])
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call NewSocket outs(%v)", err)
	}
	return ins, outs, nil
}

// SendMsg sends a single message
func (s *Socket) SendMsg(b []byte) error {
	_, _, err := s.WriteMsgUnix(b, nil, nil)
	return err
}

// RecvMsg receives a single message into b. The peer closing its end (e.g.
// by a successful execve of a close_on_exec socket) returns io.EOF.
func (s *Socket) RecvMsg(b []byte) (int, error) {
	n, _, flags, _, err := s.ReadMsgUnix(b, nil)
	if errors.Is(err, io.EOF) {
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	if flags&syscall.MSG_TRUNC != 0 {
		return 0, fmt.Errorf("RecvMsg: message truncated (buffer %d)", len(b))
	}
	return n, nil
}
