package container

import (
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/criyle/go-container/pkg/mount"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/criyle/go-container/pkg/unixsocket"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func newSocketPair(t *testing.T) (*socket, *socket) {
	t.Helper()
	ins, outs, err := unixsocket.NewSocketPair()
	assert.NilError(t, err)
	t.Cleanup(func() {
		ins.Close()
		outs.Close()
	})
	return (*socket)(ins), (*socket)(outs)
}

func TestConfRoundTrip(t *testing.T) {
	host, child := newSocketPair(t)
	ifc, err := (&Config{ContainerIP: "172.17.0.100", BridgeIP: "172.17.0.1"}).interfaceConfig()
	assert.NilError(t, err)

	sent := containerConfig{
		HostName:      "mydocker",
		ContainerRoot: "/rootfs",
		Mounts:        mount.NewDefaultBuilder().Mounts,
		Network:       ifc,
		Argv:          []string{"/bin/echo", "hi"},
		Env:           []string{PathEnv},
	}
	go func() {
		var c cmd
		if err := child.RecvMsg(&c); err != nil {
			return
		}
		if c.Cmd != cmdConf || c.ConfCmd.Conf.HostName != "mydocker" {
			child.SendMsg(reply{Error: &errorReply{Kind: ErrNamespaceSetup, Msg: "bad conf"}})
			return
		}
		// execve closes the socket
		child.Close()
	}()

	p := &process{socket: host}
	assert.NilError(t, p.conf(&sent))
}

func TestConfDecoded(t *testing.T) {
	host, child := newSocketPair(t)
	ifc, err := (&Config{ContainerIP: "172.17.0.100", BridgeIP: "172.17.0.1"}).interfaceConfig()
	assert.NilError(t, err)

	assert.NilError(t, host.SendMsg(cmd{Cmd: cmdConf, ConfCmd: &confCmd{Conf: containerConfig{
		Mounts:  mount.NewDefaultBuilder().Mounts,
		Network: ifc,
		Argv:    []string{"/bin/echo", "hi"},
	}}}))

	var c cmd
	assert.NilError(t, child.RecvMsg(&c))
	conf := c.ConfCmd.Conf
	assert.Check(t, is.DeepEqual(conf.Argv, []string{"/bin/echo", "hi"}))
	assert.Check(t, is.DeepEqual(conf.Mounts, mount.NewDefaultBuilder().Mounts))
	assert.Equal(t, conf.Network.Name, "eth0")
	assert.Equal(t, conf.Network.Address.String(), "172.17.0.100/24")
	assert.Equal(t, conf.Network.Gateway.String(), "172.17.0.1")
	assert.Equal(t, netdev.Broadcast(conf.Network.Address).String(), "172.17.0.255")
}

func TestConfErrorReply(t *testing.T) {
	for _, tc := range []struct {
		kind Kind
		want Kind
	}{
		{ErrExec, ErrExec},
		{ErrNamespaceSetup, ErrNamespaceSetup},
		{ErrSpawn, ErrNamespaceSetup},
	} {
		host, child := newSocketPair(t)
		go func() {
			var c cmd
			child.RecvMsg(&c)
			errno := syscall.ENOENT
			child.SendMsg(reply{Error: &errorReply{Kind: tc.kind, Op: "rootfs", Msg: "chdir: no such file", Errno: &errno}})
		}()
		p := &process{socket: host}
		err := p.conf(&containerConfig{Argv: []string{"/bin/true"}})
		assert.Check(t, is.ErrorIs(err, tc.want))
		assert.Check(t, is.ErrorIs(err, syscall.ENOENT))
		assert.Check(t, is.ErrorContains(err, "rootfs"))
	}
}

func TestServe(t *testing.T) {
	host, child := newSocketPair(t)
	done := make(chan int, 1)
	go func() {
		done <- (&containerServer{socket: child}).serve()
	}()

	p := &process{socket: host}
	assert.NilError(t, p.ping())
	assert.NilError(t, p.ping())

	assert.NilError(t, host.SendMsg(cmd{Cmd: "bogus"}))
	var rep reply
	assert.NilError(t, host.RecvMsg(&rep))
	assert.Assert(t, rep.Error != nil)
	assert.Check(t, is.Contains(rep.Error.Msg, "unknown command"))
	assert.Equal(t, <-done, setupFailureExit)
}

func TestServeEmptyConf(t *testing.T) {
	host, child := newSocketPair(t)
	done := make(chan int, 1)
	go func() {
		done <- (&containerServer{socket: child}).serve()
	}()

	p := &process{socket: host}
	err := p.conf(&containerConfig{})
	assert.Check(t, is.ErrorIs(err, ErrNamespaceSetup))
	assert.Equal(t, <-done, setupFailureExit)
}

func TestConfTooLarge(t *testing.T) {
	host, child := newSocketPair(t)
	done := make(chan int, 1)
	go func() {
		done <- (&containerServer{socket: child}).serve()
	}()

	p := &process{socket: host}
	argv := []string{"/bin/sh", "-c", strings.Repeat("x", bufferSize)}
	err := p.conf(&containerConfig{Argv: argv})
	assert.Check(t, is.ErrorIs(err, ErrConfiguration))
	assert.Check(t, is.ErrorIs(err, errMessageTooLarge))

	// nothing was sent, the container init still serves
	assert.NilError(t, p.ping())
	host.Close()
	assert.Equal(t, <-done, setupFailureExit)
}

func TestCheckMessageSize(t *testing.T) {
	small := cmd{Cmd: cmdConf, ConfCmd: &confCmd{Conf: containerConfig{Argv: []string{"/bin/true"}}}}
	assert.NilError(t, checkMessageSize(small))

	large := cmd{Cmd: cmdConf, ConfCmd: &confCmd{Conf: containerConfig{Argv: []string{strings.Repeat("x", 20000)}}}}
	assert.Check(t, is.ErrorIs(checkMessageSize(large), errMessageTooLarge))
}

func TestServeHostClosed(t *testing.T) {
	host, child := newSocketPair(t)
	host.Close()
	assert.Equal(t, (&containerServer{socket: child}).serve(), setupFailureExit)
}

func TestLookPath(t *testing.T) {
	t.Setenv("PATH", os.Getenv("PATH"))

	p, err := lookPath("/bin/echo", nil)
	assert.NilError(t, err)
	assert.Equal(t, p, "/bin/echo")

	dir := t.TempDir()
	exe := filepath.Join(dir, "hello")
	assert.NilError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0755))
	p, err = lookPath("hello", []string{"HOME=/", "PATH=" + dir})
	assert.NilError(t, err)
	assert.Equal(t, p, exe)

	_, err = lookPath("hello-not-exist", []string{"PATH=" + dir})
	assert.Check(t, err != nil)
	assert.Check(t, strings.Contains(err.Error(), "hello-not-exist"))
}
