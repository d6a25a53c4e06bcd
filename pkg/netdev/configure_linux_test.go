package netdev

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestWaitForLinkAppears(t *testing.T) {
	calls := 0
	want := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0", Index: 3}}
	link, err := waitForLink(context.Background(), func(name string) (netlink.Link, error) {
		calls++
		if calls < 3 {
			return nil, unix.ENODEV
		}
		return want, nil
	}, "eth0", time.Second)
	assert.NilError(t, err)
	assert.Equal(t, link.Attrs().Index, 3)
	assert.Equal(t, calls, 3)
}

func TestWaitForLinkTimeout(t *testing.T) {
	start := time.Now()
	_, err := waitForLink(context.Background(), func(string) (netlink.Link, error) {
		return nil, unix.ENODEV
	}, "eth0", 50*time.Millisecond)

	var de *DeviceNotFoundError
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Name, "eth0")
	assert.Check(t, IsNotFound(err))
	assert.Check(t, time.Since(start) < time.Second)
}

func TestWaitForLinkOtherError(t *testing.T) {
	calls := 0
	_, err := waitForLink(context.Background(), func(string) (netlink.Link, error) {
		calls++
		return nil, unix.EPERM
	}, "eth0", time.Second)
	assert.Check(t, is.ErrorIs(err, unix.EPERM))
	assert.Equal(t, calls, 1)
}

func TestBroadcast(t *testing.T) {
	ip, n, err := net.ParseCIDR("172.17.0.100/24")
	assert.NilError(t, err)
	n.IP = ip
	assert.Equal(t, Broadcast(n).String(), "172.17.0.255")

	_, n6, err := net.ParseCIDR("fd00::1/64")
	assert.NilError(t, err)
	assert.Check(t, is.Nil(Broadcast(n6)))
}
