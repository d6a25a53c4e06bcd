package netdev

import (
	"context"
	"errors"
	"net"
	"os"
	"runtime"
	"testing"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/skip"
)

// setupTestNetns runs the rest of the test on a locked thread inside a fresh
// network namespace with a bridge named br0
func setupTestNetns(t *testing.T) *Provisioner {
	t.Helper()
	skip.If(t, os.Getuid() != 0, "no root privilege")

	runtime.LockOSThread()
	origin, err := netns.Get()
	assert.NilError(t, err)
	ns, err := netns.New()
	if err != nil {
		origin.Close()
		runtime.UnlockOSThread()
		t.Skipf("cannot create netns: %v", err)
	}
	t.Cleanup(func() {
		netns.Set(origin)
		origin.Close()
		ns.Close()
		runtime.UnlockOSThread()
	})

	p, err := NewProvisioner()
	assert.NilError(t, err)
	t.Cleanup(p.Close)

	br := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: "br0"}}
	assert.NilError(t, p.nlh.LinkAdd(br))
	assert.NilError(t, p.nlh.LinkSetUp(br))
	return p
}

func TestProvisionPair(t *testing.T) {
	p := setupTestNetns(t)
	ctx := context.Background()

	pair, err := p.CreatePair("veth", "ceth")
	assert.NilError(t, err)
	assert.Check(t, pair.HostEnd != pair.NsEnd)
	assert.Check(t, p.namer.Reserved(pair.HostEnd))

	mac := RandomHostMAC()
	assert.NilError(t, p.SetHardwareAddr(pair.HostEnd, mac))
	assert.NilError(t, p.AttachToBridge(pair.HostEnd, "br0"))
	assert.NilError(t, p.SetUp(pair.HostEnd))

	link, err := p.nlh.LinkByName(pair.HostEnd)
	assert.NilError(t, err)
	assert.Equal(t, link.Attrs().HardwareAddr.String(), mac.String())
	br, err := p.nlh.LinkByName("br0")
	assert.NilError(t, err)
	assert.Equal(t, link.Attrs().MasterIndex, br.Attrs().Index)

	// not a bridge
	assert.Check(t, p.AttachToBridge(pair.HostEnd, pair.NsEnd) != nil)

	assert.NilError(t, p.DeleteByName(ctx, pair.HostEnd))
	assert.NilError(t, p.DeleteByName(ctx, pair.NsEnd))
	assert.NilError(t, p.DeleteByName(ctx, pair.HostEnd))
	assert.Check(t, !p.namer.Reserved(pair.HostEnd))
	assert.Check(t, !p.namer.Reserved(pair.NsEnd))
}

func TestProvisionMissingDevice(t *testing.T) {
	p := setupTestNetns(t)

	var de *DeviceNotFoundError
	err := p.MoveToNamespace("nonexist0", os.Getpid(), "eth0")
	assert.Assert(t, errors.As(err, &de))
	assert.Equal(t, de.Name, "nonexist0")

	err = p.AttachToBridge("nonexist0", "br0")
	assert.Check(t, IsNotFound(err))
	assert.NilError(t, p.DeleteByName(context.Background(), "nonexist0"))
}

func TestConfigureInterface(t *testing.T) {
	p := setupTestNetns(t)

	pair, err := p.CreatePair("veth", "ceth")
	assert.NilError(t, err)
	defer p.DeleteByName(context.Background(), pair.HostEnd)
	assert.NilError(t, p.SetUp(pair.HostEnd))

	ip, n, err := net.ParseCIDR("172.30.0.100/24")
	assert.NilError(t, err)
	n.IP = ip
	err = ConfigureInterface(context.Background(), InterfaceConfig{
		Name:    pair.NsEnd,
		Address: n,
		Gateway: net.ParseIP("172.30.0.1"),
	})
	assert.NilError(t, err)

	link, err := p.nlh.LinkByName(pair.NsEnd)
	assert.NilError(t, err)
	assert.Equal(t, link.Attrs().HardwareAddr[0], byte(0x02))
	assert.Equal(t, link.Attrs().HardwareAddr[1], byte(0x42))

	addrs, err := p.nlh.AddrList(link, netlink.FAMILY_V4)
	assert.NilError(t, err)
	assert.Assert(t, is.Len(addrs, 1))
	assert.Equal(t, addrs[0].IPNet.String(), "172.30.0.100/24")
	assert.Equal(t, addrs[0].Broadcast.String(), "172.30.0.255")

	routes, err := p.nlh.RouteList(link, netlink.FAMILY_V4)
	assert.NilError(t, err)
	var gw net.IP
	for _, r := range routes {
		if r.Gw != nil {
			gw = r.Gw
		}
	}
	assert.Equal(t, gw.String(), "172.30.0.1")
}
