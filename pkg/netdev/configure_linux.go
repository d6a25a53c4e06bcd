package netdev

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/containerd/log"
	"github.com/vishvananda/netlink"
)

const (
	loopback = "lo"

	// DefaultLinkTimeout bounds the wait for a migrated device to appear
	DefaultLinkTimeout = 2 * time.Second

	linkRetryStart = 10 * time.Millisecond
	linkRetryMax   = 100 * time.Millisecond
)

// InterfaceConfig describes the container side of the link
type InterfaceConfig struct {
	Name    string
	Address *net.IPNet
	Gateway net.IP

	// HardwareAddr nil assigns RandomContainerMAC
	HardwareAddr net.HardwareAddr

	// Timeout zero uses DefaultLinkTimeout
	Timeout time.Duration
}

// ConfigureInterface configures the network of the current namespace: brings
// up the loopback, waits for the device, sets its MAC, brings it up, assigns
// the address with its broadcast and adds the default route via the gateway
func ConfigureInterface(ctx context.Context, c InterfaceConfig) error {
	if c.Address == nil {
		return fmt.Errorf("netdev: no address for %s", c.Name)
	}
	nlh, err := netlink.NewHandle()
	if err != nil {
		return fmt.Errorf("netdev: netlink handle: %w", err)
	}
	defer nlh.Close()

	lo, err := nlh.LinkByName(loopback)
	if err != nil {
		return notFound(loopback, err)
	}
	if err := nlh.LinkSetUp(lo); err != nil {
		return fmt.Errorf("netdev: set lo up: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultLinkTimeout
	}
	link, err := waitForLink(ctx, nlh.LinkByName, c.Name, timeout)
	if err != nil {
		return err
	}

	mac := c.HardwareAddr
	if mac == nil {
		mac = RandomContainerMAC()
	}
	// the address can only be changed while the device is down
	if err := nlh.LinkSetHardwareAddr(link, mac); err != nil {
		return fmt.Errorf("netdev: set %s hardware address %v: %w", c.Name, mac, err)
	}
	if err := nlh.LinkSetUp(link); err != nil {
		return fmt.Errorf("netdev: set %s up: %w", c.Name, err)
	}

	addr := &netlink.Addr{IPNet: c.Address, Broadcast: Broadcast(c.Address)}
	if err := nlh.AddrAdd(link, addr); err != nil {
		return fmt.Errorf("netdev: add address %v to %s: %w", c.Address, c.Name, err)
	}
	if c.Gateway != nil {
		route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: c.Gateway}
		if err := nlh.RouteAdd(route); err != nil {
			return fmt.Errorf("netdev: add default route via %v: %w", c.Gateway, err)
		}
	}
	log.G(ctx).WithFields(log.Fields{
		"device":  c.Name,
		"address": c.Address,
		"gateway": c.Gateway,
		"mac":     mac,
	}).Debug("interface configured")
	return nil
}

// waitForLink polls lookup with backoff until the device shows up
func waitForLink(ctx context.Context, lookup func(string) (netlink.Link, error), name string, timeout time.Duration) (netlink.Link, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := linkRetryStart
	for {
		link, err := lookup(name)
		if err == nil {
			return link, nil
		}
		if !IsNotFound(err) {
			return nil, fmt.Errorf("netdev: lookup %s: %w", name, err)
		}
		select {
		case <-ctx.Done():
			return nil, &DeviceNotFoundError{Name: name, Err: ctx.Err()}
		case <-time.After(wait):
		}
		wait = wait * 3 / 2
		if wait > linkRetryMax {
			wait = linkRetryMax
		}
	}
}

// Broadcast returns the directed broadcast address of an IPv4 network
func Broadcast(n *net.IPNet) net.IP {
	ip := n.IP.To4()
	if ip == nil || len(n.Mask) != net.IPv4len {
		return nil
	}
	b := make(net.IP, net.IPv4len)
	for i := range ip {
		b[i] = ip[i] | ^n.Mask[i]
	}
	return b
}
