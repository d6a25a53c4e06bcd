package netdev

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/containerd/log"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// VethPair names both ends of a veth link
type VethPair struct {
	HostEnd string
	NsEnd   string
}

// Provisioner manages veth links in the network namespace it was created in
type Provisioner struct {
	nlh   *netlink.Handle
	namer *Namer
}

// NewProvisioner creates a provisioner bound to the current network namespace
func NewProvisioner() (*Provisioner, error) {
	nlh, err := netlink.NewHandle()
	if err != nil {
		return nil, fmt.Errorf("netdev: netlink handle: %w", err)
	}
	return &Provisioner{nlh: nlh, namer: defaultNamer}, nil
}

// Close releases the netlink socket
func (p *Provisioner) Close() {
	p.nlh.Close()
}

// CreatePair creates a veth pair with generated names, re-rolling when the
// kernel reports the name exists
func (p *Provisioner) CreatePair(hostPrefix, nsPrefix string) (VethPair, error) {
	for i := 0; i < maxNameAttempts; i++ {
		host, err := p.namer.Generate(hostPrefix, DefaultSuffixLen, p.exists)
		if err != nil {
			return VethPair{}, err
		}
		peer, err := p.namer.Generate(nsPrefix, DefaultSuffixLen, p.exists)
		if err != nil {
			p.namer.Release(host)
			return VethPair{}, err
		}
		veth := &netlink.Veth{
			LinkAttrs: netlink.LinkAttrs{Name: host},
			PeerName:  peer,
		}
		err = p.nlh.LinkAdd(veth)
		if err == nil {
			return VethPair{HostEnd: host, NsEnd: peer}, nil
		}
		p.namer.Release(host)
		p.namer.Release(peer)
		if !errors.Is(err, unix.EEXIST) {
			return VethPair{}, fmt.Errorf("netdev: create veth %s/%s: %w", host, peer, err)
		}
	}
	return VethPair{}, ErrNameExhausted
}

// SetHardwareAddr sets the MAC of the device
func (p *Provisioner) SetHardwareAddr(device string, mac net.HardwareAddr) error {
	link, err := p.link(device)
	if err != nil {
		return err
	}
	if err := p.nlh.LinkSetHardwareAddr(link, mac); err != nil {
		return fmt.Errorf("netdev: set %s hardware address %v: %w", device, mac, err)
	}
	return nil
}

// AttachToBridge enslaves the device to an existing bridge
func (p *Provisioner) AttachToBridge(device, bridge string) error {
	br, err := p.link(bridge)
	if err != nil {
		return err
	}
	if _, ok := br.(*netlink.Bridge); !ok {
		return fmt.Errorf("netdev: %s is not a bridge (%s)", bridge, br.Type())
	}
	link, err := p.link(device)
	if err != nil {
		return err
	}
	if err := p.nlh.LinkSetMaster(link, br); err != nil {
		return fmt.Errorf("netdev: attach %s to %s: %w", device, bridge, err)
	}
	return nil
}

// SetUp brings the device up
func (p *Provisioner) SetUp(device string) error {
	link, err := p.link(device)
	if err != nil {
		return err
	}
	if err := p.nlh.LinkSetUp(link); err != nil {
		return fmt.Errorf("netdev: set %s up: %w", device, err)
	}
	return nil
}

// MoveToNamespace moves the device into the network namespace of pid and
// renames it to newName there
func (p *Provisioner) MoveToNamespace(device string, pid int, newName string) error {
	link, err := p.link(device)
	if err != nil {
		return err
	}
	if err := p.nlh.LinkSetNsPid(link, pid); err != nil {
		return fmt.Errorf("netdev: move %s to netns of %d: %w", device, pid, err)
	}
	if newName == "" || newName == device {
		return nil
	}

	ns, err := netns.GetFromPid(pid)
	if err != nil {
		return fmt.Errorf("netdev: netns of %d: %w", pid, err)
	}
	defer ns.Close()

	nlh, err := netlink.NewHandleAt(ns)
	if err != nil {
		return fmt.Errorf("netdev: netlink handle in netns of %d: %w", pid, err)
	}
	defer nlh.Close()

	link, err = nlh.LinkByName(device)
	if err != nil {
		return notFound(device, err)
	}
	if err := nlh.LinkSetName(link, newName); err != nil {
		return fmt.Errorf("netdev: rename %s to %s: %w", device, newName, err)
	}
	return nil
}

// DeleteByName deletes the device and releases its name. A missing device is
// not an error.
func (p *Provisioner) DeleteByName(ctx context.Context, device string) error {
	defer p.namer.Release(device)

	link, err := p.link(device)
	if IsNotFound(err) {
		log.G(ctx).WithField("device", device).Debug("device already removed")
		return nil
	}
	if err != nil {
		return err
	}
	if err := p.nlh.LinkDel(link); err != nil {
		if IsNotFound(err) {
			log.G(ctx).WithField("device", device).Debug("device already removed")
			return nil
		}
		return fmt.Errorf("netdev: delete %s: %w", device, err)
	}
	log.G(ctx).WithField("device", device).Debug("device deleted")
	return nil
}

func (p *Provisioner) link(name string) (netlink.Link, error) {
	link, err := p.nlh.LinkByName(name)
	if err != nil {
		return nil, notFound(name, err)
	}
	return link, nil
}

func (p *Provisioner) exists(name string) (bool, error) {
	_, err := p.nlh.LinkByName(name)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

func notFound(name string, err error) error {
	if IsNotFound(err) {
		return &DeviceNotFoundError{Name: name, Err: err}
	}
	return fmt.Errorf("netdev: lookup %s: %w", name, err)
}
