package container

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/criyle/go-container/pkg/mount"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/docker/go-units"
	"golang.org/x/sys/unix"
)

const maxHostNameLen = 64

// Config defines a single container launch
type Config struct {
	// HostName set container hostname (default: mydocker)
	HostName string

	// DomainName set container domainname, empty keeps the default
	DomainName string

	// RootDir is the prepared root file system of the container
	RootDir string

	// ContainerIP is the IPv4 address of the container interface
	ContainerIP string

	// BridgeName is the existing host bridge to attach to
	BridgeName string

	// BridgeIP is the IPv4 address of the bridge, used as the gateway
	BridgeIP string

	// InterfaceName is the name of the link inside the container (default: eth0)
	InterfaceName string

	// PrefixLen of the container subnet (default: 24)
	PrefixLen int

	// MemoryLimit (e.g. 100m), empty disables memory limiting
	MemoryLimit string

	// CPUQuota is the fraction of a single cpu core, 0 disables cpu limiting
	CPUQuota float64

	// Binds are host directories bind mounted into the container, in the
	// form source:target[:ro]
	Binds []string

	// Tmpfs are container paths mounted as tmpfs, in the form
	// target[:options] (e.g. /tmp:size=64m)
	Tmpfs []string

	// SeccompDeny lists syscalls failing with EPERM inside the container
	SeccompDeny []string

	// RequireLimits fails the launch when a limit could not be applied,
	// otherwise it is logged as a warning
	RequireLimits bool
}

// DefaultConfig returns the default launch configuration
func DefaultConfig() Config {
	return Config{
		HostName:      defaultHostName,
		RootDir:       defaultRootDir,
		ContainerIP:   defaultContainerIP,
		BridgeName:    defaultBridgeName,
		BridgeIP:      defaultBridgeIP,
		InterfaceName: defaultInterfaceName,
		PrefixLen:     defaultPrefixLen,
		CPUQuota:      defaultCPUQuota,
	}
}

// Validate checks the configuration before anything is created on the host
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return newError(ErrConfiguration, "validate", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.HostName == "" || len(c.HostName) > maxHostNameLen {
		return fmt.Errorf("invalid hostname %q", c.HostName)
	}
	if len(c.DomainName) > maxHostNameLen {
		return fmt.Errorf("invalid domainname %q", c.DomainName)
	}
	if err := checkRootDir(c.RootDir); err != nil {
		return err
	}
	if err := checkInterfaceName(c.BridgeName); err != nil {
		return fmt.Errorf("bridge: %w", err)
	}
	if err := checkInterfaceName(c.interfaceName()); err != nil {
		return fmt.Errorf("interface: %w", err)
	}
	if _, err := c.interfaceConfig(); err != nil {
		return err
	}
	if _, _, err := c.mounts("/"); err != nil {
		return err
	}
	if c.MemoryLimit != "" {
		if n, err := units.RAMInBytes(c.MemoryLimit); err != nil || n <= 0 {
			return fmt.Errorf("invalid memory limit %q", c.MemoryLimit)
		}
	}
	if math.IsNaN(c.CPUQuota) || math.IsInf(c.CPUQuota, 0) || c.CPUQuota < 0 {
		return fmt.Errorf("invalid cpu quota %v", c.CPUQuota)
	}
	return nil
}

func checkRootDir(root string) error {
	if root == "" {
		return errors.New("empty root directory")
	}
	fi, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root directory: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("root directory %s is not a directory", root)
	}
	if err := unix.Access(root, unix.X_OK); err != nil {
		return fmt.Errorf("root directory %s is not searchable: %w", root, err)
	}
	return nil
}

// mounts builds the bind mounts performed before the root switch, targets
// under root, and the mounts performed inside the new root
func (c *Config) mounts(root string) (binds, mounts *mount.Builder, err error) {
	binds = mount.NewBuilder()
	for _, b := range c.Binds {
		source, target, readonly, err := parseBind(b)
		if err != nil {
			return nil, nil, err
		}
		binds.WithBind(source, filepath.Join(root, target), readonly)
	}
	mounts = mount.NewDefaultBuilder()
	for _, t := range c.Tmpfs {
		target, data, _ := strings.Cut(t, ":")
		if err := checkContainerPath(target); err != nil {
			return nil, nil, fmt.Errorf("tmpfs: %w", err)
		}
		mounts.WithTmpfs(filepath.Clean(target), data)
	}
	return binds, mounts, nil
}

func parseBind(s string) (source, target string, readonly bool, err error) {
	parts := strings.Split(s, ":")
	switch {
	case len(parts) == 3 && parts[2] == "ro":
		readonly = true
	case len(parts) == 3 && parts[2] == "rw":
	case len(parts) == 2:
	default:
		return "", "", false, fmt.Errorf("invalid bind %q", s)
	}
	source, target = parts[0], parts[1]
	if !filepath.IsAbs(source) {
		return "", "", false, fmt.Errorf("bind %q: source is not an absolute path", s)
	}
	fi, err := os.Stat(source)
	if err != nil {
		return "", "", false, fmt.Errorf("bind %q: %w", s, err)
	}
	if !fi.IsDir() {
		return "", "", false, fmt.Errorf("bind %q: source is not a directory", s)
	}
	if err := checkContainerPath(target); err != nil {
		return "", "", false, fmt.Errorf("bind %q: %w", s, err)
	}
	return filepath.Clean(source), filepath.Clean(target), readonly, nil
}

func checkContainerPath(p string) error {
	if !filepath.IsAbs(p) || filepath.Clean(p) == "/" {
		return fmt.Errorf("invalid container path %q", p)
	}
	return nil
}

func checkInterfaceName(name string) error {
	if name == "" || len(name) > netdev.MaxNameLen {
		return fmt.Errorf("invalid interface name %q", name)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, "/: \t\n") {
		return fmt.Errorf("invalid interface name %q", name)
	}
	return nil
}

// parseIPv4 only accepts the dotted-quad form
func parseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil || strings.Contains(s, ":") {
		return nil, fmt.Errorf("invalid IPv4 address %q", s)
	}
	return ip.To4(), nil
}

// interfaceConfig builds the container side network configuration
func (c *Config) interfaceConfig() (*netdev.InterfaceConfig, error) {
	prefixLen := c.prefixLen()
	if prefixLen <= 0 || prefixLen > 30 {
		return nil, fmt.Errorf("invalid prefix length %d", prefixLen)
	}
	ip, err := parseIPv4(c.ContainerIP)
	if err != nil {
		return nil, fmt.Errorf("container ip: %w", err)
	}
	gw, err := parseIPv4(c.BridgeIP)
	if err != nil {
		return nil, fmt.Errorf("bridge ip: %w", err)
	}
	if ip.Equal(gw) {
		return nil, fmt.Errorf("container ip %v equals bridge ip", ip)
	}
	mask := net.CIDRMask(prefixLen, 8*net.IPv4len)
	subnet := &net.IPNet{IP: ip.Mask(mask), Mask: mask}
	if !subnet.Contains(gw) {
		return nil, fmt.Errorf("container ip %v and bridge ip %v are not in the same /%d", ip, gw, prefixLen)
	}
	addr := &net.IPNet{IP: ip, Mask: mask}
	if ip.Equal(subnet.IP) || ip.Equal(netdev.Broadcast(addr)) {
		return nil, fmt.Errorf("container ip %v is not a host address of %v", ip, subnet)
	}
	return &netdev.InterfaceConfig{
		Name:    c.interfaceName(),
		Address: addr,
		Gateway: gw,
	}, nil
}

func (c *Config) interfaceName() string {
	if c.InterfaceName == "" {
		return defaultInterfaceName
	}
	return c.InterfaceName
}

func (c *Config) prefixLen() int {
	if c.PrefixLen == 0 {
		return defaultPrefixLen
	}
	return c.PrefixLen
}
