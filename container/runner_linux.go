package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/containerd/log"
	"github.com/criyle/go-container/pkg/cgroup"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/criyle/go-container/pkg/seccomp"
)

// NewRunner creates runner on the host network namespace and the system
// cgroup hierarchy, with stdio of the current process
func NewRunner(c Config) (*Runner, error) {
	p, err := netdev.NewProvisioner()
	if err != nil {
		return nil, err
	}
	return &Runner{
		Config:  c,
		Network: p,
		Limiter: cgroup.NewLimiter(CgroupPrefix),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}, nil
}

// Close releases the network provisioner
func (r *Runner) Close() {
	if c, ok := r.Network.(interface{ Close() }); ok {
		c.Close()
	}
}

// Start runs argv inside a new container and waits for it to exit. Host side
// resources are released before it returns. Cancelling ctx kills the
// container.
func (r *Runner) Start(ctx context.Context, argv []string) (ExitStatus, error) {
	if len(argv) == 0 {
		return ExitStatus{}, newError(ErrConfiguration, "start", errors.New("empty command"))
	}
	if err := r.Config.Validate(); err != nil {
		return ExitStatus{}, err
	}
	ifc, err := r.Config.interfaceConfig()
	if err != nil {
		return ExitStatus{}, newError(ErrConfiguration, "start", err)
	}
	root, err := filepath.Abs(r.RootDir)
	if err != nil {
		return ExitStatus{}, newError(ErrConfiguration, "start", err)
	}
	filter, err := (&seccomp.Builder{Deny: r.SeccompDeny}).Build()
	if err != nil {
		return ExitStatus{}, newError(ErrConfiguration, "seccomp", err)
	}
	binds, mounts, err := r.mounts(root)
	if err != nil {
		return ExitStatus{}, newError(ErrConfiguration, "mount", err)
	}
	conf := &containerConfig{
		HostName:      r.HostName,
		DomainName:    r.DomainName,
		ContainerRoot: root,
		Binds:         binds.Mounts,
		Mounts:        mounts.Mounts,
		Network:       ifc,
		Argv:          argv,
		Env:           []string{PathEnv, "HOSTNAME=" + r.HostName},
		Seccomp:       filter,
	}
	// the container init receives the whole conf in a single message
	if err := checkMessageSize(cmd{Cmd: cmdConf, ConfCmd: &confCmd{Conf: *conf}}); err != nil {
		return ExitStatus{}, newError(ErrConfiguration, "conf", err)
	}

	res := &resources{
		id:      newContainerID(),
		network: r.Network,
		limiter: r.Limiter,
	}
	ctx = log.WithLogger(ctx, log.G(ctx).WithField("container", res.id))
	defer res.release(ctx)

	pair, err := r.setupHostNetwork(res)
	if err != nil {
		return ExitStatus{}, err
	}

	// Pdeathsig is delivered when the forking thread exits, keep it until
	// the container is reaped
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p, err := r.spawn()
	if err != nil {
		return ExitStatus{}, newError(ErrSpawn, "spawn", err)
	}
	res.pid = p.pid()
	ctx = log.WithLogger(ctx, log.G(ctx).WithField("pid", res.pid))
	defer p.stop()

	// the only cancellation is to kill the container
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			log.G(ctx).Debug("context done, killing container")
			p.kill()
		case <-done:
		}
	}()

	// avoid non container_init enabled executable running as container init process
	if err := p.ping(); err != nil {
		return ExitStatus{}, newError(ErrSpawn, "ping", fmt.Errorf("container init not responding: %w", err))
	}

	if err := r.Network.MoveToNamespace(pair.NsEnd, res.pid, ifc.Name); err != nil {
		return ExitStatus{}, newError(ErrNetworkSetup, "move device", err)
	}
	if err := r.applyLimits(ctx, res); err != nil {
		return ExitStatus{}, err
	}

	if r.prepareConf != nil {
		r.prepareConf(conf)
	}
	if err := p.conf(conf); err != nil {
		return ExitStatus{}, err
	}
	log.G(ctx).WithField("argv", argv).Info("container started")

	status, err := p.wait()
	if err != nil {
		return ExitStatus{}, newError(ErrSpawn, "wait", err)
	}
	log.G(ctx).WithField("status", status).Info("container exited")
	return status, nil
}

// setupHostNetwork creates the veth pair and attaches the host end to the
// bridge, the pair is recorded as soon as it exists
func (r *Runner) setupHostNetwork(res *resources) (netdev.VethPair, error) {
	pair, err := r.Network.CreatePair(hostVethPrefix, nsVethPrefix)
	if err != nil {
		return pair, newError(ErrNetworkSetup, "create veth", err)
	}
	res.veth = &pair

	if err := r.Network.SetHardwareAddr(pair.HostEnd, netdev.RandomHostMAC()); err != nil {
		return pair, newError(ErrNetworkSetup, "set hardware address", err)
	}
	if err := r.Network.AttachToBridge(pair.HostEnd, r.BridgeName); err != nil {
		return pair, newError(ErrNetworkSetup, "attach to bridge", err)
	}
	if err := r.Network.SetUp(pair.HostEnd); err != nil {
		return pair, newError(ErrNetworkSetup, "set up", err)
	}
	return pair, nil
}

// applyLimits applies the configured cgroup limits, failures are only fatal
// with RequireLimits
func (r *Runner) applyLimits(ctx context.Context, res *resources) error {
	if r.CPUQuota == 0 && r.MemoryLimit == "" {
		return nil
	}
	res.cgroup = res.id

	var errs []error
	if r.CPUQuota > 0 {
		if err := r.Limiter.LimitCPU(res.cgroup, res.pid, r.CPUQuota); err != nil {
			errs = append(errs, err)
		}
	}
	if r.MemoryLimit != "" {
		if err := r.Limiter.LimitMemory(res.cgroup, res.pid, r.MemoryLimit); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	if r.RequireLimits {
		return newError(ErrResourceLimit, "limit", err)
	}
	log.G(ctx).WithError(err).Warn("failed to apply resource limit, continuing without")
	return nil
}
