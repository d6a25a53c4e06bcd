package container

import (
	"context"
	"errors"
	"strings"

	"github.com/containerd/log"
	"github.com/criyle/go-container/pkg/netdev"
	"github.com/google/uuid"
)

const containerIDLen = 12

// resources records every host side object created for a single launch,
// teardown only operates on this record
type resources struct {
	id     string
	veth   *netdev.VethPair
	cgroup string
	pid    int

	network NetworkProvisioner
	limiter ResourceLimiter
}

func newContainerID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:containerIDLen]
}

// release deletes both veth ends and the cgroup, it is safe to call on a
// partially filled record and more than once
func (r *resources) release(ctx context.Context) error {
	var errs []error
	if r.veth != nil {
		for _, d := range []string{r.veth.HostEnd, r.veth.NsEnd} {
			if err := r.network.DeleteByName(ctx, d); err != nil {
				log.G(ctx).WithError(err).WithField("device", d).Warn("failed to delete device")
				errs = append(errs, err)
			}
		}
		r.veth = nil
	}
	if r.cgroup != "" {
		if err := r.limiter.Remove(r.cgroup); err != nil {
			log.G(ctx).WithError(err).WithField("cgroup", r.cgroup).Warn("failed to remove cgroup")
			errs = append(errs, err)
		}
		r.cgroup = ""
	}
	return errors.Join(errs...)
}
