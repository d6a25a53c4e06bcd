package cgroup

import (
	"fmt"
	"math"
)

// CPUQuota converts a fraction of a single cpu core into the cfs quota for
// the given period, e.g. 0.5 with period 100000 gives 50000
func CPUQuota(fraction float64, period uint64) (uint64, error) {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) || fraction <= 0 {
		return 0, fmt.Errorf("cgroup: invalid cpu fraction %v", fraction)
	}
	if period == 0 {
		return 0, fmt.Errorf("cgroup: invalid cpu period %d", period)
	}
	// round rather than truncate, 0.29 * 100000 is 28999.999...
	q := uint64(math.Round(fraction * float64(period)))
	if q == 0 {
		return 0, fmt.Errorf("cgroup: cpu fraction %v is below the kernel granularity", fraction)
	}
	return q, nil
}
