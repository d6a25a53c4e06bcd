package cgroup

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCPUQuota(t *testing.T) {
	for _, tc := range []struct {
		fraction float64
		period   uint64
		want     uint64
	}{
		{0.5, DefaultCPUPeriod, 50000},
		{1.0, DefaultCPUPeriod, 100000},
		{2.0, DefaultCPUPeriod, 200000},
		{0.29, DefaultCPUPeriod, 29000},
		{0.25, 200000, 50000},
	} {
		got, err := CPUQuota(tc.fraction, tc.period)
		assert.NilError(t, err)
		assert.Equal(t, got, tc.want, "fraction %v period %d", tc.fraction, tc.period)
	}
}

func TestCPUQuotaInvalid(t *testing.T) {
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1), 1e-9} {
		_, err := CPUQuota(f, DefaultCPUPeriod)
		assert.Check(t, err != nil, "fraction %v", f)
	}
	_, err := CPUQuota(0.5, 0)
	assert.Check(t, err != nil)
}
