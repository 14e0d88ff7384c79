package cluster

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/domain"
)

func TestParseRatio(t *testing.T) {
	r, err := ParseRatio("2:1:0")
	require.NoError(t, err)
	assert.Equal(t, Ratio{2, 1, 0}, r)
	assert.Equal(t, "2:1:0", r.String())

	for _, bad := range []string{"1:2", "1:1:1:1", "", "a:b:c", "1:-1:0", "1::0"} {
		_, err := ParseRatio(bad)
		assert.True(t, errors.IsConfigError(err), "expected config error for %q, got %v", bad, err)
	}
}

func TestAllocate(t *testing.T) {
	cases := []struct {
		total    int
		ratio    string
		expected domain.ClusterSpec
	}{
		{25, "1:0:0", domain.ClusterSpec{"v100": 25, "p100": 0, "k80": 0}},
		{25, "1:1:0", domain.ClusterSpec{"v100": 12, "p100": 12, "k80": 0}},
		{25, "1:1:1", domain.ClusterSpec{"v100": 8, "p100": 8, "k80": 8}},
		{25, "2:1:0", domain.ClusterSpec{"v100": 16, "p100": 8, "k80": 0}},
		{10, "1:0:0", domain.ClusterSpec{"v100": 10, "p100": 0, "k80": 0}},
		{0, "1:1:1", domain.ClusterSpec{"v100": 0, "p100": 0, "k80": 0}},
	}
	for _, c := range cases {
		spec, err := AllocateString(c.total, c.ratio)
		require.NoError(t, err)
		assert.Equal(t, c.expected, spec, "total=%d ratio=%s", c.total, c.ratio)
	}
}

func TestAllocateErrors(t *testing.T) {
	_, err := AllocateString(25, "0:0:0")
	assert.True(t, errors.IsConfigError(err))

	_, err = AllocateString(-1, "1:0:0")
	assert.True(t, errors.IsConfigError(err))

	_, err = AllocateString(25, "1:0")
	assert.True(t, errors.IsConfigError(err))
}

func TestAllocateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("counts are non-negative, within their share, and never exceed the total", prop.ForAll(
		func(total, a, b, c int) bool {
			r := Ratio{a, b, c}
			if r.Sum() == 0 {
				return true
			}
			spec, err := Allocate(total, r)
			if err != nil {
				return false
			}
			for i, gpuType := range domain.GPUTypes {
				n := spec[gpuType]
				if n < 0 || n*r.Sum() > r[i]*total {
					return false
				}
			}
			return spec.Total() <= total
		},
		gen.IntRange(0, 1000),
		gen.IntRange(0, 16),
		gen.IntRange(0, 16),
		gen.IntRange(0, 16),
	))

	properties.TestingRun(t)
}
