// Package cluster derives per-GPU-type cluster sizes from a total GPU budget
// and a v100:p100:k80 ratio.
package cluster

import (
	"strconv"
	"strings"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/domain"
)

// Ratio is a proportion per GPU type, in domain.GPUTypes order.
type Ratio [3]int

func (r Ratio) Sum() int {
	return r[0] + r[1] + r[2]
}

func (r Ratio) String() string {
	return strconv.Itoa(r[0]) + ":" + strconv.Itoa(r[1]) + ":" + strconv.Itoa(r[2])
}

// ParseRatio parses "a:b:c" into a Ratio. Exactly three non-negative integer
// components are required.
func ParseRatio(s string) (Ratio, error) {
	var r Ratio
	parts := strings.Split(s, ":")
	if len(parts) != len(r) {
		return r, errors.NewConfigError("Invalid cluster ratio %s", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return r, errors.NewConfigError("Invalid cluster ratio %s", s)
		}
		r[i] = n
	}
	return r, nil
}

// Allocate splits total GPUs across types in proportion to r. Each count is
// truncated toward zero, so the counts may sum to less than total; the
// remainder is dropped.
func Allocate(total int, r Ratio) (domain.ClusterSpec, error) {
	if total < 0 {
		return nil, errors.NewConfigError("Invalid GPU count %d", total)
	}
	sum := r.Sum()
	if sum == 0 {
		return nil, errors.NewConfigError("Invalid cluster ratio %s: all proportions are zero", r)
	}
	spec := domain.ClusterSpec{}
	for i, gpuType := range domain.GPUTypes {
		fraction := float64(r[i]) / float64(sum)
		spec[gpuType] = int(fraction * float64(total))
	}
	return spec, nil
}

// AllocateString parses ratio and allocates total GPUs across it.
func AllocateString(total int, ratio string) (domain.ClusterSpec, error) {
	r, err := ParseRatio(ratio)
	if err != nil {
		return nil, err
	}
	return Allocate(total, r)
}
