package sweep

import (
	"github.com/twitter/simsweep/common/errors"
)

// Range is the fixed range of job counts a sweep covers: NumPoints evenly
// spaced values from Lower up to, but excluding, Upper.
type Range struct {
	Lower     int
	Upper     int
	NumPoints int
}

// NewRange returns nil if neither bound is set. Setting only one bound is an error.
func NewRange(lower, upper *int, numPoints int) (*Range, error) {
	if lower == nil && upper == nil {
		return nil, nil
	}
	if lower == nil || upper == nil {
		return nil, errors.NewConfigError("If num_total_jobs range is not None, both bounds must be specified.")
	}
	return &Range{Lower: *lower, Upper: *upper, NumPoints: numPoints}, nil
}

// Values expands the range. The step is (Upper-Lower)/NumPoints rounded
// down, so the last value may fall well short of Upper. A leading 0 is
// dropped since a trace needs at least one job.
func (r Range) Values() ([]int, error) {
	switch {
	case r.NumPoints < 1:
		return nil, errors.NewConfigError("Invalid number of data points %d", r.NumPoints)
	case r.Lower < 0:
		return nil, errors.NewConfigError("Invalid num_total_jobs lower bound %d", r.Lower)
	case r.Upper <= r.Lower:
		return nil, errors.NewConfigError("Invalid num_total_jobs range [%d, %d)", r.Lower, r.Upper)
	}
	step := (r.Upper - r.Lower) / r.NumPoints
	if step == 0 {
		return nil, errors.NewConfigError("num_total_jobs range [%d, %d) is too narrow for %d data points",
			r.Lower, r.Upper, r.NumPoints)
	}

	var values []int
	for v := r.Lower; v < r.Upper; v += step {
		values = append(values, v)
	}
	if values[0] == 0 {
		values = values[1:]
	}
	return values, nil
}
