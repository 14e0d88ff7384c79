// Package domain holds the values passed between the sweep generator, the
// worker pool and the execution harness.
package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// GPU types in the order they are rendered everywhere: status lines,
// simulator arguments and log directory names.
var GPUTypes = []string{"v100", "p100", "k80"}

// ClusterSpec maps a GPU type label to the number of GPUs of that type.
type ClusterSpec map[string]int

// String renders the spec as "v100:N|p100:N|k80:N".
func (c ClusterSpec) String() string {
	return c.join(":", "|")
}

// DirName renders the spec as "v100=N.p100=N.k80=N".
func (c ClusterSpec) DirName() string {
	return c.join("=", ".")
}

// ParseClusterSpec parses the "v100:N|p100:N|k80:N" form produced by String.
// Types may appear in any order; missing types have no GPUs.
func ParseClusterSpec(s string) (ClusterSpec, error) {
	spec := ClusterSpec{}
	for _, part := range strings.Split(s, "|") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, pkgerrors.Errorf("invalid cluster spec %q: expected type:count, got %q", s, part)
		}
		n, err := strconv.Atoi(kv[1])
		if err != nil || n < 0 {
			return nil, pkgerrors.Errorf("invalid cluster spec %q: bad count for %s", s, kv[0])
		}
		if !isGPUType(kv[0]) {
			return nil, pkgerrors.Errorf("invalid cluster spec %q: unknown GPU type %s", s, kv[0])
		}
		spec[kv[0]] = n
	}
	for _, t := range GPUTypes {
		if _, ok := spec[t]; !ok {
			spec[t] = 0
		}
	}
	return spec, nil
}

func isGPUType(t string) bool {
	for _, g := range GPUTypes {
		if g == t {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no storage with c.
func (c ClusterSpec) Clone() ClusterSpec {
	if c == nil {
		return nil
	}
	out := make(ClusterSpec, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Total is the number of GPUs across all types.
func (c ClusterSpec) Total() int {
	total := 0
	for _, t := range GPUTypes {
		total += c[t]
	}
	return total
}

func (c ClusterSpec) join(kv, sep string) string {
	parts := make([]string, len(GPUTypes))
	for i, t := range GPUTypes {
		parts[i] = fmt.Sprintf("%s%s%d", t, kv, c[t])
	}
	return strings.Join(parts, sep)
}

// ExperimentConfig is everything needed to run one simulation.
type ExperimentConfig struct {
	// Sequential in generation order, used for reporting only.
	ID     int
	Policy string

	Cluster ClusterSpec
	// 0 means all jobs are injected at the start of the trace.
	Lambda float64
	Seed   int64
	// Round length in seconds.
	Interval             int
	FixedJobDuration     *int
	GenerateMultiGPUJobs bool
	NumTotalJobs         int

	LogFile string
	// 0 means no timeout.
	Timeout time.Duration
	Verbose bool

	ThroughputsFile  string
	ScheduleInRounds bool
}

// HasTimeout reports whether the run must be abandoned after Timeout.
func (c ExperimentConfig) HasTimeout() bool {
	return c.Timeout > 0
}

func (c ExperimentConfig) String() string {
	return fmt.Sprintf("[Experiment ID: %2d] cluster_spec=%s, policy=%s, seed=%d, num_total_jobs=%d",
		c.ID, c.Cluster, c.Policy, c.Seed, c.NumTotalJobs)
}

// ExperimentResult holds the metrics read back from a finished simulation.
type ExperimentResult struct {
	ID          int
	AverageJCT  float64
	Utilization float64
	Makespan    float64
	TimedOut    bool
}

// TimedOutResult is reported for a run abandoned by its watchdog. Makespan is
// never read from an abandoned simulator.
func TimedOutResult(id int) ExperimentResult {
	return ExperimentResult{
		ID:          id,
		AverageJCT:  math.Inf(1),
		Utilization: 1.0,
		Makespan:    math.NaN(),
		TimedOut:    true,
	}
}

func (r ExperimentResult) HasMakespan() bool {
	return !r.TimedOut && !math.IsNaN(r.Makespan)
}

// FormatMakespan renders the makespan, or "n/a" when there is none to report.
func (r ExperimentResult) FormatMakespan() string {
	if !r.HasMakespan() {
		return "n/a"
	}
	return fmt.Sprintf("%f", r.Makespan)
}
