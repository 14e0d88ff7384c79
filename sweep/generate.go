package sweep

import (
	"time"

	"github.com/twitter/simsweep/cluster"
	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/config/sweepconfig"
	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/logdir"
)

// Params are the axes of the experiment matrix plus the settings every
// experiment shares.
type Params struct {
	GPUs     int
	Ratios   []string
	Policies []string
	Seeds    []int64
	// nil means no job counts, and so no experiments.
	Range *Range

	Interval             int
	FixedJobDuration     *int
	GenerateMultiGPUJobs bool
	ScheduleInRounds     bool
	ThroughputsFile      string
	Timeout              time.Duration
	Verbose              bool

	Layout logdir.Layout
}

func NewParams(c sweepconfig.Config) (Params, error) {
	r, err := NewRange(c.NumTotalJobsLowerBound, c.NumTotalJobsUpperBound, c.NumDataPoints)
	if err != nil {
		return Params{}, err
	}
	return Params{
		GPUs:                 c.GPUs,
		Ratios:               c.Ratios,
		Policies:             c.Policies,
		Seeds:                c.Seeds,
		Range:                r,
		Interval:             c.Interval,
		FixedJobDuration:     c.FixedJobDuration,
		GenerateMultiGPUJobs: c.GenerateMultiGPUJobs,
		ScheduleInRounds:     c.ScheduleInRounds,
		ThroughputsFile:      c.ThroughputsFile,
		Timeout:              c.Timeout(),
		Verbose:              c.Verbose,
		Layout:               logdir.NewLayout(c.LogDir),
	}, nil
}

// Generate builds the cross product of ratios, policies, job counts and
// seeds, in that nesting order. IDs are assigned 0..n-1 in generation order.
//
// Every configuration gets its own log file and its own copy of the cluster
// spec. Axes that yield the same log file twice, such as a repeated seed or
// two ratios that allocate the same cluster, are rejected.
func Generate(p Params) ([]domain.ExperimentConfig, error) {
	var jobCounts []int
	if p.Range != nil {
		var err error
		if jobCounts, err = p.Range.Values(); err != nil {
			return nil, err
		}
	}

	var cfgs []domain.ExperimentConfig
	logOwners := map[string]int{}
	for _, ratio := range p.Ratios {
		spec, err := cluster.AllocateString(p.GPUs, ratio)
		if err != nil {
			return nil, err
		}
		for _, policy := range p.Policies {
			for _, numTotalJobs := range jobCounts {
				for _, seed := range p.Seeds {
					id := len(cfgs)
					logFile := p.Layout.LogFile(spec, policy, seed, numTotalJobs)
					if owner, ok := logOwners[logFile]; ok {
						return nil, errors.NewConfigError("experiments %d and %d share log %s; remove duplicate ratios, policies or seeds",
							owner, id, logFile)
					}
					logOwners[logFile] = id

					cfgs = append(cfgs, domain.ExperimentConfig{
						ID:      id,
						Policy:  policy,
						Cluster: spec.Clone(),
						// All jobs are added at the start of the trace.
						Lambda:               0,
						Seed:                 seed,
						Interval:             p.Interval,
						FixedJobDuration:     copyInt(p.FixedJobDuration),
						GenerateMultiGPUJobs: p.GenerateMultiGPUJobs,
						NumTotalJobs:         numTotalJobs,
						LogFile:              logFile,
						Timeout:              p.Timeout,
						Verbose:              p.Verbose,
						ThroughputsFile:      p.ThroughputsFile,
						ScheduleInRounds:     p.ScheduleInRounds,
					})
				}
			}
		}
	}
	return cfgs, nil
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
