package simulator

//go:generate mockgen -source=simulator.go -package=simulator -destination=simulator_mock.go

import (
	"context"
	"io"

	"github.com/twitter/simsweep/domain"
)

// Options configures one simulator instance. A simulator is built per
// experiment and never shared between experiments.
type Options struct {
	Policy           Policy
	ScheduleInRounds bool
	ThroughputsFile  string
	Seed             int64
	// Round length in seconds.
	TimePerIteration int
	Emulate          bool
	// Diagnostic output of the simulation. Never nil.
	Output io.Writer
}

// RunParams describes the workload a simulator emulates.
type RunParams struct {
	Cluster              domain.ClusterSpec
	Lambda               float64
	FixedJobDuration     *int
	GenerateMultiGPUJobs bool
	NumTotalJobs         int
}

// NewRunParams extracts the workload part of an experiment configuration.
func NewRunParams(cfg domain.ExperimentConfig) RunParams {
	return RunParams{
		Cluster:              cfg.Cluster,
		Lambda:               cfg.Lambda,
		FixedJobDuration:     cfg.FixedJobDuration,
		GenerateMultiGPUJobs: cfg.GenerateMultiGPUJobs,
		NumTotalJobs:         cfg.NumTotalJobs,
	}
}

// Simulator emulates a scheduling policy over a synthetic job trace.
//
// Emulate blocks until the simulation finishes. Implementations should stop
// early when ctx is cancelled, but callers must not rely on it: a caller that
// gives up on a run abandons the call instead of waiting for it.
//
// The accessors are only meaningful after Emulate returns nil.
type Simulator interface {
	Emulate(ctx context.Context, p RunParams) error
	AverageJCT() float64
	ClusterUtilization() float64
	// Simulated time at which the last job finished, i.e. the makespan.
	CurrentTimestamp() float64
}

// Factory builds a fresh Simulator for each experiment.
type Factory interface {
	New(opts Options) (Simulator, error)
}

// FactoryFunc adapts a function to a Factory.
type FactoryFunc func(opts Options) (Simulator, error)

func (f FactoryFunc) New(opts Options) (Simulator, error) {
	return f(opts)
}
