// Package harness runs a single experiment: it opens the experiment's log,
// builds a simulator for it, runs the simulation under an optional timeout
// and reads back the metrics.
package harness

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/async"
	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/logdir"
	"github.com/twitter/simsweep/simulator"
)

type Harness struct {
	factory simulator.Factory
	outputs logdir.OutputCreator
	stat    stats.StatsReceiver
}

func New(factory simulator.Factory, outputs logdir.OutputCreator, stat stats.StatsReceiver) *Harness {
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Harness{factory: factory, outputs: outputs, stat: stat}
}

// Run runs cfg to completion, or until cfg.Timeout elapses.
//
// A run that times out is not an error: the simulation is abandoned (its
// context is cancelled but Run does not wait for it) and a sentinel result of
// infinite JCT and full utilization is returned. Any other simulator failure,
// including a panic, is returned as an error.
func (h *Harness) Run(ctx context.Context, cfg domain.ExperimentConfig) (result domain.ExperimentResult, err error) {
	h.stat.Counter(stats.ExperimentStartedCounter).Inc(1)
	defer h.stat.Latency(stats.ExperimentRunLatency_ms).Time().Stop()
	defer func() {
		switch {
		case err != nil:
			h.stat.Counter(stats.ExperimentFailedCounter).Inc(1)
		case result.TimedOut:
			h.stat.Counter(stats.ExperimentTimedOutCounter).Inc(1)
		default:
			h.stat.Counter(stats.ExperimentCompletedCounter).Inc(1)
			h.stat.GaugeFloat(stats.ExperimentLastJCTGauge).Update(result.AverageJCT)
		}
	}()

	out, err := h.outputs.Create(cfg.LogFile)
	if err != nil {
		return result, pkgerrors.Wrap(err, "could not create log")
	}
	defer out.Close()

	policy, err := simulator.GetPolicy(cfg.Policy, cfg.Seed)
	if err != nil {
		return result, err
	}
	sim, err := h.factory.New(simulator.Options{
		Policy:           policy,
		ScheduleInRounds: cfg.ScheduleInRounds,
		ThroughputsFile:  cfg.ThroughputsFile,
		Seed:             cfg.Seed,
		TimePerIteration: cfg.Interval,
		Emulate:          true,
		Output:           out,
	})
	if err != nil {
		return result, pkgerrors.Wrap(err, "could not create simulator")
	}

	if cfg.Verbose {
		log.Infof("[Experiment ID: %2d] Configuration: cluster_spec=%s, policy=%s, seed=%d, num_total_jobs=%d",
			cfg.ID, cfg.Cluster, policy.Name, cfg.Seed, cfg.NumTotalJobs)
	}
	log.WithFields(
		log.Fields{
			"experimentID": cfg.ID,
			"log":          out.URI(),
			"timeout":      cfg.Timeout,
		}).Debug("Running experiment")

	timedOut, err := h.emulate(ctx, cfg, sim)
	if err != nil {
		return result, pkgerrors.Wrapf(err, "simulating policy %s on %s", cfg.Policy, cfg.Cluster)
	}
	if timedOut {
		log.WithFields(
			log.Fields{
				"experimentID": cfg.ID,
				"timeout":      cfg.Timeout,
				"log":          out.AsFile(),
			}).Info("Experiment timed out, abandoning simulation")
		fmt.Fprintf(out, "Timed out after %s\n", cfg.Timeout)
		result = domain.TimedOutResult(cfg.ID)
	} else {
		result = domain.ExperimentResult{
			ID:          cfg.ID,
			AverageJCT:  sim.AverageJCT(),
			Utilization: sim.ClusterUtilization(),
			Makespan:    sim.CurrentTimestamp(),
		}
	}

	if cfg.Verbose {
		log.Infof("[Experiment ID: %2d] Results: average JCT=%f, utilization=%f, makespan=%s",
			cfg.ID, result.AverageJCT, result.Utilization, result.FormatMakespan())
	}
	return result, nil
}

// emulate returns true if the simulation was abandoned because it timed out.
func (h *Harness) emulate(ctx context.Context, cfg domain.ExperimentConfig, sim simulator.Simulator) (bool, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	params := simulator.NewRunParams(cfg)

	if !cfg.HasTimeout() {
		return false, sim.Emulate(runCtx, params)
	}

	done := async.Go(func() error {
		return sim.Emulate(runCtx, params)
	})
	timeout := time.NewTimer(cfg.Timeout)
	defer timeout.Stop()

	select {
	case <-done.Done():
		return false, done.Wait()
	case <-timeout.C:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
