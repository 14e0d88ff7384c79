// Package pool runs a list of experiments on a fixed number of workers and
// collects their results in a deterministic order.
package pool

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/twitter/simsweep/async"
	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/domain"
)

// RunFunc runs one experiment. It is called concurrently from every worker.
type RunFunc func(ctx context.Context, cfg domain.ExperimentConfig) (domain.ExperimentResult, error)

// ErrNoWork is returned when a sweep has no experiments to run.
var ErrNoWork = errors.NewConfigError("No work to be done!")

type Coordinator struct {
	workers  int
	stat     stats.StatsReceiver
	progress *rate.Limiter
	busy     int64
}

// NewCoordinator creates a Coordinator running at most workers experiments at
// once. workers <= 0 means one per CPU.
func NewCoordinator(workers int, stat stats.StatsReceiver) *Coordinator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	return &Coordinator{
		workers:  workers,
		stat:     stat,
		progress: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
}

func (c *Coordinator) Workers() int {
	return c.workers
}

// SortByJobCount returns a copy of cfgs ordered by ascending NumTotalJobs, so
// short experiments run first. Ties keep their generation order.
func SortByJobCount(cfgs []domain.ExperimentConfig) []domain.ExperimentConfig {
	sorted := append([]domain.ExperimentConfig{}, cfgs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NumTotalJobs < sorted[j].NumTotalJobs
	})
	return sorted
}

type task struct {
	cfg    domain.ExperimentConfig
	result domain.ExperimentResult
	done   *async.AsyncError
}

// Run executes every configuration and returns one result per configuration,
// in ascending NumTotalJobs order.
//
// All work is queued up front and picked up first-in first-out by the
// workers. Results are collected in queue order regardless of the order in
// which experiments finish. The first failed experiment reached in that order
// ends the sweep: the remaining work is cancelled and no results are returned.
func (c *Coordinator) Run(ctx context.Context, cfgs []domain.ExperimentConfig, run RunFunc) ([]domain.ExperimentResult, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoWork
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sorted := SortByJobCount(cfgs)
	queue := make(chan *task, len(sorted))
	tasks := make([]*task, len(sorted))
	for i, cfg := range sorted {
		tasks[i] = &task{cfg: cfg, done: async.NewAsyncError()}
		queue <- tasks[i]
	}
	close(queue)

	numWorkers := c.workers
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}
	c.stat.Gauge(stats.SweepWorkersGauge).Update(int64(numWorkers))
	log.WithFields(
		log.Fields{
			"experiments": len(tasks),
			"workers":     numWorkers,
		}).Info("Starting workers")
	for i := 0; i < numWorkers; i++ {
		go c.work(ctx, queue, run)
	}

	results := make([]domain.ExperimentResult, 0, len(tasks))
	for i, t := range tasks {
		select {
		case <-t.done.Done():
		case <-ctx.Done():
			return nil, pkgerrors.Wrap(ctx.Err(), "sweep interrupted")
		}
		if err := t.done.Wait(); err != nil {
			log.WithFields(
				log.Fields{
					"experimentID": t.cfg.ID,
					"error":        err,
				}).Error("Experiment failed, cancelling remaining experiments")
			return nil, pkgerrors.Wrapf(err, "experiment %d failed", t.cfg.ID)
		}
		results = append(results, t.result)
		if c.progress.Allow() || i == len(tasks)-1 {
			log.Infof("Collected %d/%d experiment results", i+1, len(tasks))
		}
	}
	return results, nil
}

func (c *Coordinator) work(ctx context.Context, queue <-chan *task, run RunFunc) {
	for t := range queue {
		if err := ctx.Err(); err != nil {
			t.done.SetValue(err)
			continue
		}
		c.stat.Gauge(stats.SweepWorkersBusyGauge).Update(atomic.AddInt64(&c.busy, 1))
		err := async.Call(func() error {
			var err error
			t.result, err = run(ctx, t.cfg)
			return err
		})
		c.stat.Gauge(stats.SweepWorkersBusyGauge).Update(atomic.AddInt64(&c.busy, -1))
		t.done.SetValue(err)
	}
}
