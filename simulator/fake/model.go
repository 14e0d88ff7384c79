package fake

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/simulator"
)

// Relative speed of each GPU type, v100 being the fastest.
var gpuSpeed = map[string]float64{
	"v100": 1.0,
	"p100": 0.6,
	"k80":  0.35,
}

const (
	minJobDuration = 1800.0
	maxJobDuration = 5400.0
)

// modelStep list-schedules the trace onto the cluster: every job runs on one
// GPU, jobs are placed in arrival order. "fifo" policies place a job on the
// GPU that frees up first; any other policy places it where it finishes first.
type modelStep struct{}

type gpu struct {
	speed  float64
	freeAt float64
	busy   float64
}

func (st *modelStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	if p.NumTotalJobs <= 0 {
		return pkgerrors.Errorf("nothing to emulate: num_total_jobs=%d", p.NumTotalJobs)
	}
	gpus := newGPUs(p.Cluster)
	if len(gpus) == 0 {
		return pkgerrors.Errorf("nothing to emulate on: cluster_spec=%s", p.Cluster)
	}

	rng := rand.New(rand.NewSource(s.opts.Seed))
	fifo := s.opts.Policy.Name == "" || strings.HasPrefix(s.opts.Policy.Name, "fifo")
	round := float64(s.opts.TimePerIteration)

	arrival, totalJCT, makespan := 0.0, 0.0, 0.0
	for i := 0; i < p.NumTotalJobs; i++ {
		if i%1024 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if p.Lambda > 0 {
			arrival += rng.ExpFloat64() * p.Lambda
		}
		duration := minJobDuration + rng.Float64()*(maxJobDuration-minJobDuration)
		if p.FixedJobDuration != nil {
			duration = float64(*p.FixedJobDuration)
		}
		scale := 1
		if p.GenerateMultiGPUJobs {
			// 70% single, then 2, 4 and 8 GPU jobs; a job spreads its work across its GPUs.
			scale = []int{1, 1, 1, 1, 1, 1, 1, 2, 4, 8}[rng.Intn(10)]
		}

		g := pick(gpus, arrival, duration, fifo)
		start := math.Max(g.freeAt, arrival)
		if s.opts.ScheduleInRounds && round > 0 {
			start = math.Ceil(start/round) * round
		}
		run := duration / g.speed / float64(scale)
		g.freeAt = start + run
		g.busy += run
		totalJCT += g.freeAt - arrival
		makespan = math.Max(makespan, g.freeAt)
	}

	busy := 0.0
	for _, g := range gpus {
		busy += g.busy
	}
	util := 0.0
	if makespan > 0 {
		util = busy / (makespan * float64(len(gpus)))
	}
	fmt.Fprintf(s.opts.Output, "Emulated %d jobs on %s with policy %s\n", p.NumTotalJobs, p.Cluster, s.opts.Policy.Name)
	s.setMetrics(totalJCT/float64(p.NumTotalJobs), util, makespan)
	return nil
}

func newGPUs(spec domain.ClusterSpec) []*gpu {
	var gpus []*gpu
	for _, t := range domain.GPUTypes {
		for i := 0; i < spec[t]; i++ {
			gpus = append(gpus, &gpu{speed: gpuSpeed[t]})
		}
	}
	return gpus
}

func pick(gpus []*gpu, arrival, duration float64, fifo bool) *gpu {
	best := gpus[0]
	bestScore := math.Inf(1)
	for _, g := range gpus {
		start := math.Max(g.freeAt, arrival)
		score := start
		if !fifo {
			score = start + duration/g.speed
		}
		if score < bestScore {
			best, bestScore = g, score
		}
	}
	return best
}
