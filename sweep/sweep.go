// Package sweep expands a sweep configuration into its experiment matrix and
// runs every experiment on a worker pool.
package sweep

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	uuid "github.com/nu7hatch/gouuid"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/config/sweepconfig"
	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/harness"
	"github.com/twitter/simsweep/logdir"
	"github.com/twitter/simsweep/pool"
	"github.com/twitter/simsweep/report"
	"github.com/twitter/simsweep/simulator"
	"github.com/twitter/simsweep/simulator/simulators"
)

// Runner runs one sweep. Only Config is required.
type Runner struct {
	Config sweepconfig.Config
	// Defaults to the backend named by Config.Simulator.
	Factory simulator.Factory
	// Defaults to one log file per experiment.
	Outputs logdir.OutputCreator
	Stat    stats.StatsReceiver
	// Dry-run listings and the summary table go here. Defaults to stdout.
	Out io.Writer
}

// Outcome is what a finished sweep produced.
type Outcome struct {
	RunID string
	// Configurations in the order they were run and collected.
	Configs     []domain.ExperimentConfig
	Results     []domain.ExperimentResult
	Summaries   []report.Summary
	ResultsFile string
	StatsFile   string
}

// Run runs the sweep described by c with the default simulator backend.
func Run(ctx context.Context, c sweepconfig.Config) (*Outcome, error) {
	return (&Runner{Config: c}).Run(ctx)
}

// Run validates the configuration, generates the experiment matrix and runs
// it. Every usage error is reported before any directory is created or any
// experiment starts. With DryRun set, the matrix is printed and nothing runs.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	stat := r.Stat
	if stat == nil {
		stat = stats.DefaultStatsReceiver()
	}
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	params, err := NewParams(r.Config)
	if err != nil {
		return nil, err
	}
	cfgs, err := Generate(params)
	if err != nil {
		return nil, err
	}
	if len(cfgs) == 0 {
		return nil, pool.ErrNoWork
	}
	sorted := pool.SortByJobCount(cfgs)
	stat.Gauge(stats.SweepExperimentsGauge).Update(int64(len(cfgs)))

	if r.Config.DryRun {
		for _, cfg := range sorted {
			fmt.Fprintf(out, "%s\t%s\n", cfg, cfg.LogFile)
		}
		return &Outcome{Configs: sorted}, nil
	}

	factory := r.Factory
	if factory == nil {
		if factory, err = simulators.NewFactory(r.Config.Simulator, stat); err != nil {
			return nil, err
		}
	}
	outputs := r.Outputs
	if outputs == nil {
		if outputs, err = logdir.NewFileOutputCreator(stat); err != nil {
			return nil, err
		}
	}

	// Loaded once so a bad table fails the sweep up front; every simulator
	// gets the path.
	if r.Config.ThroughputsFile != "" {
		if _, err := simulator.LoadThroughputs(r.Config.ThroughputsFile); err != nil {
			return nil, err
		}
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("Experiment matrix:\n%s", spew.Sdump(sorted))
	}
	if err := params.Layout.EnsureAll(cfgs); err != nil {
		return nil, err
	}

	runID := newRunID()
	log.WithFields(
		log.Fields{
			"runID":  runID,
			"logDir": r.Config.LogDir,
		}).Infof("Running %d total experiment(s)...", len(cfgs))

	h := harness.New(factory, outputs, stat)
	coordinator := pool.NewCoordinator(r.Config.Processes, stat)
	timer := stat.Latency(stats.SweepLatency_ms).Time()
	results, err := coordinator.Run(ctx, cfgs, h.Run)
	timer.Stop()
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		RunID:     runID,
		Configs:   sorted,
		Results:   results,
		Summaries: report.Summarize(sorted, results),
	}
	if outcome.ResultsFile, err = report.Write(r.Config.LogDir, sorted, results); err != nil {
		return nil, err
	}
	if err := report.WriteSummary(out, outcome.Summaries); err != nil {
		log.WithFields(
			log.Fields{
				"runID": runID,
				"error": err,
			}).Warn("Couldn't print summary")
	}
	if outcome.StatsFile, err = report.WriteStats(r.Config.LogDir, stat); err != nil {
		return nil, err
	}

	log.WithFields(
		log.Fields{
			"runID":       runID,
			"experiments": len(results),
			"results":     outcome.ResultsFile,
		}).Info("Sweep finished")
	return outcome, nil
}

func newRunID() string {
	id, err := uuid.NewV4()
	for err != nil {
		id, err = uuid.NewV4()
	}
	return id.String()
}
