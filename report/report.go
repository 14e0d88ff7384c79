// Package report writes what a finished sweep measured.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	pkgerrors "github.com/pkg/errors"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/domain"
)

const (
	ResultsFileName = "results.csv"
	StatsFileName   = "stats.json"
)

var header = []string{
	"experiment_id", "cluster_spec", "policy", "seed", "num_total_jobs",
	"average_jct", "utilization", "makespan", "timed_out",
}

// Write writes one row per result to <dir>/results.csv, in result order.
func Write(dir string, cfgs []domain.ExperimentConfig, results []domain.ExperimentResult) (string, error) {
	byID := indexByID(cfgs)
	path := filepath.Join(dir, ResultsFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewError(pkgerrors.Wrap(err, "creating results file"), errors.OutputFailureExitCode)
	}
	defer f.Close()

	if err := writeCSV(f, byID, results); err != nil {
		return "", errors.NewError(pkgerrors.Wrapf(err, "writing %s", path), errors.OutputFailureExitCode)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewError(pkgerrors.Wrapf(err, "closing %s", path), errors.OutputFailureExitCode)
	}
	return path, nil
}

func writeCSV(w io.Writer, byID map[int]domain.ExperimentConfig, results []domain.ExperimentResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		cfg, ok := byID[r.ID]
		if !ok {
			return fmt.Errorf("no configuration for experiment %d", r.ID)
		}
		makespan := ""
		if r.HasMakespan() {
			makespan = formatFloat(r.Makespan)
		}
		row := []string{
			strconv.Itoa(r.ID),
			cfg.Cluster.String(),
			cfg.Policy,
			strconv.FormatInt(cfg.Seed, 10),
			strconv.Itoa(cfg.NumTotalJobs),
			formatFloat(r.AverageJCT),
			formatFloat(r.Utilization),
			makespan,
			strconv.FormatBool(r.TimedOut),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func indexByID(cfgs []domain.ExperimentConfig) map[int]domain.ExperimentConfig {
	byID := make(map[int]domain.ExperimentConfig, len(cfgs))
	for _, c := range cfgs {
		byID[c.ID] = c
	}
	return byID
}

// WriteStats renders stat to <dir>/stats.json.
func WriteStats(dir string, stat stats.StatsReceiver) (string, error) {
	path := filepath.Join(dir, StatsFileName)
	if err := ioutil.WriteFile(path, stat.Render(true), 0644); err != nil {
		return "", errors.NewError(pkgerrors.Wrap(err, "writing stats"), errors.OutputFailureExitCode)
	}
	return path, nil
}

// Summary aggregates the seeds of one (cluster, policy, num_total_jobs) point.
type Summary struct {
	Cluster      string
	Policy       string
	NumTotalJobs int
	Runs         int
	TimedOut     int
	// Means over the runs that did not time out; NaN if all of them did.
	MeanJCT         float64
	MeanUtilization float64
	MeanMakespan    float64
}

type summaryKey struct {
	cluster string
	policy  string
	jobs    int
}

// Summarize groups results by (cluster, policy, num_total_jobs), in the order
// each group first appears in cfgs.
func Summarize(cfgs []domain.ExperimentConfig, results []domain.ExperimentResult) []Summary {
	byResultID := map[int]domain.ExperimentResult{}
	for _, r := range results {
		byResultID[r.ID] = r
	}

	var order []summaryKey
	sums := map[summaryKey]*Summary{}
	for _, cfg := range cfgs {
		r, ok := byResultID[cfg.ID]
		if !ok {
			continue
		}
		key := summaryKey{cfg.Cluster.String(), cfg.Policy, cfg.NumTotalJobs}
		s, ok := sums[key]
		if !ok {
			s = &Summary{Cluster: key.cluster, Policy: key.policy, NumTotalJobs: key.jobs}
			sums[key] = s
			order = append(order, key)
		}
		s.Runs++
		if r.TimedOut {
			s.TimedOut++
			continue
		}
		s.MeanJCT += r.AverageJCT
		s.MeanUtilization += r.Utilization
		s.MeanMakespan += r.Makespan
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		s := sums[key]
		completed := float64(s.Runs - s.TimedOut)
		// 0/0 leaves NaN when every run timed out
		s.MeanJCT /= completed
		s.MeanUtilization /= completed
		s.MeanMakespan /= completed
		out = append(out, *s)
	}
	return out
}

// WriteSummary prints summaries as an aligned table.
func WriteSummary(w io.Writer, sums []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "cluster_spec\tpolicy\tnum_total_jobs\truns\ttimed_out\tmean_jct\tmean_utilization\tmean_makespan")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.2f\t%.4f\t%.2f\n",
			s.Cluster, s.Policy, s.NumTotalJobs, s.Runs, s.TimedOut, s.MeanJCT, s.MeanUtilization, s.MeanMakespan)
	}
	return tw.Flush()
}
