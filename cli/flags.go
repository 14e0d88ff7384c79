package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/twitter/simsweep/config/sweepconfig"
)

// sweepFlags are the sweep settings that can be given on the command line.
// A flag overrides the selected config only when it is set explicitly.
type sweepFlags struct {
	config string

	gpus                 int
	logDir               string
	timeout              int
	processes            int
	policies             []string
	ratios               []string
	seeds                []int
	interval             int
	fixedJobDuration     int
	throughputsFile      string
	generateMultiGPUJobs bool
	verbose              bool
	lowerBound           int
	upperBound           int
	numDataPoints        int

	simulator    string
	simulatorCmd string
	dryRun       bool
}

func (f *sweepFlags) register(fs *pflag.FlagSet) {
	d := sweepconfig.Configs[sweepconfig.DefaultConfigName]
	var seeds []int
	for _, s := range d.Seeds {
		seeds = append(seeds, int(s))
	}

	fs.StringVar(&f.config, "config", sweepconfig.DefaultConfigName,
		"Sweep preset ("+strings.Join(sweepconfig.PresetNames(), "|")+") or a .json config file")
	fs.IntVarP(&f.gpus, "gpus", "g", d.GPUs, "Number of GPUs in cluster")
	fs.StringVarP(&f.logDir, "log-dir", "l", d.LogDir, "Directory to write logs and results to")
	fs.IntVarP(&f.timeout, "timeout", "t", d.TimeoutSec, "Timeout (in seconds) for each run, 0 for none")
	fs.IntVarP(&f.processes, "processes", "j", d.Processes, "Number of experiments to run in parallel, 0 for one per CPU")
	fs.StringSliceVarP(&f.policies, "policies", "p", d.Policies, "List of policies to sweep")
	fs.StringSliceVarP(&f.ratios, "ratios", "r", d.Ratios, "List of cluster ratios (v100:p100:k80) to sweep")
	fs.IntSliceVar(&f.seeds, "seeds", seeds, "List of random seeds")
	fs.IntVarP(&f.interval, "interval", "i", d.Interval, "Interval length (in seconds)")
	fs.IntVarP(&f.fixedJobDuration, "fixed-job-duration", "f", 0, "If set, fixes the duration of all jobs to the specified value (in seconds)")
	fs.StringVar(&f.throughputsFile, "throughputs_file", d.ThroughputsFile, "Oracle throughputs file")
	fs.BoolVarP(&f.generateMultiGPUJobs, "generate-multi-gpu-jobs", "m", d.GenerateMultiGPUJobs, "If set, generates multi-GPU jobs according to a pre-defined distribution")
	fs.BoolVarP(&f.verbose, "verbose", "v", d.Verbose, "Log each experiment's configuration and results")
	fs.IntVarP(&f.lowerBound, "num-total-jobs-lower-bound", "a", 0, "Lower bound for num_total_jobs to sweep")
	fs.IntVarP(&f.upperBound, "num-total-jobs-upper-bound", "b", 0, "Upper bound for num_total_jobs to sweep")
	fs.IntVarP(&f.numDataPoints, "num-data-points", "n", d.NumDataPoints, "Number of data points to sweep through")

	fs.StringVar(&f.simulator, "simulator", d.Simulator.Kind, "Simulator backend (exec|fake)")
	fs.StringVar(&f.simulatorCmd, "simulator_cmd", strings.Join(d.Simulator.Command, " "), "Command line of the exec simulator")
	fs.BoolVar(&f.dryRun, "dry_run", false, "Print the experiment matrix without running it")
}

// resolve loads the selected config and lays the explicitly set flags over it.
func (f *sweepFlags) resolve(fs *pflag.FlagSet) (sweepconfig.Config, error) {
	c, err := sweepconfig.GetConfig(f.config)
	if err != nil {
		return c, err
	}

	if fs.Changed("gpus") {
		c.GPUs = f.gpus
	}
	if fs.Changed("log-dir") {
		c.LogDir = f.logDir
	}
	if fs.Changed("timeout") {
		c.TimeoutSec = f.timeout
	}
	if fs.Changed("processes") {
		c.Processes = f.processes
	}
	if fs.Changed("policies") {
		c.Policies = f.policies
	}
	if fs.Changed("ratios") {
		c.Ratios = f.ratios
	}
	if fs.Changed("seeds") {
		c.Seeds = nil
		for _, s := range f.seeds {
			c.Seeds = append(c.Seeds, int64(s))
		}
	}
	if fs.Changed("interval") {
		c.Interval = f.interval
	}
	if fs.Changed("fixed-job-duration") {
		d := f.fixedJobDuration
		c.FixedJobDuration = &d
	}
	if fs.Changed("throughputs_file") {
		c.ThroughputsFile = f.throughputsFile
	}
	if fs.Changed("generate-multi-gpu-jobs") {
		c.GenerateMultiGPUJobs = f.generateMultiGPUJobs
	}
	if fs.Changed("verbose") {
		c.Verbose = f.verbose
	}
	if fs.Changed("num-total-jobs-lower-bound") {
		lower := f.lowerBound
		c.NumTotalJobsLowerBound = &lower
	}
	if fs.Changed("num-total-jobs-upper-bound") {
		upper := f.upperBound
		c.NumTotalJobsUpperBound = &upper
	}
	if fs.Changed("num-data-points") {
		c.NumDataPoints = f.numDataPoints
	}
	if fs.Changed("simulator") {
		c.Simulator.Kind = f.simulator
	}
	if fs.Changed("simulator_cmd") {
		c.Simulator.Command = strings.Fields(f.simulatorCmd)
	}
	if fs.Changed("dry_run") {
		c.DryRun = f.dryRun
	}
	return c, nil
}
