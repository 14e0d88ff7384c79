package main

// fakesim is a stand-in for the physical cluster simulator that speaks the
// exec simulator protocol. It emulates the trace with a list-scheduling model
// and writes the resulting metrics to --metrics_file.
//
// The steps it runs can be changed with --script, e.g.
//	fakesim --script "sleep_per_job 10;model" --policy fifo ...

import (
	"context"
	"flag"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/common/log/hooks"
	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/simulator"
	"github.com/twitter/simsweep/simulator/execsim"
	"github.com/twitter/simsweep/simulator/fake"
)

func main() {
	log.AddHook(hooks.NewContextHook())

	policy := flag.String("policy", "", "Scheduling policy")
	seed := flag.Int64("seed", 0, "Random seed")
	throughputsFile := flag.String("throughputs_file", "", "Oracle throughputs file")
	timePerIteration := flag.Int("time_per_iteration", 1920, "Round length in seconds")
	scheduleInRounds := flag.Bool("schedule_in_rounds", true, "Schedule in rounds")
	emulate := flag.Bool("emulate", true, "Emulate instead of running on a real cluster")
	clusterSpec := flag.String("cluster_spec", "", "v100:N|p100:N|k80:N")
	lam := flag.Float64("lam", 0, "Job arrival rate, 0 to add every job at the start")
	fixedJobDuration := flag.Int("fixed_job_duration", 0, "Fixed job duration in seconds, 0 for sampled durations")
	generateMultiGPUJobs := flag.Bool("generate_multi_gpu_jobs", false, "Generate multi-GPU jobs")
	numTotalJobs := flag.Int("num_total_jobs", 0, "Number of jobs in the trace")
	metricsFile := flag.String("metrics_file", "", "Where to write the resulting metrics")
	script := flag.String("script", "model", "Semicolon separated fake simulator steps")
	logLevelFlag := flag.String("log_level", "info", "Log everything at this level and above (error|info|debug)")
	flag.Parse()

	level, err := log.ParseLevel(*logLevelFlag)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)

	if *metricsFile == "" {
		log.Fatal("--metrics_file is required")
	}
	spec, err := domain.ParseClusterSpec(*clusterSpec)
	if err != nil {
		log.Fatal(err)
	}
	p, err := simulator.GetPolicy(*policy, *seed)
	if err != nil {
		log.Fatal(err)
	}
	if *throughputsFile != "" {
		if _, err := simulator.LoadThroughputs(*throughputsFile); err != nil {
			log.Fatal(err)
		}
	}

	var steps []string
	for _, st := range strings.Split(*script, ";") {
		if st = strings.TrimSpace(st); st != "" {
			steps = append(steps, st)
		}
	}
	sim, err := fake.NewSimulator(fake.Config{Script: steps}, simulator.Options{
		Policy:           p,
		ScheduleInRounds: *scheduleInRounds,
		ThroughputsFile:  *throughputsFile,
		Seed:             *seed,
		TimePerIteration: *timePerIteration,
		Emulate:          *emulate,
		Output:           os.Stdout,
	})
	if err != nil {
		log.Fatal(err)
	}

	params := simulator.RunParams{
		Cluster:              spec,
		Lambda:               *lam,
		GenerateMultiGPUJobs: *generateMultiGPUJobs,
		NumTotalJobs:         *numTotalJobs,
	}
	if *fixedJobDuration > 0 {
		params.FixedJobDuration = fixedJobDuration
	}
	if err := sim.Emulate(context.Background(), params); err != nil {
		log.Fatal(err)
	}

	m := execsim.Metrics{
		AverageJCT:  sim.AverageJCT(),
		Utilization: sim.ClusterUtilization(),
		Makespan:    sim.CurrentTimestamp(),
	}
	if err := execsim.WriteMetrics(*metricsFile, m); err != nil {
		log.Fatal(err)
	}
	log.WithFields(
		log.Fields{
			"policy":      p.Name,
			"clusterSpec": spec,
			"averageJCT":  m.AverageJCT,
		}).Info("Simulation finished")
}
