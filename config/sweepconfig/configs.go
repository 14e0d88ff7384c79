package sweepconfig

import (
	"github.com/twitter/simsweep/simulator/simulators"
)

// DefaultConfigName names the preset used when none is selected.
const DefaultConfigName = "default"

// Configs the map of available presets
var Configs = map[string]Config{
	DefaultConfigName: defaultConfig,
	"smoke":           smokeConfig,
}

// defaultConfig the values used when no preset is selected, and for any field a
// JSON config file leaves out
var defaultConfig = Config{
	GPUs:      25,
	LogDir:    "logs",
	Processes: 0,
	Policies: []string{
		"fifo", "fifo_perf", "fifo_packed",
		"max_min_fairness", "max_min_fairness_perf", "max_min_fairness_packed",
	},
	Ratios:           []string{"1:0:0", "1:1:0", "1:1:1", "2:1:0"},
	Seeds:            []int64{0, 1, 42, 1234, 10},
	Interval:         1920,
	ThroughputsFile:  "oracle_throughputs.json",
	ScheduleInRounds: true,
	Verbose:          true,
	NumDataPoints:    20,
	Simulator: simulators.Config{
		Kind:           simulators.ExecKind,
		Command:        []string{"fakesim"},
		GracePeriodSec: 10,
	},
}

var smokeLower, smokeUpper = 10, 50

// smokeConfig a small sweep against the in-process fake simulator - !!! make sure this constant is added to Configs map above !!!
var smokeConfig = Config{
	GPUs:                   8,
	LogDir:                 "logs",
	TimeoutSec:             60,
	Processes:              4,
	Policies:               []string{"fifo", "max_min_fairness"},
	Ratios:                 []string{"1:0:0", "1:1:0"},
	Seeds:                  []int64{0, 1},
	Interval:               360,
	ScheduleInRounds:       true,
	Verbose:                true,
	NumTotalJobsLowerBound: &smokeLower,
	NumTotalJobsUpperBound: &smokeUpper,
	NumDataPoints:          4,
	Simulator: simulators.Config{
		Kind:   simulators.FakeKind,
		Script: []string{"sleep_per_job 2", "model"},
	},
}
