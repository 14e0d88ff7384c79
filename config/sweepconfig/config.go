// Package sweepconfig holds the named sweep presets and loads sweep
// configuration from JSON files.
package sweepconfig

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/simulator/simulators"
)

// Config describes a whole sweep: the axes of the experiment matrix and how
// each experiment is run.
type Config struct {
	GPUs   int    `json:"gpus"`
	LogDir string `json:"log_dir"`
	// Per-experiment timeout, 0 for none.
	TimeoutSec int `json:"timeout_sec"`
	// Worker count, 0 for one per CPU.
	Processes int `json:"processes"`

	Policies []string `json:"policies"`
	// v100:p100:k80 proportions
	Ratios []string `json:"ratios"`
	Seeds  []int64  `json:"seeds"`

	Interval             int    `json:"interval"`
	FixedJobDuration     *int   `json:"fixed_job_duration,omitempty"`
	ThroughputsFile      string `json:"throughputs_file"`
	GenerateMultiGPUJobs bool   `json:"generate_multi_gpu_jobs"`
	ScheduleInRounds     bool   `json:"schedule_in_rounds"`
	Verbose              bool   `json:"verbose"`

	NumTotalJobsLowerBound *int `json:"num_total_jobs_lower_bound,omitempty"`
	NumTotalJobsUpperBound *int `json:"num_total_jobs_upper_bound,omitempty"`
	NumDataPoints          int  `json:"num_data_points"`

	Simulator simulators.Config `json:"simulator"`

	// Print the experiment matrix instead of running it.
	DryRun bool `json:"dry_run"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// plainConfig drops the String method so the fallback below does not recurse.
type plainConfig Config

func (c Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", plainConfig(c))
	}
	return string(data)
}

// Clone copies c so the copy's slices and pointers can be modified freely.
func (c Config) Clone() Config {
	c.Policies = append([]string(nil), c.Policies...)
	c.Ratios = append([]string(nil), c.Ratios...)
	c.Seeds = append([]int64(nil), c.Seeds...)
	c.Simulator.Command = append([]string(nil), c.Simulator.Command...)
	c.Simulator.Script = append([]string(nil), c.Simulator.Script...)
	c.FixedJobDuration = cloneInt(c.FixedJobDuration)
	c.NumTotalJobsLowerBound = cloneInt(c.NumTotalJobsLowerBound)
	c.NumTotalJobsUpperBound = cloneInt(c.NumTotalJobsUpperBound)
	return c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// Validate checks everything that can be checked without touching the
// filesystem. Every problem is a ConfigError.
func (c Config) Validate() error {
	switch {
	case c.GPUs < 0:
		return errors.NewConfigError("Invalid GPU count %d", c.GPUs)
	case c.TimeoutSec < 0:
		return errors.NewConfigError("Invalid timeout %d", c.TimeoutSec)
	case c.Processes < 0:
		return errors.NewConfigError("Invalid process count %d", c.Processes)
	case c.Interval <= 0:
		return errors.NewConfigError("Invalid interval %d", c.Interval)
	case c.FixedJobDuration != nil && *c.FixedJobDuration <= 0:
		return errors.NewConfigError("Invalid fixed job duration %d", *c.FixedJobDuration)
	case c.LogDir == "":
		return errors.NewConfigError("A log directory is required")
	}
	for _, p := range c.Policies {
		if strings.TrimSpace(p) == "" {
			return errors.NewConfigError("Invalid policy name %q", p)
		}
	}
	if c.ThroughputsFile == "" && c.Simulator.Kind != simulators.FakeKind {
		return errors.NewConfigError("A throughputs file is required for simulator kind %q", c.Simulator.Kind)
	}
	if (c.NumTotalJobsLowerBound == nil) != (c.NumTotalJobsUpperBound == nil) {
		return errors.NewConfigError("If num_total_jobs range is not None, both bounds must be specified.")
	}
	return nil
}

// GetConfig returns the named preset, or, if selector is not a preset name,
// the JSON file at that path laid over the default preset.
func GetConfig(selector string) (Config, error) {
	if preset, ok := Configs[selector]; ok {
		return preset.Clone(), nil
	}
	if !strings.HasSuffix(selector, ".json") {
		return Config{}, errors.NewConfigError("invalid configuration %s, supported values are %v or a .json file", selector, PresetNames())
	}

	data, err := ioutil.ReadFile(selector)
	if err != nil {
		return Config{}, errors.NewConfigError("couldn't read config file %s: %v", selector, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses JSON over the default preset: fields absent from the
// JSON keep their default values.
func ParseConfig(data []byte) (Config, error) {
	c := defaultConfig.Clone()
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, errors.NewConfigError("couldn't parse config: %v", err)
	}
	if c.Simulator.Kind == "" {
		log.Infof("using default Simulator config")
		c.Simulator = defaultConfig.Clone().Simulator
	}
	return c, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(Configs))
	for k := range Configs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
