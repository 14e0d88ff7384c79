package sweepconfig

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/simulator/simulators"
)

// Tests to ensure every preset is properly specified
func TestGettingConfigurations(t *testing.T) {
	for _, configSelector := range PresetNames() {
		c, err := GetConfig(configSelector)
		assert.Nil(t, err, fmt.Sprintf("error getting sweep config %s: %s", configSelector, err))
		assert.Nil(t, c.Validate(), "preset %s does not validate", configSelector)
	}
}

func TestDefaultPreset(t *testing.T) {
	c, err := GetConfig("default")
	require.NoError(t, err)
	assert.Equal(t, 25, c.GPUs)
	assert.Equal(t, "logs", c.LogDir)
	assert.Equal(t, 6, len(c.Policies))
	assert.Equal(t, []string{"1:0:0", "1:1:0", "1:1:1", "2:1:0"}, c.Ratios)
	assert.Equal(t, []int64{0, 1, 42, 1234, 10}, c.Seeds)
	assert.Equal(t, 1920, c.Interval)
	assert.Equal(t, 20, c.NumDataPoints)
	assert.Equal(t, "oracle_throughputs.json", c.ThroughputsFile)
	assert.True(t, c.Verbose)
	assert.False(t, c.GenerateMultiGPUJobs)
	assert.Nil(t, c.NumTotalJobsLowerBound)
	assert.Nil(t, c.FixedJobDuration)
	assert.Equal(t, time.Duration(0), c.Timeout())
}

func TestPresetsAreNotShared(t *testing.T) {
	c, err := GetConfig("smoke")
	require.NoError(t, err)
	c.Policies[0] = "changed"
	*c.NumTotalJobsLowerBound = 1

	again, err := GetConfig("smoke")
	require.NoError(t, err)
	assert.Equal(t, "fifo", again.Policies[0])
	assert.Equal(t, 10, *again.NumTotalJobsLowerBound)
}

func TestJSONFileOverlaysDefault(t *testing.T) {
	td, err := ioutil.TempDir("", "sweepconfig")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	path := filepath.Join(td, "sweep.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{
		"gpus": 10,
		"policies": ["fifo"],
		"seeds": [0, 1],
		"timeout_sec": 30,
		"num_total_jobs_lower_bound": 10,
		"num_total_jobs_upper_bound": 50,
		"num_data_points": 4
	}`), 0644))

	c, err := GetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.GPUs)
	assert.Equal(t, []string{"fifo"}, c.Policies)
	assert.Equal(t, []int64{0, 1}, c.Seeds)
	assert.Equal(t, 30*time.Second, c.Timeout())
	assert.Equal(t, 10, *c.NumTotalJobsLowerBound)
	assert.Equal(t, 50, *c.NumTotalJobsUpperBound)
	// untouched fields keep their defaults
	assert.Equal(t, []string{"1:0:0", "1:1:0", "1:1:1", "2:1:0"}, c.Ratios)
	assert.Equal(t, simulators.ExecKind, c.Simulator.Kind)

	// the default preset is unaffected
	assert.Equal(t, 25, Configs["default"].GPUs)
	assert.Equal(t, 6, len(Configs["default"].Policies))
}

func TestConfigString(t *testing.T) {
	c := Configs["smoke"].Clone()
	assert.Contains(t, c.String(), `"gpus": 8`)

	plain := fmt.Sprintf("%+v", plainConfig(c))
	assert.Contains(t, plain, "GPUs:8")
	assert.NotContains(t, plain, `"gpus"`)
}

func TestGetConfigErrors(t *testing.T) {
	_, err := GetConfig("nightly")
	assert.True(t, errors.IsConfigError(err))

	_, err = GetConfig("/nonexistent/sweep.json")
	assert.True(t, errors.IsConfigError(err))

	_, err = ParseConfig([]byte(`{"gpus": "many"}`))
	assert.True(t, errors.IsConfigError(err))
}

func TestValidate(t *testing.T) {
	lower := 10
	zero := 0
	cases := map[string]func(c *Config){
		"negative gpus":       func(c *Config) { c.GPUs = -1 },
		"negative timeout":    func(c *Config) { c.TimeoutSec = -5 },
		"negative processes":  func(c *Config) { c.Processes = -1 },
		"zero interval":       func(c *Config) { c.Interval = 0 },
		"zero fixed duration": func(c *Config) { c.FixedJobDuration = &zero },
		"empty policy":        func(c *Config) { c.Policies = []string{"fifo", ""} },
		"no log dir":          func(c *Config) { c.LogDir = "" },
		"no throughputs":      func(c *Config) { c.ThroughputsFile = "" },
		"partial range":       func(c *Config) { c.NumTotalJobsLowerBound = &lower },
	}
	for name, mutate := range cases {
		c, err := GetConfig("default")
		require.NoError(t, err)
		mutate(&c)
		assert.True(t, errors.IsConfigError(c.Validate()), name)
	}
}
