package cli

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/config/sweepconfig"
	"github.com/twitter/simsweep/report"
)

func TestResolveDefaults(t *testing.T) {
	r := &runCmd{}
	cmd := r.registerFlags()
	require.NoError(t, cmd.ParseFlags(nil))

	c, err := r.flags.resolve(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, sweepconfig.Configs[sweepconfig.DefaultConfigName], c)
}

func TestResolveOverrides(t *testing.T) {
	r := &runCmd{}
	cmd := r.registerFlags()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", "smoke",
		"-g", "10",
		"-p", "fifo",
		"-r", "1:0:0,2:1:0",
		"--seeds", "3,4",
		"-a", "20", "-b", "100", "-n", "8",
		"-f", "3600",
		"-v=false",
		"--simulator_cmd", "python3 simulate.py",
	}))

	c, err := r.flags.resolve(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, 10, c.GPUs)
	assert.Equal(t, []string{"fifo"}, c.Policies)
	assert.Equal(t, []string{"1:0:0", "2:1:0"}, c.Ratios)
	assert.Equal(t, []int64{3, 4}, c.Seeds)
	assert.Equal(t, 20, *c.NumTotalJobsLowerBound)
	assert.Equal(t, 100, *c.NumTotalJobsUpperBound)
	assert.Equal(t, 8, c.NumDataPoints)
	assert.Equal(t, 3600, *c.FixedJobDuration)
	assert.False(t, c.Verbose)
	assert.Equal(t, []string{"python3", "simulate.py"}, c.Simulator.Command)

	// untouched settings keep the smoke preset's values
	smoke := sweepconfig.Configs["smoke"]
	assert.Equal(t, smoke.TimeoutSec, c.TimeoutSec)
	assert.Equal(t, smoke.Interval, c.Interval)
	assert.Equal(t, smoke.Simulator.Kind, c.Simulator.Kind)
}

func TestResolveUnknownConfig(t *testing.T) {
	r := &runCmd{}
	cmd := r.registerFlags()
	require.NoError(t, cmd.ParseFlags([]string{"--config", "nope"}))
	_, err := r.flags.resolve(cmd.Flags())
	assert.True(t, errors.IsConfigError(err))
}

func TestPrintConfig(t *testing.T) {
	var out bytes.Buffer
	err := NewCLI(&out).Exec([]string{"print_config", "--config", "smoke", "-g", "4"})
	require.NoError(t, err)

	var c sweepconfig.Config
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Equal(t, 4, c.GPUs)
	assert.Equal(t, sweepconfig.Configs["smoke"].Policies, c.Policies)
}

func TestRunSmokePreset(t *testing.T) {
	td, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	var out bytes.Buffer
	err = NewCLI(&out).Exec([]string{
		"run", "--config", "smoke", "-l", td, "-p", "fifo", "-r", "1:1:0", "--seeds", "0",
		"--log_level", "error",
	})
	require.NoError(t, err)

	data, err := ioutil.ReadFile(filepath.Join(td, report.ResultsFileName))
	require.NoError(t, err)
	// header plus one row per job count
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)
	assert.Contains(t, out.String(), "mean_jct")
}

func TestRunDryRun(t *testing.T) {
	td, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	var out bytes.Buffer
	err = NewCLI(&out).Exec([]string{"run", "--config", "smoke", "-l", td, "--dry_run"})
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 32)
	assert.Contains(t, out.String(), "[Experiment ID:  0]")
}

func TestUsageErrors(t *testing.T) {
	td, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	for _, args := range [][]string{
		// partial range
		{"run", "-l", td, "--simulator", "fake", "-a", "10"},
		// no range at all
		{"run", "-l", td, "--simulator", "fake"},
		{"run", "--config", "smoke", "-l", td, "-r", "1:1"},
		{"run", "--no-such-flag"},
		{"run", "--log_level", "loud"},
	} {
		err := NewCLI(ioutil.Discard).Exec(args)
		assert.Equal(t, errors.UsageExitCode, errors.ExitCodeFor(err), "%v: %v", args, err)
	}
}

func TestTaskFailureExitCode(t *testing.T) {
	td, err := ioutil.TempDir("", "cli")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	cfg := sweepconfig.Configs["smoke"].Clone()
	cfg.LogDir = td
	cfg.Simulator.Script = []string{"fail simulator crashed"}
	path := filepath.Join(td, "failing.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(cfg.String()), 0644))

	err = NewCLI(ioutil.Discard).Exec([]string{"run", "--config", path, "--log_level", "error"})
	require.Error(t, err)
	assert.Equal(t, errors.TaskFailureExitCode, errors.ExitCodeFor(err))
}
