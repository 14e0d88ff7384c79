package fake

import (
	"bytes"
	"context"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/simsweep/domain"
	"github.com/twitter/simsweep/simulator"
)

func params(jobs int) simulator.RunParams {
	return simulator.RunParams{
		Cluster:      domain.ClusterSpec{"v100": 2, "p100": 1, "k80": 1},
		NumTotalJobs: jobs,
	}
}

func TestScriptedMetrics(t *testing.T) {
	var out bytes.Buffer
	f, err := NewFactory(Config{Script: []string{"# comment", "stdout hello", "sleep 1", "metrics 12.5 0.75 3600"}})
	require.NoError(t, err)
	sim, err := f.New(simulator.Options{Output: &out})
	require.NoError(t, err)

	require.NoError(t, sim.Emulate(context.Background(), params(10)))
	assert.Equal(t, 12.5, sim.AverageJCT())
	assert.Equal(t, 0.75, sim.ClusterUtilization())
	assert.Equal(t, 3600.0, sim.CurrentTimestamp())
	assert.Equal(t, "hello\n", out.String())
}

func TestBadScript(t *testing.T) {
	for _, script := range [][]string{
		{"sleep forever"},
		{"metrics 1 2"},
		{"metrics a b c"},
		{"explode"},
	} {
		_, err := NewFactory(Config{Script: script})
		require.Error(t, err, "script %v", script)
		_, traced := err.(interface{ StackTrace() pkgerrors.StackTrace })
		assert.True(t, traced, "script %v: %v", script, err)
	}
}

func TestFailAndPanic(t *testing.T) {
	sim, err := NewSimulator(Config{Script: []string{"fail simulator exploded"}}, simulator.Options{})
	require.NoError(t, err)
	err = sim.Emulate(context.Background(), params(1))
	require.Error(t, err)
	assert.Equal(t, "simulator exploded", err.Error())

	sim, err = NewSimulator(Config{Script: []string{"panic oops"}}, simulator.Options{})
	require.NoError(t, err)
	assert.Panics(t, func() { sim.Emulate(context.Background(), params(1)) })
}

func TestSleepHonorsCancel(t *testing.T) {
	sim, err := NewSimulator(Config{Script: []string{"sleep 5000"}}, simulator.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = sim.Emulate(ctx, params(1))
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.True(t, time.Since(start) < 2*time.Second)
}

func TestSleepIgnoringCancel(t *testing.T) {
	sim, err := NewSimulator(Config{Script: []string{"sleep 100"}, IgnoreCancel: true}, simulator.Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.NoError(t, sim.Emulate(ctx, params(1)))
	assert.True(t, time.Since(start) >= 100*time.Millisecond)
}

func TestSleepPerJob(t *testing.T) {
	sim, err := NewSimulator(Config{Script: []string{"sleep_per_job 10"}}, simulator.Options{})
	require.NoError(t, err)
	start := time.Now()
	require.NoError(t, sim.Emulate(context.Background(), params(5)))
	assert.True(t, time.Since(start) >= 50*time.Millisecond)
}

func TestModel(t *testing.T) {
	var out bytes.Buffer
	opts := simulator.Options{Policy: simulator.Policy{Name: "fifo"}, Seed: 42, Output: &out}
	sim, err := NewSimulator(Config{}, opts)
	require.NoError(t, err)
	require.NoError(t, sim.Emulate(context.Background(), params(20)))

	assert.True(t, sim.AverageJCT() > 0)
	assert.True(t, sim.ClusterUtilization() > 0 && sim.ClusterUtilization() <= 1)
	assert.True(t, sim.CurrentTimestamp() >= sim.AverageJCT())
	assert.Contains(t, out.String(), "Emulated 20 jobs on v100:2|p100:1|k80:1 with policy fifo")

	// same seed, same trace
	again, err := NewSimulator(Config{}, opts)
	require.NoError(t, err)
	require.NoError(t, again.Emulate(context.Background(), params(20)))
	assert.Equal(t, sim.AverageJCT(), again.AverageJCT())
	assert.Equal(t, sim.CurrentTimestamp(), again.CurrentTimestamp())
}

func TestModelFixedDurationOnSingleGPU(t *testing.T) {
	d := 100
	sim, err := NewSimulator(Config{Script: []string{"model"}}, simulator.Options{Policy: simulator.Policy{Name: "fifo"}})
	require.NoError(t, err)
	p := simulator.RunParams{Cluster: domain.ClusterSpec{"v100": 1}, FixedJobDuration: &d, NumTotalJobs: 3}
	require.NoError(t, sim.Emulate(context.Background(), p))

	// jobs finish at 100, 200, 300
	assert.Equal(t, 200.0, sim.AverageJCT())
	assert.Equal(t, 300.0, sim.CurrentTimestamp())
	assert.Equal(t, 1.0, sim.ClusterUtilization())
}

func TestModelRejectsEmptyCluster(t *testing.T) {
	sim, err := NewSimulator(Config{}, simulator.Options{})
	require.NoError(t, err)
	assert.Error(t, sim.Emulate(context.Background(), simulator.RunParams{Cluster: domain.ClusterSpec{}, NumTotalJobs: 1}))
}
