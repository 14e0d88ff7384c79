package logdir

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/domain"
)

func TestLayoutPaths(t *testing.T) {
	l := NewLayout("logs")
	spec := domain.ClusterSpec{"v100": 25, "p100": 0, "k80": 0}

	assert.Equal(t, filepath.Join("logs", "raw_logs"), l.Root)
	assert.Equal(t, filepath.Join("logs", "raw_logs", "v100=25.p100=0.k80=0", "fifo", "seed=42"), l.Dir(spec, "fifo", 42))
	assert.Equal(t, "num_total_jobs=100.log", LogFileName(100))
	assert.Equal(t,
		filepath.Join("logs", "raw_logs", "v100=25.p100=0.k80=0", "fifo", "seed=42", "num_total_jobs=100.log"),
		l.LogFile(spec, "fifo", 42, 100))
}

func TestEnsureIsIdempotent(t *testing.T) {
	td, err := ioutil.TempDir("", "logdir")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	l := NewLayout(td)
	dir := l.Dir(domain.ClusterSpec{"v100": 1, "p100": 1, "k80": 0}, "fifo_perf", 0)
	require.NoError(t, Ensure(dir))
	require.NoError(t, Ensure(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureRejectsFileInPath(t *testing.T) {
	td, err := ioutil.TempDir("", "logdir")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	l := NewLayout(td)
	require.NoError(t, ioutil.WriteFile(l.Root, []byte("not a dir"), 0644))

	err = Ensure(l.Dir(domain.ClusterSpec{"v100": 1}, "fifo", 1))
	require.Error(t, err)
	assert.Equal(t, errors.OutputFailureExitCode, errors.ExitCodeFor(err))
	assert.Contains(t, err.Error(), "is not a directory")

	// the file is left untouched
	contents, err := ioutil.ReadFile(l.Root)
	require.NoError(t, err)
	assert.Equal(t, "not a dir", string(contents))
}

func TestEnsureRejectsFileAtLeaf(t *testing.T) {
	td, err := ioutil.TempDir("", "logdir")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	leaf := filepath.Join(td, "seed=1")
	require.NoError(t, ioutil.WriteFile(leaf, nil, 0644))
	assert.Error(t, Ensure(leaf))
}

func TestEnsureConcurrent(t *testing.T) {
	td, err := ioutil.TempDir("", "logdir")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	l := NewLayout(td)
	spec := domain.ClusterSpec{"v100": 8, "p100": 8, "k80": 8}
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			errs <- Ensure(l.Dir(spec, "max_min_fairness", seed%4))
		}(int64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEnsureAll(t *testing.T) {
	td, err := ioutil.TempDir("", "logdir")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	l := NewLayout(td)
	spec := domain.ClusterSpec{"v100": 10}
	cfgs := []domain.ExperimentConfig{
		{LogFile: l.LogFile(spec, "fifo", 0, 10)},
		{LogFile: l.LogFile(spec, "fifo", 0, 20)},
		{LogFile: l.LogFile(spec, "fifo", 1, 10)},
	}
	require.NoError(t, l.EnsureAll(cfgs))
	for _, cfg := range cfgs {
		_, err := os.Stat(filepath.Dir(cfg.LogFile))
		assert.NoError(t, err)
	}
}
