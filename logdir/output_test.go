package logdir

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/twitter/simsweep/common/stats"
)

func TestFileOutputCreator(t *testing.T) {
	td, err := ioutil.TempDir("", "output")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	stat := stats.DefaultStatsReceiver()
	oc, err := NewFileOutputCreator(stat)
	require.NoError(t, err)

	path := filepath.Join(td, LogFileName(10))
	require.NoError(t, ioutil.WriteFile(path, []byte("stale output from a previous sweep"), 0644))

	o, err := oc.Create(path)
	require.NoError(t, err)
	_, err = o.Write([]byte("fresh"))
	require.NoError(t, err)
	require.NoError(t, o.Close())

	contents, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(contents))

	assert.True(t, filepath.IsAbs(o.AsFile()))
	assert.True(t, strings.HasPrefix(o.URI(), "file://"))
	assert.True(t, strings.HasSuffix(o.URI(), o.AsFile()))
	assert.Equal(t, int64(1), stat.Counter(stats.LogFilesCreatedCounter).Count())

	_, ok := o.(WriterDelegater)
	assert.True(t, ok)
}

func TestFileOutputCreatorRetriesDescriptorExhaustion(t *testing.T) {
	td, err := ioutil.TempDir("", "output")
	require.NoError(t, err)
	defer os.RemoveAll(td)

	stat := stats.DefaultStatsReceiver()
	failures := 2
	oc := &fileOutputCreator{
		hostname: "localhost",
		stat:     stat,
		open: func(path string) (*os.File, error) {
			if failures > 0 {
				failures--
				return nil, &os.PathError{Op: "open", Path: path, Err: unix.EMFILE}
			}
			return os.Create(path)
		},
		newBackOff: func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5) },
	}

	o, err := oc.Create(filepath.Join(td, "out.log"))
	require.NoError(t, err)
	defer o.Close()
	assert.Equal(t, int64(2), stat.Counter(stats.LogFileOpenRetryCounter).Count())
}

func TestFileOutputCreatorDoesNotRetryOtherErrors(t *testing.T) {
	stat := stats.DefaultStatsReceiver()
	calls := 0
	oc := &fileOutputCreator{
		hostname: "localhost",
		stat:     stat,
		open: func(path string) (*os.File, error) {
			calls++
			return nil, &os.PathError{Op: "open", Path: path, Err: unix.EACCES}
		},
		newBackOff: func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 5) },
	}

	_, err := oc.Create("/nonexistent/out.log")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
