package logdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cenkalti/backoff"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/twitter/simsweep/common/stats"
)

// OutputCreator opens the sink an experiment's simulator output is captured in.
type OutputCreator interface {
	// Create an output at path, truncating anything already there.
	Create(path string) (Output, error)
}

// Output is a sink for one experiment's worth of output
type Output interface {
	// Write (and close) straight to the Output
	io.WriteCloser

	// A URI to this Output, prefixed with "file://".
	URI() string

	// Absolute path of the file backing this Output.
	AsFile() string
}

// WriterDelegater lets a subprocess backend hook an *os.File directly to a
// child's stdout/stderr instead of copying through a pipe.
type WriterDelegater interface {
	WriterDelegate() io.Writer
}

type fileOutputCreator struct {
	hostname   string
	stat       stats.StatsReceiver
	open       func(path string) (*os.File, error)
	newBackOff func() backoff.BackOff
}

// NewFileOutputCreator creates Outputs as files on the local filesystem.
// Running out of file descriptors while many workers open their logs is
// retried with exponential backoff.
func NewFileOutputCreator(stat stats.StatsReceiver) (OutputCreator, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}
	return &fileOutputCreator{
		hostname: hostname,
		stat:     stat,
		open:     os.Create,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
		},
	}, nil
}

func (s *fileOutputCreator) Create(path string) (Output, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var f *os.File
	try := 1
	backoff.Retry(func() error {
		f, err = s.open(absPath)
		if err != nil && (isErrno(err, unix.EMFILE) || isErrno(err, unix.ENFILE)) {
			log.WithFields(
				log.Fields{
					"path": absPath,
					"try":  try,
					"err":  err,
				}).Info("Out of file descriptors opening log, retrying")
			s.stat.Counter(stats.LogFileOpenRetryCounter).Inc(1)
			try++
			return err
		}
		return nil
	}, s.newBackOff())
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "opening log file %s", absPath)
	}
	s.stat.Counter(stats.LogFilesCreatedCounter).Inc(1)

	// We don't need a / between hostname and path because absolute paths start with /
	uri := fmt.Sprintf("file://%s%s", s.hostname, absPath)
	return &fileOutput{f: f, absPath: absPath, uri: uri}, nil
}

type fileOutput struct {
	f       *os.File
	absPath string
	uri     string
}

// URI returns a URI to this Output
func (o *fileOutput) URI() string {
	return o.uri
}

// AsFile returns an absolute path to a file with this content
func (o *fileOutput) AsFile() string {
	return o.absPath
}

// Write implements io.Writer
func (o *fileOutput) Write(p []byte) (n int, err error) {
	return o.f.Write(p)
}

// Close implements io.Closer
func (o *fileOutput) Close() error {
	return o.f.Close()
}

func (o *fileOutput) WriterDelegate() io.Writer {
	return o.f
}

var _ WriterDelegater = (*fileOutput)(nil)
