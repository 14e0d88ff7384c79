// Package logdir derives where each experiment's log lives and creates that
// directory tree.
//
// Logs are laid out as
//   <log-dir>/raw_logs/v100=N.p100=N.k80=N/<policy>/seed=N/num_total_jobs=N.log
package logdir

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/domain"
)

const RawLogsDirName = "raw_logs"

type Layout struct {
	Root string
}

// NewLayout roots the layout at <logDir>/raw_logs.
func NewLayout(logDir string) Layout {
	return Layout{Root: filepath.Join(logDir, RawLogsDirName)}
}

// Dir is the directory holding every log for one (cluster, policy, seed).
func (l Layout) Dir(spec domain.ClusterSpec, policy string, seed int64) string {
	return filepath.Join(l.Root, spec.DirName(), policy, fmt.Sprintf("seed=%d", seed))
}

func LogFileName(numTotalJobs int) string {
	return fmt.Sprintf("num_total_jobs=%d.log", numTotalJobs)
}

func (l Layout) LogFile(spec domain.ClusterSpec, policy string, seed int64, numTotalJobs int) string {
	return filepath.Join(l.Dir(spec, policy, seed), LogFileName(numTotalJobs))
}

// EnsureAll creates the parent directory of every configuration's log file.
func (l Layout) EnsureAll(cfgs []domain.ExperimentConfig) error {
	seen := map[string]bool{}
	for _, cfg := range cfgs {
		dir := filepath.Dir(cfg.LogFile)
		if seen[dir] {
			continue
		}
		if err := Ensure(dir); err != nil {
			return err
		}
		seen[dir] = true
	}
	return nil
}

// Ensure creates dir and any missing parents. Directories that already exist
// are left alone, including ones created concurrently by another caller. An
// existing file anywhere along the path is an error; it is never replaced.
func Ensure(dir string) error {
	dir = filepath.Clean(dir)

	var missing []string
	for p := dir; ; {
		info, err := os.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return notADirectory(p)
			}
			break
		}
		if !os.IsNotExist(err) && !isErrno(err, unix.ENOTDIR) {
			return errors.NewError(pkgerrors.Wrapf(err, "checking log directory %s", p), errors.OutputFailureExitCode)
		}
		missing = append(missing, p)
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}

	for i := len(missing) - 1; i >= 0; i-- {
		p := missing[i]
		err := os.Mkdir(p, 0755)
		if err == nil {
			continue
		}
		if !os.IsExist(err) {
			if isErrno(err, unix.ENOTDIR) {
				return notADirectory(filepath.Dir(p))
			}
			return errors.NewError(pkgerrors.Wrapf(err, "creating log directory %s", p), errors.OutputFailureExitCode)
		}
		// lost a race, or something other than a directory appeared
		if info, serr := os.Stat(p); serr != nil || !info.IsDir() {
			return notADirectory(p)
		}
	}
	return nil
}

func notADirectory(p string) error {
	return errors.NewError(pkgerrors.Errorf("log layout conflict: %s exists and is not a directory", p), errors.OutputFailureExitCode)
}

func isErrno(err error, errno syscall.Errno) bool {
	switch e := err.(type) {
	case *os.PathError:
		return e.Err == errno
	case *os.SyscallError:
		return e.Err == errno
	}
	return err == errno
}
