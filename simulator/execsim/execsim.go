// Package execsim runs each simulation as its own OS process.
//
// The simulator command is invoked with the experiment's parameters as flags
// and writes its metrics as JSON to the file named by --metrics_file before
// exiting 0. Every simulation runs in its own process group so an abandoned
// run is killed along with anything it spawned.
package execsim

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/logdir"
	"github.com/twitter/simsweep/simulator"
)

const DefaultGracePeriod = 10 * time.Second

// Metrics is the contents of the metrics file a simulator writes on success.
type Metrics struct {
	AverageJCT  float64 `json:"average_jct"`
	Utilization float64 `json:"utilization"`
	Makespan    float64 `json:"makespan"`
}

func WriteMetrics(path string, m Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

func ReadMetrics(path string) (Metrics, error) {
	var m Metrics
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

type Config struct {
	// argv prefix, e.g. ["python3", "simulate.py"] or ["fakesim"]
	Command []string
	// Time between SIGTERM and SIGKILL when a run is abandoned.
	GracePeriod time.Duration
	Stat        stats.StatsReceiver
}

func NewFactory(c Config) (simulator.Factory, error) {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return nil, pkgerrors.New("no simulator command specified")
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = DefaultGracePeriod
	}
	if c.Stat == nil {
		c.Stat = stats.NilStatsReceiver()
	}
	return simulator.FactoryFunc(func(opts simulator.Options) (simulator.Simulator, error) {
		if opts.Output == nil {
			opts.Output = ioutil.Discard
		}
		c.Stat.Counter(stats.SimulatorCreatedCounter).Inc(1)
		return &Simulator{cfg: c, opts: opts}, nil
	}), nil
}

// Simulator is a handle on one simulator process.
type Simulator struct {
	cfg  Config
	opts simulator.Options

	mu      sync.Mutex
	metrics Metrics
}

// Args builds the simulator's argv for one run.
func (s *Simulator) Args(p simulator.RunParams, metricsFile string) []string {
	argv := append([]string{}, s.cfg.Command...)
	argv = append(argv,
		"--policy", s.opts.Policy.Name,
		"--seed", strconv.FormatInt(s.opts.Seed, 10),
		"--throughputs_file", s.opts.ThroughputsFile,
		"--time_per_iteration", strconv.Itoa(s.opts.TimePerIteration),
		"--schedule_in_rounds="+strconv.FormatBool(s.opts.ScheduleInRounds),
		"--emulate="+strconv.FormatBool(s.opts.Emulate),
		"--cluster_spec", p.Cluster.String(),
		"--lam", strconv.FormatFloat(p.Lambda, 'f', -1, 64),
	)
	if p.FixedJobDuration != nil {
		argv = append(argv, "--fixed_job_duration", strconv.Itoa(*p.FixedJobDuration))
	}
	if p.GenerateMultiGPUJobs {
		argv = append(argv, "--generate_multi_gpu_jobs")
	}
	return append(argv,
		"--num_total_jobs", strconv.Itoa(p.NumTotalJobs),
		"--metrics_file", metricsFile,
	)
}

func (s *Simulator) Emulate(ctx context.Context, p simulator.RunParams) error {
	f, err := ioutil.TempFile("", "simsweep-metrics-")
	if err != nil {
		return pkgerrors.Wrap(err, "creating metrics file")
	}
	metricsFile := f.Name()
	f.Close()
	defer os.Remove(metricsFile)

	argv := s.Args(p, metricsFile)
	cmd := exec.Command(argv[0], argv[1:]...)
	// Sets pgid of all child processes to cmd's pid
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// Hand os/exec the file itself when there is one, so it can connect the
	// child directly instead of copying through a pipe.
	var out io.Writer = s.opts.Output
	if d, ok := out.(logdir.WriterDelegater); ok {
		out = d.WriterDelegate()
	}
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		return pkgerrors.Wrapf(err, "starting simulator %v", argv[0])
	}
	pid := cmd.Process.Pid
	log.WithFields(
		log.Fields{
			"pid":            pid,
			"policy":         s.opts.Policy.Name,
			"cluster_spec":   p.Cluster.String(),
			"num_total_jobs": p.NumTotalJobs,
		}).Debug("Started simulator")

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- cmd.Wait()
	}()

	select {
	case err := <-doneCh:
		if err != nil {
			return pkgerrors.Wrapf(err, "simulator %v failed", argv[0])
		}
	case <-ctx.Done():
		s.abort(pid, doneCh)
		return ctx.Err()
	}

	return s.readMetrics(metricsFile)
}

// abort SIGTERMs the simulator's process group, then SIGKILLs it if it has
// not exited after the grace period.
func (s *Simulator) abort(pid int, doneCh chan error) {
	s.cfg.Stat.Counter(stats.SimulatorKilledCounter).Inc(1)
	if err := unix.Kill(-pid, unix.SIGTERM); err != nil {
		log.WithFields(
			log.Fields{
				"pgid":  pid,
				"error": err,
			}).Error("Error aborting simulator via SIGTERM")
	} else {
		log.WithFields(
			log.Fields{
				"pgid": pid,
			}).Info("Aborting simulator via SIGTERM")
	}

	timer := time.NewTimer(s.cfg.GracePeriod)
	defer timer.Stop()
	select {
	case <-doneCh:
		return
	case <-timer.C:
	}

	log.WithFields(
		log.Fields{
			"pgid":        pid,
			"gracePeriod": s.cfg.GracePeriod,
		}).Info("Simulator ignored SIGTERM, cleaning up pgid via SIGKILL")
	if err := unix.Kill(-pid, unix.SIGKILL); err != nil {
		log.WithFields(
			log.Fields{
				"pgid":  pid,
				"error": err,
			}).Error("Error cleaning up pgid")
	}
	<-doneCh
}

func (s *Simulator) readMetrics(path string) error {
	var m Metrics
	var err error
	try := 1
	backoff.Retry(func() error {
		m, err = ReadMetrics(path)
		if err != nil {
			log.WithFields(
				log.Fields{
					"path": path,
					"try":  try,
					"err":  err,
				}).Debug("Reading simulator metrics")
			s.cfg.Stat.Counter(stats.SimulatorMetricsRetryCounter).Inc(1)
			try++
		}
		return err
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), 3))
	if err != nil {
		return pkgerrors.Wrapf(err, "simulator exited without writing metrics to %s", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
	return nil
}

func (s *Simulator) AverageJCT() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.AverageJCT
}

func (s *Simulator) ClusterUtilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Utilization
}

func (s *Simulator) CurrentTimestamp() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Makespan
}
