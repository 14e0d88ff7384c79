// Package fake provides an in-process Simulator driven by a script of steps,
// for tests and smoke sweeps that should not depend on a real simulator.
package fake

import (
	"context"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/twitter/simsweep/simulator"
)

// Config scripts every Simulator a Factory builds.
//
// Each entry of Script is simulated in order. Valid entries are:
// sleep <millis int>
//   sleep for millis milliseconds
// sleep_per_job <millis int>
//   sleep for millis milliseconds per job in the trace
// stdout <message>
//   write <message> to the simulator's output
// fail <message>
//   stop and return an error with <message>
// panic <message>
//   panic with <message>
// metrics <average_jct float> <utilization float> <makespan float>
//   report these metrics
// model
//   emulate the trace with a small list-scheduling model and report its metrics
// Entries starting with '#' are ignored. An empty Script is the same as "model".
type Config struct {
	Script []string
	// Keep sleeping through a cancelled context, like a simulator that
	// cannot be interrupted.
	IgnoreCancel bool
}

func NewFactory(c Config) (simulator.Factory, error) {
	if _, err := parse(c.Script); err != nil {
		return nil, err
	}
	return simulator.FactoryFunc(func(opts simulator.Options) (simulator.Simulator, error) {
		return NewSimulator(c, opts)
	}), nil
}

func NewSimulator(c Config, opts simulator.Options) (*Simulator, error) {
	steps, err := parse(c.Script)
	if err != nil {
		return nil, err
	}
	if opts.Output == nil {
		opts.Output = ioutil.Discard
	}
	return &Simulator{opts: opts, steps: steps, ignoreCancel: c.IgnoreCancel}, nil
}

type Simulator struct {
	opts         simulator.Options
	steps        []step
	ignoreCancel bool

	mu       sync.Mutex
	jct      float64
	util     float64
	makespan float64
}

func (s *Simulator) Emulate(ctx context.Context, p simulator.RunParams) error {
	for _, st := range s.steps {
		if err := st.run(ctx, s, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) AverageJCT() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jct
}

func (s *Simulator) ClusterUtilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.util
}

func (s *Simulator) CurrentTimestamp() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.makespan
}

func (s *Simulator) setMetrics(jct, util, makespan float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jct, s.util, s.makespan = jct, util, makespan
}

func (s *Simulator) sleep(ctx context.Context, d time.Duration) error {
	if s.ignoreCancel {
		time.Sleep(d)
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func parse(script []string) ([]step, error) {
	if len(script) == 0 {
		return []step{&modelStep{}}, nil
	}
	steps := make([]step, 0, len(script))
	for _, entry := range script {
		s, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseEntry(entry string) (step, error) {
	if strings.HasPrefix(entry, "#") {
		return &noopStep{}, nil
	}
	splits := strings.SplitN(entry, " ", 2)
	opcode, rest := splits[0], ""
	if len(splits) == 2 {
		rest = splits[1]
	}
	switch opcode {
	case "sleep", "sleep_per_job":
		i, err := strconv.Atoi(rest)
		if err != nil {
			return nil, pkgerrors.Errorf("error parsing <n> in %s <n>:%s", opcode, err.Error())
		}
		return &sleepStep{time.Duration(i) * time.Millisecond, opcode == "sleep_per_job"}, nil
	case "stdout":
		return &stdoutStep{rest}, nil
	case "fail":
		return &failStep{rest}, nil
	case "panic":
		return &panicStep{rest}, nil
	case "metrics":
		fields := strings.Fields(rest)
		if len(fields) != 3 {
			return nil, pkgerrors.Errorf("metrics expects <average_jct> <utilization> <makespan>, got: %q", rest)
		}
		var vals [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, pkgerrors.Errorf("error parsing metrics value %q: %s", f, err.Error())
			}
			vals[i] = v
		}
		return &metricsStep{vals[0], vals[1], vals[2]}, nil
	case "model":
		return &modelStep{}, nil
	}
	return nil, pkgerrors.Errorf("can't simulate step: %v", entry)
}

type step interface {
	run(ctx context.Context, s *Simulator, p simulator.RunParams) error
}

type sleepStep struct {
	duration time.Duration
	perJob   bool
}

func (st *sleepStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	d := st.duration
	if st.perJob {
		d *= time.Duration(p.NumTotalJobs)
	}
	return s.sleep(ctx, d)
}

type stdoutStep struct {
	output string
}

func (st *stdoutStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	_, err := fmt.Fprintln(s.opts.Output, st.output)
	return err
}

type failStep struct {
	msg string
}

func (st *failStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	return pkgerrors.New(st.msg)
}

type panicStep struct {
	msg string
}

func (st *panicStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	panic(st.msg)
}

type metricsStep struct {
	jct, util, makespan float64
}

func (st *metricsStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	s.setMetrics(st.jct, st.util, st.makespan)
	return nil
}

type noopStep struct{}

func (st *noopStep) run(ctx context.Context, s *Simulator, p simulator.RunParams) error {
	return nil
}
