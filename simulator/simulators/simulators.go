// Package simulators picks the Simulator backend a sweep runs against.
package simulators

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/common/stats"
	"github.com/twitter/simsweep/simulator"
	"github.com/twitter/simsweep/simulator/execsim"
	"github.com/twitter/simsweep/simulator/fake"
)

const (
	ExecKind = "exec"
	FakeKind = "fake"
)

type Config struct {
	// "exec" or "fake"
	Kind string `json:"kind"`

	// exec: argv prefix of the simulator command.
	Command []string `json:"command,omitempty"`
	// exec: seconds between SIGTERM and SIGKILL when a run is abandoned.
	GracePeriodSec int `json:"grace_period_sec,omitempty"`

	// fake: steps every simulated run executes, see fake.Config.
	Script []string `json:"script,omitempty"`
}

func NewFactory(c Config, stat stats.StatsReceiver) (simulator.Factory, error) {
	log.WithFields(
		log.Fields{
			"kind":    c.Kind,
			"command": c.Command,
			"script":  c.Script,
		}).Info("Creating simulator factory")

	switch c.Kind {
	case ExecKind:
		if len(c.Command) == 0 {
			return nil, errors.NewConfigError("Simulator kind %q requires a command", c.Kind)
		}
		return execsim.NewFactory(execsim.Config{
			Command:     c.Command,
			GracePeriod: time.Duration(c.GracePeriodSec) * time.Second,
			Stat:        stat.Scope("simulator"),
		})
	case FakeKind:
		f, err := fake.NewFactory(fake.Config{Script: c.Script})
		if err != nil {
			return nil, errors.NewConfigError("Invalid fake simulator script: %v", err)
		}
		return f, nil
	}
	return nil, errors.NewConfigError("Unknown simulator kind %q, expected %q or %q", c.Kind, ExecKind, FakeKind)
}
