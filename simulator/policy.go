package simulator

import (
	"encoding/json"
	"io/ioutil"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/twitter/simsweep/common/errors"
)

// Policy names a scheduling policy. Names are opaque here; the simulator
// decides what they mean.
type Policy struct {
	Name string
	Seed int64
}

func GetPolicy(name string, seed int64) (Policy, error) {
	if strings.TrimSpace(name) == "" {
		return Policy{}, errors.NewConfigError("Invalid policy name %q", name)
	}
	return Policy{Name: name, Seed: seed}, nil
}

// Throughputs is the oracle throughput table: worker type -> job type -> measurements.
// Only its shape is checked, the simulator loads the file itself.
type Throughputs map[string]map[string]interface{}

// LoadThroughputs reads and parses the throughput table at path.
func LoadThroughputs(path string) (Throughputs, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.NewError(
			pkgerrors.Wrapf(err, "reading throughputs file %s", path), errors.ThroughputsLoadFailureExitCode)
	}
	var t Throughputs
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.NewError(
			pkgerrors.Wrapf(err, "parsing throughputs file %s", path), errors.ThroughputsLoadFailureExitCode)
	}
	return t, nil
}
