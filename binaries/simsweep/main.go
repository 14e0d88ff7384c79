package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/simsweep/cli"
	"github.com/twitter/simsweep/common/errors"
	"github.com/twitter/simsweep/common/log/hooks"
)

// Runs a sweep of cluster-scheduler simulations
//	Supported commands: (see "-h" for all options)
//		run [sweep flags]
//		print_config [sweep flags]
//	Global flags:
// 		--log_level [<error|info|debug|trace> level and above should be logged]
//	Exit codes:
//		0 success, 1 a simulation failed, 2 usage error,
//		66 throughputs file unreadable, 74 log or report files could not be written

func main() {
	log.AddHook(hooks.NewContextHook())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	err := cli.NewCLI(os.Stdout).Exec(nil)
	if err != nil {
		log.Error("Error running simsweep: ", err)
	}
	os.Exit(int(errors.ExitCodeFor(err)))
}
