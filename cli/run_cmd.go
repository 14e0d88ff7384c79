package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/simsweep/sweep"
)

type runCmd struct {
	flags sweepFlags
}

func (r *runCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every experiment of a sweep",
		Args:  cobra.NoArgs,
	}
	r.flags.register(cmd.Flags())
	return cmd
}

func (r *runCmd) run(c *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := r.flags.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	log.Debugf("Sweep config:\n%s", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case s := <-sigs:
			log.Infof("Received %v, cancelling sweep", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	_, err = (&sweep.Runner{Config: cfg, Out: c.out}).Run(ctx)
	return err
}
