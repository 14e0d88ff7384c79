// Package cli is the simsweep command line.
package cli

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/simsweep/common/errors"
)

type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer

	logLevel string
}

// NewCLI builds the command tree. Listings and reports are written to out.
func NewCLI(out io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	c := &CLI{out: out}

	c.rootCmd = &cobra.Command{
		Use:               "simsweep",
		Short:             "simsweep runs a sweep of cluster-scheduler simulations in parallel",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setLogLevel,
	}
	c.rootCmd.SetOutput(out)
	c.rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.NewError(err, errors.UsageExitCode)
	})
	c.rootCmd.PersistentFlags().StringVar(&c.logLevel, "log_level", "info", "Log everything at this level and above (error|info|debug|trace)")

	c.addCmd(&runCmd{})
	c.addCmd(&printConfigCmd{})

	return c
}

// Exec runs the command named by args, or by os.Args if args is nil.
func (c *CLI) Exec(args []string) error {
	if args != nil {
		c.rootCmd.SetArgs(args)
	}
	return c.rootCmd.Execute()
}

func (c *CLI) setLogLevel(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return errors.NewError(err, errors.UsageExitCode)
	}
	log.SetLevel(level)
	return nil
}

func (c *CLI) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(c *CLI, cmd *cobra.Command, args []string) error
}
