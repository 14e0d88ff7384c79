package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type printConfigCmd struct {
	flags sweepFlags
}

func (p *printConfigCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print_config",
		Short: "Print the sweep config after applying flags, without running anything",
		Args:  cobra.NoArgs,
	}
	p.flags.register(cmd.Flags())
	return cmd
}

func (p *printConfigCmd) run(c *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := p.flags.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, cfg)
	return nil
}
