package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pattooweb/internal/agent"
)

func newStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop running pattoo-web agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			grace := cfg.ShutdownTimeout() * 2

			stopped := 0
			// Proxy first, mirroring the start order in reverse.
			for _, name := range []string{cfg.ProxyName(), cfg.Agent.Name} {
				result, err := agent.Stop(cfg.PIDPath(name), cfg.LockPath(name), grace)
				switch {
				case errors.Is(err, agent.ErrNotRunning):
					continue
				case err != nil:
					return fmt.Errorf("stop %s: %w", name, err)
				}
				stopped++
				if result.ForcedKill {
					fmt.Fprintf(out, "%s (pid %d) force killed after %s\n", name, result.PID, grace)
				} else {
					fmt.Fprintf(out, "%s (pid %d) stopped\n", name, result.PID)
				}
			}
			if stopped == 0 {
				fmt.Fprintln(out, "pattoo-web is not running")
			}
			return nil
		},
	}
}
