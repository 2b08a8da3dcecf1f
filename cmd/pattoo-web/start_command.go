package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"pattooweb/internal/agent"
	"pattooweb/internal/config"
	"pattooweb/internal/orchestrator"
	"pattooweb/internal/preflight"
	"pattooweb/internal/web"
)

func newStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the API agent, then the proxy agent, and serve until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := preflight.RequireConfigDir(config.EnvConfigDir, os.LookupEnv); err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			// A relative static dir belongs to the install tree when one can be found.
			if cfg.Server.StaticDir != "" && !filepath.IsAbs(cfg.Server.StaticDir) {
				if layout, err := ctx.layout(); err == nil {
					resolved := *cfg
					resolved.Server.StaticDir = layout.Resolve(cfg.Server.StaticDir)
					cfg = &resolved
				}
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runtime := agent.NewRuntime(logger)
			orch := orchestrator.New(cfg, runtime, web.New(cfg, logger), logger)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Starting %s then %s (boot %s)\n", cfg.Agent.Name, cfg.ProxyName(), orch.BootID())
			if err := orch.Run(signalCtx); err != nil {
				return err
			}
			fmt.Fprintln(out, "pattoo-web stopped")
			return nil
		},
	}
}
