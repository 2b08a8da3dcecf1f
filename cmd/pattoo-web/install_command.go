package main

import (
	"github.com/spf13/cobra"

	"pattooweb/internal/config"
	"pattooweb/internal/deps"
	"pattooweb/internal/execx"
	"pattooweb/internal/history"
	"pattooweb/internal/install"
	"pattooweb/internal/logging"
	"pattooweb/internal/preflight"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "install",
		Short:       "Verify dependencies and configuration, then print next steps",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := ctx.layout()
			if err != nil {
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

			out := cmd.OutOrStdout()
			runner := execx.ExecRunner{Out: out, Logger: logger, Dir: layout.Root}
			pipeline := &install.Pipeline{
				Dependencies: deps.NewChecker(cfg, runner, out, logger),
				Validator: &preflight.ConfigValidator{
					Runner:       runner,
					EnvVar:       config.EnvConfigDir,
					CheckCommand: layout.CheckCommand(cfg),
					Out:          out,
					Logger:       logger,
				},
				RequirementsPath: layout.RequirementsPath(cfg),
				Out:              out,
				Logger:           logger,
			}

			if cfg.History.Enabled {
				store, err := history.Open(cfg)
				if err != nil {
					logger.Warn("install history unavailable", logging.Error(err))
				} else {
					defer store.Close()
					pipeline.Recorder = store
				}
			}

			_, err = pipeline.Run(cmd.Context())
			return err
		},
	}
}
