package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"pattooweb/internal/config"
	"pattooweb/internal/install"
	"pattooweb/internal/logging"
)

type commandContext struct {
	verbose *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(verbose *bool) *commandContext {
	return &commandContext{verbose: verbose}
}

// ensureConfig loads the configuration once from the directory named by
// PATTOO_CONFIGDIR. An unset variable or missing file yields the defaults.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(os.Getenv(config.EnvConfigDir))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// logger builds a logger that writes to <log_dir>/pattoo-web.log and, with
// --verbose, to stderr as well.
func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	verbose := c.verbose != nil && *c.verbose
	logger, err := logging.NewFromConfig(cfg, "pattoo-web", verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// layout resolves the install tree from the running executable.
func (c *commandContext) layout() (install.Layout, error) {
	exe, err := os.Executable()
	if err != nil {
		return install.Layout{}, fmt.Errorf("resolve executable: %w", err)
	}
	return install.ResolveLayout(exe)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
