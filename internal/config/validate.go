package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAgent(); err != nil {
		return err
	}
	if err := c.validateInstall(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.History.RetainedRuns < 0 {
		return errors.New("history.retained_runs must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if err := ensurePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := ensurePort("server.api_port", c.Server.APIPort); err != nil {
		return err
	}
	if c.Server.Port != 0 && c.Server.Port == c.Server.APIPort && c.Server.ListenAddress == c.Server.APIListenAddress {
		return errors.New("server.port and server.api_port must differ when both agents share an address")
	}
	if c.Server.ReadyTimeout <= 0 {
		return errors.New("server.ready_timeout must be positive (seconds)")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateAgent() error {
	if strings.ContainsAny(c.Agent.Name, `/\ `) {
		return fmt.Errorf("agent.name %q must not contain path separators or spaces", c.Agent.Name)
	}
	if strings.ContainsAny(c.Agent.ProxySuffix, `/\ `) {
		return fmt.Errorf("agent.proxy_suffix %q must not contain path separators or spaces", c.Agent.ProxySuffix)
	}
	return nil
}

func (c *Config) validateInstall() error {
	if !strings.Contains(c.Install.PackageCommand, PackagePlaceholder) {
		return fmt.Errorf("install.package_command must contain %s", PackagePlaceholder)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ensurePort accepts 0 so tests can bind ephemeral ports.
func ensurePort(name string, port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%s must be between 0 and 65535", name)
	}
	return nil
}
