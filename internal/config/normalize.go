package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "PATTOO_WEB_LOG_LEVEL"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeAgent()
	c.normalizeInstall()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.ListenAddress = strings.TrimSpace(c.Server.ListenAddress)
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = defaultListenAddress
	}
	c.Server.APIListenAddress = strings.TrimSpace(c.Server.APIListenAddress)
	if c.Server.APIListenAddress == "" {
		c.Server.APIListenAddress = defaultAPIListenAddress
	}
	c.Server.StaticDir = strings.TrimSpace(c.Server.StaticDir)
}

func (c *Config) normalizeAgent() {
	c.Agent.Name = strings.TrimSpace(c.Agent.Name)
	if c.Agent.Name == "" {
		c.Agent.Name = defaultAgentName
	}
	c.Agent.ProxySuffix = strings.TrimSpace(c.Agent.ProxySuffix)
	if c.Agent.ProxySuffix == "" {
		c.Agent.ProxySuffix = defaultProxySuffix
	}
}

func (c *Config) normalizeInstall() {
	c.Install.RequirementsFile = strings.TrimSpace(c.Install.RequirementsFile)
	if c.Install.RequirementsFile == "" {
		c.Install.RequirementsFile = defaultRequirementsFile
	}
	c.Install.PackageCommand = strings.TrimSpace(c.Install.PackageCommand)
	if c.Install.PackageCommand == "" {
		c.Install.PackageCommand = defaultPackageCommand
	}
	c.Install.CheckCommand = strings.TrimSpace(c.Install.CheckCommand)
	if c.Install.CheckCommand == "" {
		c.Install.CheckCommand = defaultCheckCommand
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv(EnvLogLevel); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
