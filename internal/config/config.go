package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains runtime directories.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Server contains listener and readiness settings for the two agents.
type Server struct {
	ListenAddress    string `toml:"listen_address"`
	Port             int    `toml:"port"`
	APIListenAddress string `toml:"api_listen_address"`
	APIPort          int    `toml:"api_port"`
	ReadyTimeout     int    `toml:"ready_timeout"`
	ShutdownTimeout  int    `toml:"shutdown_timeout"`
	StaticDir        string `toml:"static_dir"`
}

// Agent names the API agent; the proxy agent name is derived from it.
type Agent struct {
	Name        string `toml:"name"`
	ProxySuffix string `toml:"proxy_suffix"`
}

// Install contains the commands and files used by the install pipeline.
// Relative paths are resolved against the install root, not the config directory.
type Install struct {
	RequirementsFile string `toml:"requirements_file"`
	PackageCommand   string `toml:"package_command"`
	CheckCommand     string `toml:"check_command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History controls the install run ledger.
type History struct {
	Enabled      bool `toml:"enabled"`
	RetainedRuns int  `toml:"retained_runs"`
}

// Config encapsulates all configuration values for pattoo-web.
//
// Configuration sections by subsystem:
//   - Paths: PID, lock, database and log directories
//   - Server: public (proxy) and API listeners plus readiness timing
//   - Agent: agent naming
//   - Install: requirement list and external check commands
//   - Logging: log format and level
//   - History: persisted install run reports
type Config struct {
	Paths   Paths   `toml:"paths"`
	Server  Server  `toml:"server"`
	Agent   Agent   `toml:"agent"`
	Install Install `toml:"install"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
}

// Load reads pattoo_webd.toml from dir when present, then normalizes and
// validates the result. An empty dir yields the defaults. It returns the
// config, the config file path, and whether that file existed.
func Load(dir string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(dir)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(dir string) (string, bool, error) {
	if strings.TrimSpace(dir) == "" {
		return "", false, nil
	}
	expanded, err := expandPath(dir)
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(expanded, FileName)
	// A missing or non-directory config dir is reported by the configuration
	// stage, not here.
	if dirInfo, err := os.Stat(expanded); err != nil || !dirInfo.IsDir() {
		return path, false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", path)
	}
	return path, true, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ProxyName returns the proxy agent name derived from the API agent name.
func (c *Config) ProxyName() string {
	return c.Agent.Name + c.Agent.ProxySuffix
}

// PublicAddress is the host:port the proxy agent listens on.
func (c *Config) PublicAddress() string {
	return net.JoinHostPort(c.Server.ListenAddress, strconv.Itoa(c.Server.Port))
}

// APIAddress is the host:port the API agent listens on.
func (c *Config) APIAddress() string {
	return net.JoinHostPort(c.Server.APIListenAddress, strconv.Itoa(c.Server.APIPort))
}

// ReadyTimeout returns how long an agent may take to report ready.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.Server.ReadyTimeout) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget per agent.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// PIDPath returns the PID file location for the named agent.
func (c *Config) PIDPath(agent string) string {
	return filepath.Join(c.Paths.DataDir, agent+".pid")
}

// LockPath returns the lock file location for the named agent.
func (c *Config) LockPath(agent string) string {
	return filepath.Join(c.Paths.DataDir, agent+".lock")
}

// HistoryPath returns the install run ledger database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// RenderPackageCommand substitutes pkg for PackagePlaceholder in an
// install.package_command template.
func RenderPackageCommand(template, pkg string) string {
	return strings.ReplaceAll(template, PackagePlaceholder, pkg)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
