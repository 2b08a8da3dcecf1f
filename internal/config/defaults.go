package config

const (
	// EnvConfigDir names the environment variable holding the configuration directory.
	EnvConfigDir = "PATTOO_CONFIGDIR"
	// FileName is the configuration file looked up inside the configuration directory.
	FileName = "pattoo_webd.toml"

	defaultDataDir             = "~/.local/share/pattoo-web"
	defaultLogDir              = "~/.local/share/pattoo-web/logs"
	defaultListenAddress       = "0.0.0.0"
	defaultPort                = 20200
	defaultAPIListenAddress    = "127.0.0.1"
	defaultAPIPort             = 20201
	defaultReadyTimeout        = 10
	defaultShutdownTimeout     = 5
	defaultStaticDir           = "theme/static"
	defaultAgentName           = "pattoo_webd"
	defaultProxySuffix         = "-gunicorn"
	defaultRequirementsFile    = "pip_requirements.txt"
	defaultPackageCommand      = "pip3 show {package}"
	defaultCheckCommand        = "setup/_check_config.py"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultHistoryRetainedRuns = 200
)

// PackagePlaceholder is substituted with the package name in install.package_command.
const PackagePlaceholder = "{package}"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			ListenAddress:    defaultListenAddress,
			Port:             defaultPort,
			APIListenAddress: defaultAPIListenAddress,
			APIPort:          defaultAPIPort,
			ReadyTimeout:     defaultReadyTimeout,
			ShutdownTimeout:  defaultShutdownTimeout,
			StaticDir:        defaultStaticDir,
		},
		Agent: Agent{
			Name:        defaultAgentName,
			ProxySuffix: defaultProxySuffix,
		},
		Install: Install{
			RequirementsFile: defaultRequirementsFile,
			PackageCommand:   defaultPackageCommand,
			CheckCommand:     defaultCheckCommand,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled:      true,
			RetainedRuns: defaultHistoryRetainedRuns,
		},
	}
}
