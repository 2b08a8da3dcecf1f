package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"pattooweb/internal/config"
	"pattooweb/internal/execx"
	"pattooweb/internal/logging"
)

var (
	// ErrConfigEnvUnset is returned when the configuration directory variable is absent.
	ErrConfigEnvUnset = errors.New("configuration directory variable not set")
	// ErrConfigDirMissing is returned when the variable names no existing directory.
	ErrConfigDirMissing = errors.New("configuration directory not found")
)

const exportHint = "$ export %s=/path/to/configuration/directory\n\nThen run this command again."

// ConfigValidator checks the configuration directory and runs the schema
// check command.
type ConfigValidator struct {
	Runner execx.Runner
	// EnvVar names the configuration directory variable.
	EnvVar string
	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup LookupFunc
	// CheckCommand is run fail-fast once the directory checks pass.
	CheckCommand execx.Spec
	Out          io.Writer
	Logger       *slog.Logger
}

// Validate runs the checks in order and stops at the first failure. A failing
// check command surfaces as *execx.CommandError.
func (v *ConfigValidator) Validate(ctx context.Context) error {
	out := v.out()
	logger := logging.NewComponentLogger(v.Logger, "preflight")
	envVar := v.EnvVar
	if envVar == "" {
		envVar = config.EnvConfigDir
	}

	fmt.Fprintln(out, "??: Checking configuration")

	dir, err := RequireConfigDir(envVar, v.Lookup)
	if err != nil {
		logger.Error("configuration directory unavailable",
			logging.String("variable", envVar),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "export "+envVar+" before running this command"),
		)
		return err
	}

	if len(v.CheckCommand) > 0 {
		if _, err = v.Runner.Run(ctx, v.CheckCommand, true); err != nil {
			return fmt.Errorf("configuration check: %w", err)
		}
	}

	logger.Info("configuration check passed", logging.String("path", dir))
	fmt.Fprintln(out, "OK: Configuration check passed")
	return nil
}

// RequireConfigDir returns the directory named by envVar, or
// ErrConfigEnvUnset / ErrConfigDirMissing wrapped with the operator hint.
func RequireConfigDir(envVar string, lookup LookupFunc) (string, error) {
	env := CheckConfigEnv(envVar, lookup)
	if !env.Passed {
		return "", fmt.Errorf("%w\n\nSet your %s to point to your configuration directory like this:\n\n"+exportHint,
			ErrConfigEnvUnset, envVar, envVar)
	}
	dir := env.Detail
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %q\n\nSet your %s to point to an existing directory:\n\n"+exportHint,
			ErrConfigDirMissing, dir, envVar, envVar)
	}
	return dir, nil
}

func (v *ConfigValidator) out() io.Writer {
	if v.Out != nil {
		return v.Out
	}
	return os.Stdout
}
