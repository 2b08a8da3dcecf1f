package deps

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
	// ErrMissingFile is returned when the requirements file does not exist.
	ErrMissingFile = errors.New("requirements file not found")
	// ErrDependencyMissing is matched by every MissingError.
	ErrDependencyMissing = errors.New("dependency missing")
)

// MissingError names the first package the introspection command rejected.
type MissingError struct {
	Package string
	Result  execx.Result
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("Python3 %q package not installed or pip3 command not found. Please fix.", e.Package)
}

func (e *MissingError) Is(target error) bool {
	return target == ErrDependencyMissing
}

// Checker verifies that every package listed in a requirements file is
// installed.
type Checker struct {
	Runner execx.Runner
	// PackageCommand is a command template containing config.PackagePlaceholder.
	PackageCommand string
	Out            io.Writer
	Logger         *slog.Logger
}

// NewChecker builds a Checker from the install section of cfg.
func NewChecker(cfg *config.Config, runner execx.Runner, out io.Writer, logger *slog.Logger) *Checker {
	return &Checker{
		Runner:         runner,
		PackageCommand: cfg.Install.PackageCommand,
		Out:            out,
		Logger:         logger,
	}
}

// CheckAll parses path and checks each entry in file order. It stops at the
// first missing package.
func (c *Checker) CheckAll(ctx context.Context, path string) error {
	logger := logging.NewComponentLogger(c.Logger, "deps")

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return fmt.Errorf("open requirements: %w", err)
	}
	defer file.Close()

	specs, err := ParseRequirements(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("requirements parsed",
		logging.String("path", path),
		logging.Int("count", len(specs)),
	)

	for _, spec := range specs {
		if err := c.check(ctx, logger, spec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) check(ctx context.Context, logger *slog.Logger, spec Spec) error {
	out := c.out()
	fmt.Fprintf(out, "??: Checking package %s\n", spec.Name)

	line := config.RenderPackageCommand(c.PackageCommand, spec.Name)
	result, err := c.Runner.Run(ctx, execx.Split(line), false)
	if err != nil {
		return fmt.Errorf("check package %s: %w", spec.Name, err)
	}
	if !result.Success() {
		logger.Error("package missing",
			logging.String("package", spec.Name),
			logging.Int(logging.FieldExitCode, result.ExitCode),
			logging.String(logging.FieldErrorHint, "install it with pip3 install "+spec.Name),
		)
		return &MissingError{Package: spec.Name, Result: result}
	}

	fmt.Fprintf(out, "OK: package %s\n", spec.String())
	return nil
}

func (c *Checker) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}
