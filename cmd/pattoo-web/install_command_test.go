package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pattooweb/internal/config"
	"pattooweb/internal/deps"
	"pattooweb/internal/execx"
	"pattooweb/internal/exitcode"
	"pattooweb/internal/install"
	"pattooweb/internal/preflight"
	"pattooweb/internal/testsupport"
)

func TestInstallSuccess(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, "install")
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	requireContains(t, out, "??: Checking package requests")
	requireContains(t, out, "OK: package requests>=2.0")
	requireContains(t, out, "OK: package PyYAML")
	requireContains(t, out, "??: Checking configuration")
	requireContains(t, out, "OK: Configuration check passed")
	requireContains(t, out, "Hooray successful installation!")
	if exitcode.For(err) != exitcode.Success {
		t.Fatalf("expected exit 0, got %d", exitcode.For(err))
	}

	out, _, err = runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "passed")
}

func TestInstallMissingPackage(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setInstalledPackages(t, "requests")

	out, _, err := runCLI(t, "install")
	var missing *deps.MissingError
	if !errors.As(err, &missing) || missing.Package != "PyYAML" {
		t.Fatalf("expected PyYAML missing, got %v", err)
	}
	if exitcode.For(err) != exitcode.Fatal {
		t.Fatalf("expected exit 3, got %d", exitcode.For(err))
	}
	if strings.Contains(out, "??: Checking configuration") {
		t.Fatalf("configuration must not be checked after a missing package: %q", out)
	}

	var stderr bytes.Buffer
	reportError(&stderr, err)
	if stderr.String() != "\nPATTOO Error: Python3 \"PyYAML\" package not installed or pip3 command not found. Please fix.\n" {
		t.Fatalf("unexpected fatal message %q", stderr.String())
	}

	out, _, err = runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "failed")
	requireContains(t, out, "Dependencies")
}

func TestInstallConfigDirMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.configDir); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "install")
	if !errors.Is(err, preflight.ErrConfigDirMissing) {
		t.Fatalf("expected ErrConfigDirMissing, got %v", err)
	}
	if exitcode.For(err) != exitcode.Fatal {
		t.Fatalf("expected exit 3, got %d", exitcode.For(err))
	}
}

func TestInstallConfigDirIsFile(t *testing.T) {
	setupCLITestEnv(t)
	file := filepath.Join(t.TempDir(), "notadir")
	testsupport.WriteText(t, file, "not a directory\n")
	t.Setenv(config.EnvConfigDir, file)

	out, _, err := runCLI(t, "install")
	if !errors.Is(err, preflight.ErrConfigDirMissing) {
		t.Fatalf("expected ErrConfigDirMissing, got %v", err)
	}
	requireContains(t, out, "OK: package PyYAML")
	requireContains(t, out, "??: Checking configuration")
	if exitcode.For(err) != exitcode.Fatal {
		t.Fatalf("expected exit 3, got %d", exitcode.For(err))
	}
}

func TestInstallConfigEnvUnset(t *testing.T) {
	setupCLITestEnv(t)
	if err := os.Unsetenv(config.EnvConfigDir); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "install")
	if !errors.Is(err, preflight.ErrConfigEnvUnset) {
		t.Fatalf("expected ErrConfigEnvUnset, got %v", err)
	}
	var stderr bytes.Buffer
	reportError(&stderr, err)
	requireContains(t, stderr.String(), "$ export PATTOO_CONFIGDIR=/path/to/configuration/directory")
}

func TestInstallCheckScriptFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.setCheckScript(t, "echo reading config\necho 'db_name missing' >&2\nexit 1")

	out, _, err := runCLI(t, "install")
	var cmdErr *execx.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	if exitcode.For(err) != exitcode.CommandFailure {
		t.Fatalf("expected exit 2, got %d", exitcode.For(err))
	}
	requireContains(t, out, "Return code:1")
	requireContains(t, out, "STDOUT: reading config")
	requireContains(t, out, "STDERR: db_name missing")

	var stderr bytes.Buffer
	reportError(&stderr, err)
	if stderr.Len() != 0 {
		t.Fatalf("expected no extra fatal text, got %q", stderr.String())
	}
}

func TestInstallLayoutError(t *testing.T) {
	setupCLITestEnv(t)
	t.Setenv(install.EnvRoot, "")

	// The test binary does not live under pattoo-web/bin.
	_, _, err := runCLI(t, "install")
	if !errors.Is(err, install.ErrStructuralLayout) {
		t.Fatalf("expected ErrStructuralLayout, got %v", err)
	}
	if exitcode.For(err) != exitcode.Layout {
		t.Fatalf("expected exit 2, got %d", exitcode.For(err))
	}
}
