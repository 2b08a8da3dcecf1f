package install_test

import (
	"errors"
	"path/filepath"
	"testing"

	"pattooweb/internal/config"
	"pattooweb/internal/install"
)

func TestResolveLayout(t *testing.T) {
	t.Setenv(install.EnvRoot, "")

	base := t.TempDir()
	exe := filepath.Join(base, "opt", "pattoo-web", "bin", "pattoo-web")
	layout, err := install.ResolveLayout(exe)
	if err != nil {
		t.Fatalf("ResolveLayout returned error: %v", err)
	}
	if want := filepath.Join(base, "opt", "pattoo-web"); layout.Root != want {
		t.Fatalf("root = %q, want %q", layout.Root, want)
	}
}

func TestResolveLayoutRejectsWrongDirectory(t *testing.T) {
	t.Setenv(install.EnvRoot, "")

	for _, exe := range []string{
		"/usr/local/bin/pattoo-web",
		"/opt/pattoo/bin/pattoo-web",
		"/opt/pattoo-web/sbin/pattoo-web",
	} {
		if _, err := install.ResolveLayout(exe); !errors.Is(err, install.ErrStructuralLayout) {
			t.Fatalf("ResolveLayout(%s) = %v, want ErrStructuralLayout", exe, err)
		}
	}
}

func TestResolveLayoutEnvOverride(t *testing.T) {
	root := t.TempDir()
	t.Setenv(install.EnvRoot, root)

	layout, err := install.ResolveLayout("/usr/local/bin/pattoo-web")
	if err != nil {
		t.Fatalf("expected override to skip check, got %v", err)
	}
	if layout.Root != root {
		t.Fatalf("root = %q, want %q", layout.Root, root)
	}
}

func TestLayoutResolvesInstallPaths(t *testing.T) {
	layout := install.Layout{Root: "/opt/pattoo-web"}
	cfg := config.Default()

	if got := layout.RequirementsPath(&cfg); got != "/opt/pattoo-web/pip_requirements.txt" {
		t.Fatalf("unexpected requirements path %q", got)
	}
	spec := layout.CheckCommand(&cfg)
	if len(spec) != 1 || spec[0] != "/opt/pattoo-web/setup/_check_config.py" {
		t.Fatalf("unexpected check command %#v", spec)
	}

	cfg.Install.CheckCommand = "python3 setup/_check_config.py"
	spec = layout.CheckCommand(&cfg)
	if len(spec) != 2 || spec[0] != "python3" || spec[1] != "/opt/pattoo-web/setup/_check_config.py" {
		t.Fatalf("expected script argument resolved under root, got %#v", spec)
	}
	if got := layout.Resolve("/etc/reqs.txt"); got != "/etc/reqs.txt" {
		t.Fatalf("expected absolute path unchanged, got %q", got)
	}
}
