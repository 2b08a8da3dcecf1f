package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pattooweb/internal/config"
	"pattooweb/internal/install"
	"pattooweb/internal/testsupport"
)

type cliTestEnv struct {
	root      string
	configDir string
	dataDir   string
	logDir    string
	binDir    string
}

// setupCLITestEnv builds an install tree with a requirements file, a passing
// schema-check script and a pip3 stub that knows the listed packages.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		root:      filepath.Join(base, "pattoo-web"),
		configDir: filepath.Join(base, "etc"),
		dataDir:   filepath.Join(base, "data"),
		logDir:    filepath.Join(base, "logs"),
		binDir:    filepath.Join(base, "bin"),
	}
	if err := os.MkdirAll(env.configDir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}

	testsupport.WriteText(t, filepath.Join(env.root, "pip_requirements.txt"), "# runtime\nrequests>=2.0\nPyYAML\n")
	env.setCheckScript(t, "echo config ok\nexit 0")
	env.setInstalledPackages(t, "requests", "PyYAML")

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[server]
listen_address = "127.0.0.1"
port = 0
api_port = 0
ready_timeout = 5
shutdown_timeout = 1
`, env.dataDir, env.logDir)
	testsupport.WriteText(t, filepath.Join(env.configDir, config.FileName), content)

	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv(install.EnvRoot, env.root)
	t.Setenv(config.EnvConfigDir, env.configDir)
	t.Setenv("PATH", env.binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return env
}

func (e *cliTestEnv) setCheckScript(t *testing.T, body string) {
	t.Helper()
	testsupport.WriteScript(t, filepath.Join(e.root, "setup"), "_check_config.py", body)
}

func (e *cliTestEnv) setInstalledPackages(t *testing.T, names ...string) {
	t.Helper()
	var cases strings.Builder
	for _, name := range names {
		fmt.Fprintf(&cases, "  %s) exit 0 ;;\n", name)
	}
	body := "case \"$2\" in\n" + cases.String() + "esac\necho \"WARNING: Package(s) not found: $2\" >&2\nexit 1"
	testsupport.WriteScript(t, e.binDir, "pip3", body)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
