package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pattooweb/internal/config"
	"pattooweb/internal/execx"
)

// EnvRoot overrides the install root and skips the layout check.
const EnvRoot = "PATTOO_WEB_ROOT"

// ErrStructuralLayout is returned when the binary is not installed under a
// pattoo-web/bin directory.
var ErrStructuralLayout = errors.New(`this program is not installed in the "pattoo-web/bin" directory. Please fix`)

// Layout locates the install tree.
type Layout struct {
	Root string
}

// ResolveLayout derives the install root from the running executable. When
// EnvRoot is set its value is used as-is.
func ResolveLayout(executable string) (Layout, error) {
	if root, ok := os.LookupEnv(EnvRoot); ok && strings.TrimSpace(root) != "" {
		abs, err := filepath.Abs(strings.TrimSpace(root))
		if err != nil {
			return Layout{}, fmt.Errorf("resolve %s: %w", EnvRoot, err)
		}
		return Layout{Root: abs}, nil
	}

	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	binDir := filepath.Dir(executable)
	want := filepath.Join("pattoo-web", "bin")
	if !strings.HasSuffix(filepath.ToSlash(binDir), "/"+filepath.ToSlash(want)) {
		return Layout{}, fmt.Errorf("%w (found %s)", ErrStructuralLayout, binDir)
	}
	return Layout{Root: filepath.Dir(binDir)}, nil
}

// Resolve makes a relative path absolute under the install root.
func (l Layout) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.Root, path)
}

// RequirementsPath returns the requirements file location for cfg.
func (l Layout) RequirementsPath(cfg *config.Config) string {
	return l.Resolve(cfg.Install.RequirementsFile)
}

// CheckCommand returns the schema-check command. Tokens that are relative
// paths (they contain a separator and are not flags) resolve under the root.
func (l Layout) CheckCommand(cfg *config.Config) execx.Spec {
	spec := execx.Split(cfg.Install.CheckCommand)
	if len(spec) == 0 {
		return nil
	}
	for i, token := range spec {
		if strings.HasPrefix(token, "-") || !strings.ContainsRune(token, filepath.Separator) {
			continue
		}
		spec[i] = l.Resolve(token)
	}
	return spec
}
