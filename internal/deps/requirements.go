package deps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedRequirement is returned for a line that carries a version
// constraint but no package name.
var ErrMalformedRequirement = errors.New("malformed requirement")

// Spec is one entry of a requirements file.
type Spec struct {
	// Name is the package name passed to the introspection command.
	Name string
	// Constraint is everything after the name, e.g. ">=2.0".
	Constraint string
	// Line is the 1-based line number in the source file.
	Line int
}

// String renders the entry as it appeared in the file, without comments.
func (s Spec) String() string {
	return s.Name + s.Constraint
}

// ParseRequirements reads requirement entries from r. Blank lines and
// comment lines are skipped, and inline " #" comments are stripped.
func ParseRequirements(r io.Reader) ([]Spec, error) {
	var specs []Spec
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, constraint := splitRequirement(line)
		if name == "" {
			return nil, fmt.Errorf("line %d %q: %w", lineNo, line, ErrMalformedRequirement)
		}
		specs = append(specs, Spec{Name: name, Constraint: constraint, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read requirements: %w", err)
	}
	return specs, nil
}

func splitRequirement(line string) (string, string) {
	idx := strings.IndexAny(line, "=>")
	if idx < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx:])
}
