package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is an executable pattoo-web expects to find at runtime.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports whether a Requirement resolved.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// DefaultBinaries lists the executables the install flow shells out to.
// checkCommand is the schema-check script from the install section.
func DefaultBinaries(checkCommand string) []Requirement {
	reqs := []Requirement{
		{Name: "pip3", Command: "pip3", Description: "package introspection"},
		{Name: "python3", Command: "python3", Description: "configuration schema check runtime"},
	}
	if fields := strings.Fields(checkCommand); len(fields) > 0 {
		reqs = append(reqs, Requirement{
			Name:        "check script",
			Command:     fields[0],
			Description: "configuration schema check",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries resolves each requirement on PATH, or as a path when the
// command contains a separator.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			resolved, err := exec.LookPath(cmd)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
				break
			}
			status.Command = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}
