package history

import (
	"time"

	"pattooweb/internal/preflight"
)

// Run is one recorded install run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Passed     bool
	Stages     []preflight.Result
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedStage returns the name of the first failing stage, or "".
func (r Run) FailedStage() string {
	for _, stage := range r.Stages {
		if !stage.Passed {
			return stage.Name
		}
	}
	return ""
}

type stageRecord struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}
