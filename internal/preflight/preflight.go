package preflight

import (
	"os"

	"pattooweb/internal/config"
)

// Result reports the outcome of a single preflight check or pipeline stage.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Report is an ordered list of stage results.
type Report struct {
	Stages []Result
}

// Add appends a stage result.
func (r *Report) Add(result Result) {
	r.Stages = append(r.Stages, result)
}

// Passed reports whether every recorded stage passed. An empty report has
// not passed.
func (r Report) Passed() bool {
	if len(r.Stages) == 0 {
		return false
	}
	for _, stage := range r.Stages {
		if !stage.Passed {
			return false
		}
	}
	return true
}

// FirstFailure returns the first failing stage, if any.
func (r Report) FirstFailure() (Result, bool) {
	for _, stage := range r.Stages {
		if !stage.Passed {
			return stage, true
		}
	}
	return Result{}, false
}

// RunAll executes the filesystem checks used by the status command.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckConfigEnv(config.EnvConfigDir, os.LookupEnv))
	if dir, ok := os.LookupEnv(config.EnvConfigDir); ok && dir != "" {
		results = append(results, CheckDirectoryAccess("Config directory", dir))
	}
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	return results
}
