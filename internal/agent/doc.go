// Package agent hosts pattoo-web agents in-process.
//
// An agent is a named HTTP listener. The API agent serves the backend
// handler directly; the proxy agent forwards every request to an upstream
// agent that must already be running in the same Runtime. Each agent holds an
// exclusive lock file and a PID file under the data directory for as long as
// it runs, which is what the stop and status commands inspect.
package agent
