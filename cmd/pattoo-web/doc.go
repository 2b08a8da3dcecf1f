// Package main hosts the pattoo-web CLI entrypoint and command graph.
//
// The Cobra command tree wires the install pipeline, the agent orchestrator
// and the status, stop and history views onto the internal packages. Errors
// travel back up unchanged; main is the only place that turns them into an
// exit status.
package main
