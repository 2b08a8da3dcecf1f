// Package install runs the one-shot install flow: package dependencies,
// configuration validation, then next steps. The first failing stage halts
// the run and its error is returned unchanged for the exit boundary.
package install
