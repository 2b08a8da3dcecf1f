// Package preflight validates the environment pattoo-web runs in.
//
// ConfigValidator is the install-time check: the configuration directory
// variable must be set, must name an existing directory, and the schema-check
// command must exit cleanly. Stage outcomes are collected in a Report so the
// install pipeline and the run history share one shape.
//
// The CLI "pattoo-web status" command uses the individual check functions
// (CheckDirectoryAccess, CheckSystemDeps, CheckEndpoint) to display health.
package preflight
