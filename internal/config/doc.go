// Package config loads, normalizes, and validates pattoo-web configuration data.
//
// The configuration directory is named by the PATTOO_CONFIGDIR environment
// variable and may hold a pattoo_webd.toml file. Missing files fall back to
// repository defaults. Paths are expanded (including tilde shortcuts) so the
// install pipeline, the agent runtime, and the CLI all see the same absolute
// locations.
//
// A Config is built once per process by Load and handed to every component
// that needs it. Nothing in the repository reads configuration from global
// state, and callers treat the returned value as read-only.
package config
