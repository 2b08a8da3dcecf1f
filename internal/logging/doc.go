// Package logging assembles structured slog loggers and attribute helpers used
// across pattoo-web.
//
// It owns the console and JSON handlers and the level and output plumbing.
// Operator progress text printed by the install pipeline is not routed
// through here; these loggers carry the structured record of the same events
// so runs can be audited after the fact. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
