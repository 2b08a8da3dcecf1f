// Package history persists the outcome of every install run in SQLite so
// operators can see when preflight last passed and which stage failed.
package history
