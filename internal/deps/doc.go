// Package deps verifies the external packages and binaries pattoo-web needs.
//
// ParseRequirements reads a pip-style requirements file. Checker walks the
// parsed entries in file order and asks the package manager about each one,
// halting at the first package it cannot find. CheckBinaries performs plain
// PATH lookups for the status command.
package deps
