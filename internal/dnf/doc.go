// Package dnf drives the system package manager (dnf) and the local package
// database (rpm) and turns their human-oriented output into package records.
//
// The package implements:
//   - Parsers for search, info, installed-list and update-check output
//   - Output dialects describing the label vocabulary of each tool version
//   - A Client running read-only queries with per-operation timeouts
//   - Privileged install, uninstall and system upgrade through an elevation helper
//
// Parsers are pure functions that drop malformed records instead of failing.
// Process-level failures surface as one typed error per operation; see KindOf.
//
// Usage:
//
//	client := dnf.NewClient(command.NewRunner())
//	pkgs, err := client.Search(ctx, "vim")
package dnf
