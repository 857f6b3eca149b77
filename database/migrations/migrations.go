// Package migrations holds every schema migration. Each file registers
// itself from init(); cmd/agrovia blank-imports this package so the
// registry is populated before the CLI runs.
package migrations
