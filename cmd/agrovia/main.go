package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs populate the
	// registries before any command runs.
	_ "github.com/agrovia/agrovia/database/migrations"
	_ "github.com/agrovia/agrovia/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agrovia",
	Short: "Agrovia — agricultural export platform CLI",
	Long:  "Management CLI for the Agrovia platform: serve HTTP, run migrations and seeders, work the queue, manage the cache.",
}

func init() {
	// Server
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)

	// Cache
	rootCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheSweepCmd)
}
