package main

import (
	"fmt"
	"os"

	"github.com/agrovia/agrovia/internal/server"

	// Register migrations and seeders so `agrovia migrate && agrovia seed`
	// and this binary agree on the schema.
	_ "github.com/agrovia/agrovia/database/migrations"
	_ "github.com/agrovia/agrovia/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
