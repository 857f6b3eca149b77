package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrovia/agrovia/config"
	"github.com/agrovia/agrovia/pkg/cache"
)

func bootCache() error {
	config.Load()
	return cache.Connect()
}

// agrovia cache:clear — drop every cached upstream response.
var cacheClearCmd = &cobra.Command{
	Use:   "cache:clear",
	Short: "Remove every cache entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootCache(); err != nil {
			return err
		}
		if err := cache.Flush(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

// agrovia cache:sweep — remove only expired entries.
var cacheSweepCmd = &cobra.Command{
	Use:   "cache:sweep",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootCache(); err != nil {
			return err
		}
		if err := cache.Sweep(); err != nil {
			return err
		}
		fmt.Println("Expired entries removed.")
		return nil
	},
}
