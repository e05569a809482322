// Package main provides the entry point for the Laredo Harvester CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "laredo_harvester",
	Short: "Laredo records portal harvester",
	Long:  "Laredo Harvester logs into the records portal, runs a parameterized search per jurisdiction, captures the results from the session's own network traffic, enriches them with document details, and exports wide-format JSON records.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
