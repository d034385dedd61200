// Package main provides the entry point for the apply-pilot HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apply_pilot",
	Short: "Bulk job-application dispatch server",
	Long:  "apply-pilot classifies job postings by application flow, drives headless-browser form filling for automatable flows, and tracks every application attempt via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
