// Package main provides the entry point for the AdMirror competitor intelligence agent.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "admirror_agent",
	Short: "AdMirror competitor ad intelligence agent",
	Long:  "AdMirror classifies competitor ad accounts into strategic tracks and tags their image and video creatives against a fixed taxonomy, exposing the jobs over HTTP and an internal scheduler.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
