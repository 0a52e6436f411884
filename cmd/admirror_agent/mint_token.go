package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/admirror/internal/server"
)

var mintTokenCmd = &cobra.Command{
	Use:   "mint-token",
	Short: "Mint a short-lived trigger token",
	Long:  "Mint a signed bearer token for calling the job trigger endpoints, using the shared CRON_SECRET.",
	RunE:  runMintToken,
}

var (
	mintTokenJob string
	mintTokenTTL time.Duration
)

func init() {
	mintTokenCmd.Flags().StringVar(&mintTokenJob, "job", "", "Job name to embed in the token claims")
	mintTokenCmd.Flags().DurationVar(&mintTokenTTL, "ttl", 15*time.Minute, "Token lifetime")

	rootCmd.AddCommand(mintTokenCmd)
}

func runMintToken(_ *cobra.Command, _ []string) error {
	secret := os.Getenv("CRON_SECRET")
	if secret == "" {
		return fmt.Errorf("CRON_SECRET environment variable is required")
	}

	token, err := server.NewCronAuth(secret).GenerateToken(mintTokenJob, mintTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	fmt.Fprintln(os.Stdout, token)

	return nil
}
