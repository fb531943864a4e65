// Package main provides the entry point for the TalentScout screening
// assistant HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talentscout",
	Short: "TalentScout hiring assistant server",
	Long:  "TalentScout is a conversational hiring assistant that screens tech candidates: it collects their profile over chat and generates technical questions tailored to their declared tech stack.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
