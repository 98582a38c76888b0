package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the API server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Litigation support back office API",
	Long: `Back office API for clients, matters, people, collections, vendor
documents, contract reviews and tasks.

Available subcommands:
  serve   - Run the HTTP and gRPC servers (default)
  migrate - Apply or reset the PostgreSQL schema
  user    - Manage login accounts`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
