package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pesio-ai/be-lit-backoffice/internal/repository/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or reset the PostgreSQL schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.openDB(cmd.Context()); err != nil {
			return err
		}

		applied, err := postgres.Migrate(cmd.Context(), a.db, a.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", applied)
		return nil
	},
}

var migrateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every table and reapply migrations (development only)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		if !a.cfg.IsDevelopment() {
			return fmt.Errorf("refusing to reset the database in %s", a.cfg.Service.Environment)
		}
		if err := a.openDB(cmd.Context()); err != nil {
			return err
		}

		if err := postgres.Reset(cmd.Context(), a.db, a.log); err != nil {
			return err
		}
		applied, err := postgres.Migrate(cmd.Context(), a.db, a.log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset database and applied %d migration(s)\n", applied)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateResetCmd)
}
