package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the schema migrations",
	}
	cmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", persistence.MigrateUp),
		migrateStep("down", "Revert all applied migrations", persistence.MigrateDown),
	)
	return cmd
}

func migrateStep(name, short string, step func(persistence.Database, *zap.Logger) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			db, err := rt.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := step(db, rt.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done (%s)\n", name, db.Driver())
			return nil
		},
	}
}
