package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Spok95/qc-tracker/internal/db"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the SQL store drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect, dsn, ok := sqlDialect(ctx.cfg)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "store driver %s has no migrations\n", ctx.cfg.StoreDriver)
				return nil
			}
			database, err := db.Open(cmd.Context(), dialect, dsn)
			if err != nil {
				return err
			}
			defer database.Close()
			if err := db.Migrate(cmd.Context(), database, dialect); err != nil {
				return err
			}
			v, err := db.Version(cmd.Context(), database, dialect)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema at version %d\n", dialect, v)
			return nil
		},
	}
}
