package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// MigrateCmd creates the migrate command
func MigrateCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applied, err := app.Database.RunMigrations(app.Ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			app.Logger.Info("Migrations complete", zap.Strings("applied", applied))

			if len(applied) == 0 {
				fmt.Println("\n✓ Database is up to date")
				return nil
			}

			fmt.Printf("\n✓ Applied %d migration(s):\n", len(applied))
			for _, name := range applied {
				fmt.Printf("  • %s\n", name)
			}
			fmt.Println()

			return nil
		},
	}
}
