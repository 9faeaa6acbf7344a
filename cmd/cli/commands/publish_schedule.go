package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/internal/config"
	"github.com/jakechorley/staff-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/staff-rota/pkg/core/services"
)

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishSchedule [start end]",
		Short: "Publish a saved schedule to Google Sheets",
		Long:  "Publish the saved shifts and latest shortages for a date range or month to the configured schedule sheet",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")

			start, end, err := parseRangeArgs(args, month)
			if err != nil {
				return err
			}

			app.Logger.Debug("publishSchedule command", zap.Stringer("start", start), zap.Stringer("end", end))

			oauthCfg, err := config.LoadOAuthClient(app.Cfg, app.Env)
			if err != nil {
				return fmt.Errorf("failed to load OAuth client config: %w", err)
			}

			app.Logger.Info("Initializing sheets client")
			sheetsClient, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			published, err := services.PublishSchedule(app.Ctx, app.Database, sheetsClient, app.Cfg, app.Logger, start, end)
			if err != nil {
				return fmt.Errorf("failed to publish schedule: %w", err)
			}

			fmt.Printf("\n✅ Schedule Published Successfully\n\n")
			fmt.Printf("Range:     %s to %s\n", published.StartDate, published.EndDate)
			fmt.Printf("Sheet ID:  %s\n", app.Cfg.ScheduleSheetID)
			fmt.Printf("Rows:      %d\n", len(published.Rows))
			fmt.Printf("Shortages: %d\n\n", len(published.Shortages))

			fmt.Printf("%-15s  %-12s  %-14s  %s\n", "Date", "Slot", "Role", "Staff")
			fmt.Println("---------------  ------------  --------------  ----------------------------------------")
			for _, row := range published.Rows {
				fmt.Printf("%-15s  %-12s  %-14s  %s\n", row.Date, row.Slot, row.Role, strings.Join(row.Staff, ", "))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("month", "", "Publish a whole calendar month (YYYY-MM)")

	return cmd
}
