package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/pkg/core/services"
)

// ListScheduleCmd creates the listSchedule command
func ListScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listSchedule [start end]",
		Short: "Show saved shifts and shortages for a date range or month",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")

			start, end, err := parseRangeArgs(args, month)
			if err != nil {
				return err
			}

			app.Logger.Debug("listSchedule command", zap.Stringer("start", start), zap.Stringer("end", end))

			view, err := services.ListSchedule(app.Ctx, app.Database, app.Logger, start, end)
			if err != nil {
				return fmt.Errorf("failed to list schedule: %w", err)
			}

			fmt.Printf("\n📅 Saved Schedule %s to %s\n\n", start, end)
			if view.Run != nil {
				fmt.Printf("Latest run: %s (%s, created %s)\n\n", view.Run.ID, view.Run.Mode, view.Run.CreatedDatetime)
			}

			fmt.Printf("%-12s  %-12s  %-14s  %-16s  %s\n", "Date", "Slot", "Role", "Staff", "Time")
			fmt.Println("------------  ------------  --------------  ----------------  -----------")
			for _, a := range view.Assignments {
				fmt.Printf("%-12s  %-12s  %-14s  %-16s  %s-%s\n", a.Date, a.TimeSlotID, a.Role, a.StaffID, a.StartTime, a.EndTime)
			}
			fmt.Println()

			if len(view.Shortages) > 0 {
				fmt.Printf("🚨 Shortages (%d):\n", len(view.Shortages))
				for _, s := range view.Shortages {
					fmt.Printf("  • %s %s %s: %d of %d assigned\n", s.Date, s.TimeSlotID, s.Role, s.AssignedCount, s.RequiredCount)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().String("month", "", "Show a whole calendar month (YYYY-MM)")

	return cmd
}
