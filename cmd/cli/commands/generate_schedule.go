package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staff-rota/pkg/core/caldate"
	"github.com/jakechorley/staff-rota/pkg/core/model"
	"github.com/jakechorley/staff-rota/pkg/core/services"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule [start end]",
		Short: "Generate shift assignments for a date range",
		Long: "Run the scheduler over an inclusive date range (YYYY-MM-DD YYYY-MM-DD) or a whole " +
			"month (--month YYYY-MM) and save the resulting shifts and shortages",
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			mode, _ := cmd.Flags().GetString("mode")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			forceCommit, _ := cmd.Flags().GetBool("force-commit")

			start, end, err := parseRangeArgs(args, month)
			if err != nil {
				return err
			}

			app.Logger.Debug("generateSchedule command",
				zap.Stringer("start", start),
				zap.Stringer("end", end),
				zap.String("mode", mode),
				zap.Bool("dry_run", dryRun),
				zap.Bool("force_commit", forceCommit))

			result, err := services.GenerateSchedule(app.Ctx, app.Database, app.Cfg, app.Logger, services.GenerateScheduleRequest{
				Start:       start,
				End:         end,
				Mode:        model.Mode(mode),
				DryRun:      dryRun,
				ForceCommit: forceCommit,
			})
			if err != nil {
				return fmt.Errorf("schedule generation failed: %w", err)
			}

			outcome := result.Outcome

			fmt.Printf("\n🗓  Schedule Generation Results\n\n")
			fmt.Printf("Run ID:      %s\n", result.RunID)
			fmt.Printf("Range:       %s to %s\n", start, end)
			fmt.Printf("Mode:        %s\n", result.Mode)
			fmt.Printf("Result:      %s\n", outcome.Message)
			switch {
			case dryRun:
				fmt.Printf("Status:      🧪 DRY RUN (not saved)\n")
			case result.Saved && len(result.ValidationErrors) == 0:
				fmt.Printf("Status:      ✅ SAVED\n")
			case result.Saved:
				fmt.Printf("Status:      ⚠️  FORCED (saved despite validation errors)\n")
			default:
				fmt.Printf("Status:      ❌ FAILED VALIDATION (not saved)\n")
			}
			fmt.Println()

			if len(result.ValidationErrors) > 0 {
				fmt.Printf("⚠️  Validation Errors (%d):\n", len(result.ValidationErrors))
				for _, verr := range result.ValidationErrors {
					fmt.Printf("  • %s %s %s: %s\n", verr.Date, verr.StaffID, verr.Check, verr.Description)
				}
				fmt.Println()
			}

			fmt.Printf("📅 Shifts (%d):\n\n", len(outcome.Shifts))
			fmt.Printf("%s%-12s  %-12s  %-14s  %-16s  %s%s\n", colorBold, "Date", "Slot", "Role", "Staff", "Hours", colorReset)
			fmt.Println(strings.Repeat("-", 12) + "  " + strings.Repeat("-", 12) + "  " + strings.Repeat("-", 14) + "  " + strings.Repeat("-", 16) + "  -----")
			for _, shift := range outcome.Shifts {
				fmt.Printf("%-12s  %-12s  %-14s  %-16s  %.1f\n",
					shift.Date, shift.TimeSlotID, shift.Role, shift.StaffID, shift.DurationHours())
			}
			fmt.Println()

			if len(outcome.Shortages) > 0 {
				fmt.Printf("%s🚨 Shortages (%d, %d staff short):%s\n\n", colorRed, len(outcome.Shortages), outcome.Stats.ShortageTotal, colorReset)
				fmt.Printf("%s%-12s  %-12s  %-14s  %-8s  %-8s  %-6s  %s%s\n", colorBold,
					"Date", "Slot", "Role", "Required", "Assigned", "Short", "Reasons", colorReset)
				for _, s := range outcome.Shortages {
					color := shortageColor(s.AssignedCount, s.RequiredCount)
					fmt.Printf("%-12s  %-12s  %-14s  %-8d  %s%-8d%s  %-6d  %s\n",
						s.Date, s.TimeSlotID, s.Role, s.RequiredCount,
						color, s.AssignedCount, colorReset,
						s.ShortageCount, formatRejections(s.Rejections))
				}
				fmt.Println()
			}

			fmt.Printf("Dates scheduled: %d (closed: %d)  Demand rows: %d  Required: %d  Assigned: %d\n\n",
				outcome.Stats.Dates, outcome.Stats.ClosedDates, outcome.Stats.DemandRows,
				outcome.Stats.RequiredTotal, outcome.Stats.AssignedTotal)

			return nil
		},
	}

	cmd.Flags().String("month", "", "Generate a whole calendar month (YYYY-MM) instead of a date range")
	cmd.Flags().String("mode", "", "overwrite replaces saved shifts in the range, augment keeps them (default from config)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to the database")
	cmd.Flags().Bool("force-commit", false, "Save even when the generated schedule fails validation")

	return cmd
}

// parseRangeArgs reads either two date arguments or a month flag
func parseRangeArgs(args []string, month string) (caldate.Date, caldate.Date, error) {
	if month != "" {
		if len(args) > 0 {
			return caldate.Date{}, caldate.Date{}, fmt.Errorf("give either --month or start and end dates, not both")
		}
		m, err := caldate.ParseMonth(month)
		if err != nil {
			return caldate.Date{}, caldate.Date{}, err
		}
		return m.First(), m.Last(), nil
	}

	if len(args) != 2 {
		return caldate.Date{}, caldate.Date{}, fmt.Errorf("expected start and end dates (YYYY-MM-DD) or --month, got %d argument(s)", len(args))
	}

	start, err := caldate.Parse(args[0])
	if err != nil {
		return caldate.Date{}, caldate.Date{}, fmt.Errorf("start: %w", err)
	}
	end, err := caldate.Parse(args[1])
	if err != nil {
		return caldate.Date{}, caldate.Date{}, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// shortageColor picks red for an unstaffed slot and yellow for a partly staffed one
func shortageColor(assigned, required int) string {
	switch {
	case assigned >= required:
		return colorGreen
	case assigned == 0:
		return colorRed
	default:
		return colorYellow
	}
}

// formatRejections renders rejection counts as "reason=count" sorted by reason
func formatRejections(rejections map[string]int) string {
	if len(rejections) == 0 {
		return "—"
	}

	reasons := make([]string, 0, len(rejections))
	for reason := range rejections {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, rejections[reason]))
	}
	return strings.Join(parts, ", ")
}
