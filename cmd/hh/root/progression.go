package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

func newProgressionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progression",
		Short: "Show weekly, monthly and yearly cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.EnsureDailyProgress(ctx); err != nil {
				return err
			}

			st := svc.State()
			out := cmd.OutOrStdout()
			w := st.Cycles.Weekly

			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Progression"))
			fmt.Fprintln(out, ui.H2.Render("Week "+w.WeekKey))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Score:"), w.Score)
			if w.BossMaxHP > 0 {
				bossLine := fmt.Sprintf("- %s %d/%d", ui.Key.Render(ui.IconBoss+" Boss:"), w.BossHP, w.BossMaxHP)
				if w.BossDefeated {
					bossLine += " " + ui.Good.Render("defeated")
				}
				fmt.Fprintln(out, bossLine)
				fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Boss streak:"), st.Cycles.BossStreak)
			}
			chest := ui.Muted.Render("none yet")
			if w.ChestTierID != "" {
				chest = w.ChestTierID
				if w.ChestClaimed {
					chest += " " + ui.Muted.Render("(claimed)")
				} else {
					chest += " " + ui.Good.Render("(claimable: hh chest)")
				}
			}
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render(ui.IconChest+" Chest:"), chest)
			fmt.Fprintln(out, "")

			m := st.Cycles.Monthly
			fmt.Fprintln(out, ui.H2.Render("Month "+m.MonthKey))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Points:"), m.Points)
			badge := ui.Muted.Render("none yet")
			if m.BadgeID != "" {
				badge = ui.IconBadge + " " + m.BadgeID
			}
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Badge:"), badge)
			if len(st.Cycles.BadgesUnlocked) > 0 {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("All badges:"), strings.Join(st.Cycles.BadgesUnlocked, ", "))
			}
			if len(st.Cycles.CosmeticInventory) > 0 {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Cosmetics:"), strings.Join(st.Cycles.CosmeticInventory, ", "))
			}
			fmt.Fprintln(out, "")

			y := st.Cycles.Yearly
			fmt.Fprintln(out, ui.H2.Render("Year "+y.YearKey))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Points:"), y.Points)
			relics := ui.Muted.Render("none yet")
			if len(y.RelicsUnlocked) > 0 {
				relics = ui.IconRelic + " " + strings.Join(y.RelicsUnlocked, ", ")
			}
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Relics:"), relics)
			if len(y.MilestonesClaimed) > 0 {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Milestones:"), strings.Join(y.MilestonesClaimed, ", "))
			}

			if len(st.Cycles.WeeklyArchives) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Past weeks"))
				archives := st.Cycles.WeeklyArchives
				for i := len(archives) - 1; i >= 0; i-- {
					a := archives[i]
					line := fmt.Sprintf("- %s score %d", a.WeekKey, a.Score)
					if a.ChestTierID != "" {
						line += ", chest " + a.ChestTierID
					}
					if a.BossDefeated {
						line += ", boss down"
					}
					fmt.Fprintln(out, ui.Muted.Render(line))
				}
			}
			return nil
		},
	}

	return cmd
}
