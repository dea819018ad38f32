package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var withAudit bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, currencies, streak and caps",
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
			progress := svc.LevelProgress()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			fmt.Fprintf(out, "%s %s %s\n",
				ui.LabelValue("Level", progress.Level),
				ui.ProgressBar(progress.Ratio, 24),
				ui.Muted.Render(fmt.Sprintf("%d/%d XP (%d to go)", progress.XPIntoLevel, progress.XPNeeded, progress.XPRemaining)))
			fmt.Fprintf(out, "%s %d  %s %d  %s %d  %s %d\n",
				ui.Key.Render(ui.IconBolt+" XP:"), st.Currencies.XP,
				ui.Key.Render(ui.IconCoin+" Gold:"), st.Currencies.Gold,
				ui.Key.Render("Total XP:"), st.Currencies.TotalXP,
				ui.Key.Render(ui.IconTrophy+" Tokens:"), st.Currencies.Tokens)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconFire+" Streak"))
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render("Days:"), st.Progress.Streak)
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(ui.IconShield+" Shield:"), st.Progress.StreakShield)
			fmt.Fprintf(out, "- %s %d\n", ui.Key.Render(ui.IconBeach+" Vacation days left:"), st.Progress.VacationDaysRemaining)
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Last closed tier:"), ui.TierText(st.Progress.LastTier))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Today"))
			xpUsed, goldUsed := svc.DailyRewardTotals("")
			audit := svc.ComputeEconomyAudit()
			fmt.Fprintf(out, "- %s %s on %s\n", ui.Key.Render("Tier:"), ui.TierText(st.Daily.Tier), st.Daily.DateKey)
			fmt.Fprintf(out, "- %s %d completed\n", ui.Key.Render("Objectives:"), st.Daily.ObjectivesCompleted)
			fmt.Fprintf(out, "- %s %d/%d XP, %d gold\n", ui.Key.Render("Cap usage:"), xpUsed, audit.CapXPPerDay, goldUsed)

			if withAudit {
				fmt.Fprintln(out, "")
				printAudit(cmd, audit)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withAudit, "audit", false, "include the economy balance audit")
	return cmd
}

func printAudit(cmd *cobra.Command, audit engine.EconomyAudit) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.H2.Render("⚖️ Economy audit"))
	status := ui.Good.Render(string(audit.Status))
	if audit.Status != engine.AuditStable {
		status = ui.Warn.Render(string(audit.Status))
	}
	fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Pacing:"), status)
	fmt.Fprintf(out, "- %s %d XP (claimable today: %d)\n", ui.Key.Render("Catalog potential:"), audit.PotentialXP, audit.MaxXPToday)
	source := "daily cap"
	if audit.BasedOnAverage {
		source = "7-day average"
	}
	fmt.Fprintf(out, "- %s %.1f days to next level %s\n", ui.Key.Render("Estimate:"), audit.DaysToLevel, ui.Muted.Render("(based on "+source+")"))
	if audit.Status != engine.AuditStable {
		fmt.Fprintf(out, "- %s %d XP/day\n", ui.Key.Render("Suggested cap:"), audit.SuggestedCapXP)
	}
}
