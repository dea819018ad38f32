package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/ui"
)

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's quests and progress",
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
			fmt.Fprintln(out, ui.Heading(ui.IconCalendar, "Today — "+svc.ActiveDate()))
			if st.Daily.VacationMode {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconBeach+" vacation mode armed, streak frozen tonight"))
			}
			fmt.Fprintf(out, "%s  %s\n",
				ui.LabelValue("Completed", st.Daily.ObjectivesCompleted),
				ui.LabelValue("Tier", ui.TierText(st.Daily.Tier)))

			xpUsed, goldUsed := svc.DailyRewardTotals("")
			fmt.Fprintf(out, "%s  %s\n",
				ui.LabelValue("XP today", xpUsed),
				ui.LabelValue("Gold today", goldUsed))
			fmt.Fprintln(out, "")

			for _, q := range svc.Config().VisibleQuests() {
				mark := ui.Muted.Render("☐")
				if svc.HasClaim(q.ID, "") {
					mark = ui.IconDone
				}
				xp, gold := engine.RewardPreview(svc.Config(), q)
				fmt.Fprintf(out, "%s %s %s %s\n",
					mark,
					ui.Key.Render(q.ID),
					q.Title,
					ui.Muted.Render(fmt.Sprintf("(+%d XP, +%d gold)", xp, gold)))
			}
			return nil
		},
	}

	return cmd
}
