package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

func newVacationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vacation [on|off]",
		Short: "Arm or disarm vacation mode for today",
		Long:  "Arming vacation mode consumes one vacation day and freezes tonight's\nstreak evaluation. Disarming does not refund the day.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("expected on or off")
			}
			if len(args) == 1 && args[0] != "on" && args[0] != "off" {
				return errors.New("expected on or off")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if err := svc.EnsureDailyProgress(ctx); err != nil {
					return err
				}
				st := svc.State()
				mode := ui.Muted.Render("off")
				if st.Daily.VacationMode {
					mode = ui.Good.Render("armed")
				}
				fmt.Fprintf(out, "%s %s  %s\n",
					ui.LabelValue(ui.IconBeach+" Vacation", mode),
					"",
					ui.Muted.Render(fmt.Sprintf("%d days remaining this year", st.Progress.VacationDaysRemaining)))
				return nil
			}

			res, err := svc.SetVacationMode(ctx, args[0] == "on")
			if err != nil {
				return err
			}
			if !res.Applied {
				fmt.Fprintf(out, "%s vacation: %s\n", ui.IconWarn, ui.ReasonText(res.Reason))
				return nil
			}
			if res.VacationMode {
				fmt.Fprintf(out, "%s Vacation armed for today. %d days remaining.\n", ui.IconBeach, res.DaysRemaining)
			} else {
				fmt.Fprintf(out, "%s Vacation disarmed. %d days remaining.\n", ui.IconBeach, res.DaysRemaining)
			}
			return nil
		},
	}

	return cmd
}
