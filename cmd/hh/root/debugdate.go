package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

func newDebugDateCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "debug-date [YYYY-MM-DD]",
		Short: "Pin the active date for testing",
		Long:  "Pins the engine's notion of today, persisted in the save. Useful for\nsimulating streaks and cycle rollovers. Use --clear to go back to real time.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("expected a single date")
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
			switch {
			case clear:
				if err := svc.SetDebugDate(ctx, ""); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Debug date cleared, active date is %s\n", ui.IconInfo, svc.ActiveDate())
			case len(args) == 1:
				if err := svc.SetDebugDate(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Active date pinned to %s\n", ui.IconCalendar, ui.Key.Render(args[0]))
			default:
				st := svc.State()
				if st.Debug.UseDebugDate {
					fmt.Fprintf(out, "%s Pinned to %s\n", ui.IconCalendar, ui.Key.Render(st.Debug.DebugDate))
				} else {
					fmt.Fprintf(out, "%s Using real time (%s)\n", ui.IconInfo, svc.ActiveDate())
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove the pinned date")
	return cmd
}
