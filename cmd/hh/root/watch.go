package root

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

func newWatchCmd() *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the day-boundary daemon",
		Long:  "Keeps a process alive that closes out each day at midnight: streak\nevaluation, weekly rollup and cycle resets happen without opening the CLI.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			log := newLogger()
			if err := svc.HandleDayChange(ctx); err != nil {
				return err
			}
			log.WithField("date", svc.ActiveDate()).Info("day pipeline up to date")

			c := cron.New()
			_, err = c.AddFunc(schedule, func() {
				if err := svc.HandleDayChange(ctx); err != nil {
					log.WithError(err).Error("day change failed")
					return
				}
				log.WithFields(map[string]any{
					"date":   svc.ActiveDate(),
					"streak": svc.State().Progress.Streak,
				}).Info("day closed")
			})
			if err != nil {
				return fmt.Errorf("schedule %q: %w", schedule, err)
			}

			c.Start()
			defer c.Stop()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconCalendar, "Watching for day changes (ctrl+c to stop)"))
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "0 0 * * *", "cron schedule for the day-boundary check")
	return cmd
}
