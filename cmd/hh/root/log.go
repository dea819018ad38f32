package root

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/ui"
)

func newLogCmd() *cobra.Command {
	var limit int
	var archived bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent engine events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, store, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var events []engine.Event
			if archived {
				events, err = store.ArchivedEvents(ctx, limit)
				if err != nil {
					return err
				}
				// Archive query is newest first; flip to match the ring.
				for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
					events[i], events[j] = events[j], events[i]
				}
			} else {
				events = svc.RecentEvents(limit)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, "Event log"))
			if len(events) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, ev := range events {
				payload, _ := json.Marshal(ev.Payload)
				fmt.Fprintf(out, "%s %s %s\n",
					ui.Muted.Render(ev.Timestamp.Format("2006-01-02 15:04:05")),
					ui.Key.Render(ev.Type),
					ui.Dim.Render(string(payload)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events to show")
	cmd.Flags().BoolVar(&archived, "archive", false, "read from the durable archive instead of the in-save ring")
	return cmd
}
