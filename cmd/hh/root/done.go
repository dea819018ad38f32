package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/engine"
	"github.com/Asside333/HabitHub/internal/ui"
)

func newDoneCmd() *cobra.Command {
	var dateKey string

	cmd := &cobra.Command{
		Use:   "done <quest-id>",
		Short: "Claim a quest's reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest id is required")
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

			res, err := svc.ClaimReward(ctx, args[0], dateKey)
			if err != nil {
				return err
			}
			printClaimResult(cmd, args[0], res)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateKey, "date", "", "claim for a specific day (YYYY-MM-DD, default today)")
	return cmd
}

func printClaimResult(cmd *cobra.Command, actionID string, res engine.ClaimResult) {
	out := cmd.OutOrStdout()
	if !res.Applied {
		fmt.Fprintf(out, "%s %s: %s\n", ui.IconWarn, actionID, ui.ReasonText(res.Reason))
		return
	}
	fmt.Fprintf(out, "%s %s: %+d XP, %+d gold (%s)\n",
		ui.IconSparkle, ui.Key.Render(actionID), res.XPDelta, res.GoldDelta, ui.ReasonText(res.Reason))
	if res.LevelUp != nil {
		fmt.Fprintf(out, "%s %s reached level %d (+%d gold)\n",
			ui.IconTrophy, ui.BadgeLevelUp, res.LevelUp.NewLevel, res.LevelUp.GoldBonus)
	}
}
