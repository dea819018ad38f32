package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Asside333/HabitHub/internal/ui"
)

func newChestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chest",
		Short: "Claim this week's chest reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ClaimWeeklyChest(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Applied {
				fmt.Fprintf(out, "%s chest: %s\n", ui.IconWarn, ui.ReasonText(res.Reason))
				return nil
			}
			fmt.Fprintf(out, "%s Opened the %s chest: +%d XP, +%d gold\n",
				ui.IconChest, ui.Key.Render(res.ChestTier), res.XPDelta, res.GoldDelta)
			if res.LevelUp != nil {
				fmt.Fprintf(out, "%s %s reached level %d (+%d gold)\n",
					ui.IconTrophy, ui.BadgeLevelUp, res.LevelUp.NewLevel, res.LevelUp.GoldBonus)
			}
			return nil
		},
	}

	return cmd
}
