package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	var dateKey string

	cmd := &cobra.Command{
		Use:   "undo <quest-id>",
		Short: "Roll back a claimed quest reward",
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

			res, err := svc.RollbackClaim(ctx, args[0], dateKey)
			if err != nil {
				return err
			}
			printClaimResult(cmd, args[0], res)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateKey, "date", "", "roll back a specific day's claim (YYYY-MM-DD, default today)")
	return cmd
}
