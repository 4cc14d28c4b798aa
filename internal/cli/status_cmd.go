package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
	"github.com/telos-app/telos/internal/domain"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [goal]",
		Short: "Show progress, streaks, and your next action",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			goal, err := resolveGoal(ctx, app, firstArg(args))
			if err != nil {
				return err
			}

			rm, err := app.Roadmaps.ActiveRoadmap(ctx, goal.ID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			counters, err := app.Progress.Counters(ctx, goal.ID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			fmt.Println(formatter.FormatStatus(goal, rm, counters))
			return nil
		},
	}
}
