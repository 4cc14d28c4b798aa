package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
)

func newRoadmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Generate and view your roadmap",
	}
	cmd.AddCommand(
		newRoadmapGenerateCmd(app),
		newRoadmapShowCmd(app),
	)
	return cmd
}

func newRoadmapGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [goal]",
		Short: "Synthesize a three-phase roadmap from your root motivation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			goal, err := resolveGoal(ctx, app, firstArg(args))
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.Synthesize(ctx, goal.ID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatRoadmap(rm))
			return nil
		},
	}
}

func newRoadmapShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [goal]",
		Short: "Show the active roadmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			goal, err := resolveGoal(ctx, app, firstArg(args))
			if err != nil {
				return err
			}
			rm, err := app.Roadmaps.ActiveRoadmap(ctx, goal.ID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatRoadmap(rm))
			return nil
		},
	}
}
