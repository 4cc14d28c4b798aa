package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
	"github.com/telos-app/telos/internal/domain"
)

func newDoneCmd(app *App) *cobra.Command {
	var goalArg string
	var phase bool
	cmd := &cobra.Command{
		Use:   "done <node>",
		Short: "Mark an action (or, with --phase, a phase) completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			goal, err := resolveGoal(ctx, app, goalArg)
			if err != nil {
				return err
			}
			rm, node, err := resolveLeaf(ctx, app, goal.ID, args[0])
			if err != nil {
				return err
			}
			if phase {
				return completePhase(ctx, app, rm.ID, node)
			}
			return completeLeaf(ctx, app, rm.ID, node)
		},
	}
	cmd.Flags().StringVar(&goalArg, "goal", "", "goal the node belongs to")
	cmd.Flags().BoolVar(&phase, "phase", false, "complete a phase whose actions are all done")
	return cmd
}

func completeLeaf(ctx context.Context, app *App, roadmapID string, node *domain.RoadmapNode) error {
	result, err := app.Progress.CompleteLeaf(ctx, roadmapID, node.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", formatter.StyleGreen.Render("✔"), node.Title)
	fmt.Println(formatter.StreakLine(result.Counters))
	if result.Milestone != nil {
		fmt.Println(formatter.FormatMilestone(result.Milestone.Message))
	}
	if result.PhaseEligible && node.ParentID != nil {
		parent := result.Roadmap.FindNode(*node.ParentID)
		if parent != nil {
			fmt.Printf("Every action in %q is done. Close it out with `telos done --phase %s`.\n",
				parent.Title, formatter.ShortID(parent.ID))
		}
	}
	return nil
}

func completePhase(ctx context.Context, app *App, roadmapID string, node *domain.RoadmapNode) error {
	updated, err := app.Progress.CompletePhase(ctx, roadmapID, node.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s Phase %q completed.\n", formatter.StyleGreen.Render("✔"), node.Title)
	if updated.Status == domain.RoadmapCompleted {
		fmt.Println(formatter.FormatMilestone("The whole roadmap is complete. Look how far you've come."))
	}
	return nil
}
