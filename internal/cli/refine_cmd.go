package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
	"github.com/telos-app/telos/internal/domain"
)

func newRefineCmd(app *App) *cobra.Command {
	var goalArg, feedback string
	cmd := &cobra.Command{
		Use:   "refine <node>",
		Short: "Swap an action for one that fits you better",
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

			updated, err := app.Roadmaps.RefineNode(ctx, rm.ID, node.ID, feedback)
			if err != nil {
				return err
			}

			replacement := findBySlot(updated, node.ParentID, node.OrderIndex)
			if replacement != nil {
				fmt.Println("Swapped in:")
				fmt.Println(formatter.FormatNodeDetail(replacement))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&goalArg, "goal", "", "goal the node belongs to")
	cmd.Flags().StringVar(&feedback, "feedback", "", "what didn't fit about the current action")
	return cmd
}

func newSplitCmd(app *App) *cobra.Command {
	var goalArg string
	cmd := &cobra.Command{
		Use:   "split <node>",
		Short: "Break an action into smaller pieces",
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

			before := countNodes(rm)
			updated, err := app.Roadmaps.DecomposeNode(ctx, rm.ID, node.ID)
			if err != nil {
				return err
			}
			added := countNodes(updated) - before + 1

			fmt.Printf("Split %q into %d smaller steps:\n", node.Title, added)
			fmt.Println(formatter.FormatRoadmap(updated))
			return nil
		},
	}
	cmd.Flags().StringVar(&goalArg, "goal", "", "goal the node belongs to")
	return cmd
}

// findBySlot returns the leaf occupying the given parent and order slot.
func findBySlot(rm *domain.Roadmap, parentID *string, orderIndex int) *domain.RoadmapNode {
	if parentID == nil {
		return nil
	}
	parent := rm.FindNode(*parentID)
	if parent == nil {
		return nil
	}
	for _, leaf := range parent.Children {
		if leaf.OrderIndex == orderIndex {
			return leaf
		}
	}
	return nil
}

func countNodes(rm *domain.Roadmap) int {
	n := len(rm.Phases)
	for _, p := range rm.Phases {
		n += len(p.Children)
	}
	return n
}
