package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// resolveGoal resolves a goal argument to a goal. An empty input resolves
// to the single active goal when there is exactly one; otherwise the input
// must be a UUID or unique UUID prefix.
func resolveGoal(ctx context.Context, app *App, input string) (*domain.Goal, error) {
	goals, err := app.Goals.List(ctx, false)
	if err != nil {
		return nil, err
	}

	if input == "" {
		switch len(goals) {
		case 0:
			return nil, fmt.Errorf("no goals yet; add one with `telos goal add \"<your dream>\"`")
		case 1:
			return goals[0], nil
		default:
			return nil, fmt.Errorf("multiple goals exist; name one by ID (see `telos goal list`)")
		}
	}

	var matches []*domain.Goal
	for _, g := range goals {
		if strings.HasPrefix(g.ID, input) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("no goal matches %q", input)
	default:
		return nil, fmt.Errorf("goal ID %q is ambiguous, use more characters", input)
	}
}

// resolveLeaf resolves a node argument to a leaf of the goal's active
// roadmap by UUID prefix.
func resolveLeaf(ctx context.Context, app *App, goalID, input string) (*domain.Roadmap, *domain.RoadmapNode, error) {
	rm, err := app.Roadmaps.ActiveRoadmap(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}

	var matches []*domain.RoadmapNode
	for _, phase := range rm.Phases {
		if strings.HasPrefix(phase.ID, input) {
			matches = append(matches, phase)
		}
		for _, leaf := range phase.Children {
			if strings.HasPrefix(leaf.ID, input) {
				matches = append(matches, leaf)
			}
		}
	}
	switch len(matches) {
	case 1:
		return rm, matches[0], nil
	case 0:
		return nil, nil, fmt.Errorf("no roadmap node matches %q", input)
	default:
		return nil, nil, fmt.Errorf("node ID %q is ambiguous, use more characters", input)
	}
}
