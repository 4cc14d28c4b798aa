package intelligence

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telos-app/telos/internal/domain"
)

// fallbackPhase describes one hand-authored phase of the fallback roadmap.
type fallbackPhase struct {
	title       string
	description string
	actions     []fallbackAction
}

type fallbackAction struct {
	title       string
	description string
	rationale   string
	tip         string
	duration    int
	category    domain.NodeCategory
}

// fallbackPhases is the fixed three-phase roadmap used when generation is
// unavailable or produced nothing usable. Deliberately generic so it fits
// any dream; the titles reference the goal at build time.
var fallbackPhases = []fallbackPhase{
	{
		title:       "Find Your Footing",
		description: "Get oriented and lower the stakes of starting.",
		actions: []fallbackAction{
			{"Write down why this dream matters to you", "Three honest sentences, just for yourself.", "Naming the why makes the first step lighter.", "Keep the note somewhere you will see it.", 5, domain.CategoryReflection},
			{"List three people already doing something like this", "Names only, no outreach yet.", "Proof that the path exists shrinks the fear.", "Social profiles and local groups count.", 10, domain.CategoryResearch},
			{"Note one thing you already know how to do for this", "One skill or resource you can build on.", "Starting from strength beats starting from zero.", "Past hobbies and jobs count more than you think.", 5, domain.CategoryReflection},
			{"Pick a tiny corner of the dream to explore first", "One slice small enough to touch this week.", "A narrow start is a start; a broad plan is a delay.", "Smaller than feels reasonable is about right.", 8, domain.CategoryPlanning},
		},
	},
	{
		title:       "Build Momentum",
		description: "Turn curiosity into a small repeatable practice.",
		actions: []fallbackAction{
			{"Spend ten minutes on the smallest version of the work", "Do the thing, badly, for ten minutes.", "Contact with the real work beats research.", "Set a timer and stop when it rings.", 10, domain.CategoryAction},
			{"Write down what surprised you about doing it", "Two sentences on what was easier or harder.", "Noticing beats judging at this stage.", "Surprises point at what to try next.", 4, domain.CategoryReflection},
			{"Do the ten-minute version a second time", "Same task, one small improvement.", "Repetition is what makes it feel normal.", "Change only one thing from last time.", 10, domain.CategoryAction},
			{"Sketch what a weekly rhythm could look like", "Which days, which minutes, which corner of the dream.", "A loose rhythm protects the habit from busy weeks.", "Anchor it to something you already do daily.", 8, domain.CategoryPlanning},
		},
	},
	{
		title:       "Step Into the World",
		description: "Let the dream make contact with other people.",
		actions: []fallbackAction{
			{"Tell one trusted person what you are working toward", "One message or one conversation.", "A dream said out loud starts holding you to it.", "Pick someone who roots for you.", 5, domain.CategoryConnection},
			{"Find one community around this dream", "One forum, group, or meetup worth lurking in.", "Ambient contact with peers keeps the pull alive.", "Lurking counts; posting can come later.", 10, domain.CategoryResearch},
			{"Share one small piece of what you have done", "Show the rough version to one person or group.", "Feedback on something real beats polish in private.", "Rough is persuasive; perfect is invisible.", 10, domain.CategoryConnection},
			{"Write down your next tiny step and when it happens", "One step, one day, one time.", "Momentum survives on scheduled smallness.", "If it takes over fifteen minutes, shrink it.", 5, domain.CategoryPlanning},
		},
	},
}

// DeterministicRoadmap builds the fixed fallback roadmap for a goal. This
// path must never fail: it is the floor under every synthesis attempt.
func DeterministicRoadmap(goal *domain.Goal, rootMotivation string) *domain.Roadmap {
	now := time.Now().UTC()
	rm := &domain.Roadmap{
		ID:             uuid.New().String(),
		GoalID:         goal.ID,
		Title:          fmt.Sprintf("First Steps: %s", goal.Statement),
		RootMotivation: rootMotivation,
		Status:         domain.RoadmapActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for pi, fp := range fallbackPhases {
		phase := &domain.RoadmapNode{
			ID:          uuid.New().String(),
			Title:       fp.title,
			Description: fp.description,
			Category:    domain.CategoryPlanning,
			OrderIndex:  pi,
		}
		pid := phase.ID
		for ai, fa := range fp.actions {
			phase.Children = append(phase.Children, &domain.RoadmapNode{
				ID:          uuid.New().String(),
				ParentID:    &pid,
				Title:       fa.title,
				Description: fa.description,
				Rationale:   fa.rationale,
				Tip:         fa.tip,
				DurationMin: fa.duration,
				Category:    fa.category,
				OrderIndex:  ai,
			})
		}
		phase.DurationMin = phase.TotalDuration()
		rm.Phases = append(rm.Phases, phase)
	}
	return rm
}

// DeterministicRefinement builds the fixed gentler replacement for a node,
// carrying the original's slot identity.
func DeterministicRefinement(original *domain.RoadmapNode) *domain.RoadmapNode {
	duration := domain.ClampInt(original.DurationMin, domain.MinLeafDuration, 5)
	return &domain.RoadmapNode{
		ID:          uuid.New().String(),
		ParentID:    original.ParentID,
		Title:       fmt.Sprintf("Take one small step toward: %s", original.Title),
		Description: "Do only the easiest part, just to get moving.",
		Rationale:   "A gentler version of a step you hesitated on keeps the streak alive.",
		Tip:         "Lower the bar until the step feels almost too easy.",
		DurationMin: duration,
		Category:    original.Category,
		OrderIndex:  original.OrderIndex,
	}
}

// DeterministicDecomposition builds the two fixed smaller leaves used when
// decomposition generation fails. Durations stay strictly under the
// original's where the floor allows.
func DeterministicDecomposition(original *domain.RoadmapNode) []*domain.RoadmapNode {
	half := domain.ClampInt(original.DurationMin/2, domain.MinLeafDuration, domain.MaxLeafDuration)
	return []*domain.RoadmapNode{
		{
			ID:          uuid.New().String(),
			ParentID:    original.ParentID,
			Title:       fmt.Sprintf("Prepare for: %s", original.Title),
			Description: "Lay out everything the step needs so starting is frictionless.",
			Tip:         "Preparation counts as progress.",
			DurationMin: half,
			Category:    original.Category,
			OrderIndex:  original.OrderIndex,
		},
		{
			ID:          uuid.New().String(),
			ParentID:    original.ParentID,
			Title:       fmt.Sprintf("Do the first part of: %s", original.Title),
			Description: "Begin the step and stop guilt-free at the halfway mark.",
			Tip:         "Half a step done today beats a whole step postponed.",
			DurationMin: half,
			Category:    original.Category,
			OrderIndex:  original.OrderIndex + 1,
		},
	}
}
