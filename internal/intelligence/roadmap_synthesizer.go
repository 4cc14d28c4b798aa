package intelligence

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

// RoadmapSynthesizer generates, refines, and decomposes roadmap nodes. All
// three operations are single-attempt: one generation call, one parse
// attempt, one deterministic fallback. Callers needing resilience add retry
// above this layer.
type RoadmapSynthesizer interface {
	// Synthesize builds a full roadmap for a goal. Generation, parse, and
	// validation failures all route to the fixed fallback roadmap, so a
	// structurally valid roadmap always comes back.
	Synthesize(ctx context.Context, goal *domain.Goal, rootMotivation string, completedCount int) (*domain.Roadmap, error)

	// Refine produces a replacement for one node in the same slot. The
	// replacement always carries the original's OrderIndex and Category.
	Refine(ctx context.Context, node *domain.RoadmapNode, goal *domain.Goal, rootMotivation, feedback string) (*domain.RoadmapNode, error)

	// Decompose splits one node into 2-3 smaller sequential replacements
	// with contiguous OrderIndex values starting at the original's.
	Decompose(ctx context.Context, node *domain.RoadmapNode, goal *domain.Goal, rootMotivation string) ([]*domain.RoadmapNode, error)
}

type roadmapSynthesizer struct {
	client llm.Client
}

// NewRoadmapSynthesizer creates a RoadmapSynthesizer backed by a generation client.
func NewRoadmapSynthesizer(client llm.Client) RoadmapSynthesizer {
	return &roadmapSynthesizer{client: client}
}

// roadmapDraft is the JSON structure the model outputs for a whole roadmap.
type roadmapDraft struct {
	Title  string       `json:"title"`
	Phases []phaseDraft `json:"phases"`
}

type phaseDraft struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Actions     []actionDraft `json:"actions"`
}

// actionDraft is the JSON structure for a single leaf action, shared by
// synthesis, refinement, and decomposition.
type actionDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Tip         string `json:"tip"`
	DurationMin int    `json:"duration_minutes"`
	Category    string `json:"category"`
	OrderIndex  *int   `json:"order_index"`
}

func (s *roadmapSynthesizer) Synthesize(ctx context.Context, goal *domain.Goal, rootMotivation string, completedCount int) (*domain.Roadmap, error) {
	if goal == nil || goal.Statement == "" {
		return nil, fmt.Errorf("goal statement is required to synthesize a roadmap")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRoadmap,
		SystemPrompt: roadmapSystemPrompt,
		UserPrompt:   buildRoadmapPrompt(goal, rootMotivation, completedCount),
	})
	if err != nil {
		return DeterministicRoadmap(goal, rootMotivation), nil
	}

	draft, err := llm.ExtractJSON[roadmapDraft](resp.Text, nil)
	if err != nil {
		return DeterministicRoadmap(goal, rootMotivation), nil
	}

	rm := buildRoadmapFromDraft(draft, goal, rootMotivation)
	if len(rm.Phases) == 0 {
		return DeterministicRoadmap(goal, rootMotivation), nil
	}
	return rm, nil
}

// buildRoadmapFromDraft is the validation pass: clamp durations, normalize
// categories, repair order indexes, recompute phase durations, and drop
// anything unusable. A draft with no surviving phase yields an empty tree,
// which the caller swaps for the fallback roadmap.
func buildRoadmapFromDraft(draft roadmapDraft, goal *domain.Goal, rootMotivation string) *domain.Roadmap {
	now := time.Now().UTC()
	rm := &domain.Roadmap{
		ID:             uuid.New().String(),
		GoalID:         goal.ID,
		Title:          domain.CoalesceStr(draft.Title, fmt.Sprintf("Roadmap: %s", goal.Statement)),
		RootMotivation: rootMotivation,
		Status:         domain.RoadmapActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, pd := range draft.Phases {
		if pd.Title == "" {
			continue
		}
		phase := &domain.RoadmapNode{
			ID:          uuid.New().String(),
			Title:       pd.Title,
			Description: pd.Description,
			Category:    domain.CategoryPlanning,
		}
		pid := phase.ID
		leaves := validateActions(pd.Actions, &pid)
		if len(leaves) == 0 {
			// A phase without a single usable leaf is dropped entirely.
			continue
		}
		phase.Children = leaves
		phase.DurationMin = phase.TotalDuration()
		phase.OrderIndex = len(rm.Phases)
		rm.Phases = append(rm.Phases, phase)
	}
	return rm
}

// validateActions turns raw action drafts into ordered leaves: untitled
// entries are dropped, durations clamped into [2,15], unknown categories
// defaulted to action, and order indexes repaired into a contiguous run.
func validateActions(drafts []actionDraft, parentID *string) []*domain.RoadmapNode {
	type slot struct {
		node  *domain.RoadmapNode
		order int
		pos   int
	}
	var slots []slot

	for i, ad := range drafts {
		if ad.Title == "" {
			continue
		}
		category := domain.NodeCategory(ad.Category)
		if !domain.ValidCategories[ad.Category] {
			category = domain.CategoryAction
		}
		order := i
		if ad.OrderIndex != nil {
			order = *ad.OrderIndex
		}
		slots = append(slots, slot{
			node: &domain.RoadmapNode{
				ID:          uuid.New().String(),
				ParentID:    parentID,
				Title:       ad.Title,
				Description: ad.Description,
				Rationale:   ad.Rationale,
				Tip:         ad.Tip,
				DurationMin: domain.ClampInt(ad.DurationMin, domain.MinLeafDuration, domain.MaxLeafDuration),
				Category:    category,
			},
			order: order,
			pos:   i,
		})
	}

	// Stable sort by declared order, then rewrite as 0..n-1. Missing and
	// duplicated indexes both collapse to document order.
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].order < slots[j].order })
	leaves := make([]*domain.RoadmapNode, len(slots))
	for i, sl := range slots {
		sl.node.OrderIndex = i
		leaves[i] = sl.node
	}
	return leaves
}

func (s *roadmapSynthesizer) Refine(ctx context.Context, node *domain.RoadmapNode, goal *domain.Goal, rootMotivation, feedback string) (*domain.RoadmapNode, error) {
	if node == nil {
		return nil, fmt.Errorf("node is required to refine")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRefine,
		SystemPrompt: refineSystemPrompt,
		UserPrompt:   buildRefinePrompt(node, goal, rootMotivation, feedback),
	})
	if err != nil {
		return DeterministicRefinement(node), nil
	}

	ad, err := llm.ExtractJSON[actionDraft](resp.Text, func(a actionDraft) error {
		if a.Title == "" {
			return fmt.Errorf("title is required")
		}
		return nil
	})
	if err != nil {
		return DeterministicRefinement(node), nil
	}

	// Positional identity is preserved no matter what the model returned:
	// OrderIndex and Category always come from the original.
	return &domain.RoadmapNode{
		ID:          uuid.New().String(),
		ParentID:    node.ParentID,
		Title:       ad.Title,
		Description: ad.Description,
		Rationale:   ad.Rationale,
		Tip:         ad.Tip,
		DurationMin: domain.ClampInt(ad.DurationMin, domain.MinLeafDuration, domain.MaxLeafDuration),
		Category:    node.Category,
		OrderIndex:  node.OrderIndex,
	}, nil
}

func (s *roadmapSynthesizer) Decompose(ctx context.Context, node *domain.RoadmapNode, goal *domain.Goal, rootMotivation string) ([]*domain.RoadmapNode, error) {
	if node == nil {
		return nil, fmt.Errorf("node is required to decompose")
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskDecompose,
		SystemPrompt: decomposeSystemPrompt,
		UserPrompt:   buildDecomposePrompt(node, goal, rootMotivation),
	})
	if err != nil {
		return DeterministicDecomposition(node), nil
	}

	drafts, err := llm.ExtractJSONArray[actionDraft](resp.Text, func(as []actionDraft) error {
		usable := 0
		for _, a := range as {
			if a.Title != "" {
				usable++
			}
		}
		if usable < 2 {
			return fmt.Errorf("need at least 2 replacement actions, got %d", usable)
		}
		return nil
	})
	if err != nil {
		return DeterministicDecomposition(node), nil
	}

	// Replacement durations must stay strictly under the original's where
	// the 2-minute floor allows it.
	maxDuration := node.DurationMin - 1
	if maxDuration < domain.MinLeafDuration {
		maxDuration = domain.MinLeafDuration
	}

	var out []*domain.RoadmapNode
	for _, ad := range drafts {
		if ad.Title == "" {
			continue
		}
		if len(out) == 3 {
			break
		}
		category := domain.NodeCategory(ad.Category)
		if !domain.ValidCategories[ad.Category] {
			category = node.Category
		}
		out = append(out, &domain.RoadmapNode{
			ID:          uuid.New().String(),
			ParentID:    node.ParentID,
			Title:       ad.Title,
			Description: ad.Description,
			Rationale:   ad.Rationale,
			Tip:         ad.Tip,
			DurationMin: domain.ClampInt(ad.DurationMin, domain.MinLeafDuration, maxDuration),
			Category:    category,
			OrderIndex:  node.OrderIndex + len(out),
		})
	}
	return out, nil
}
