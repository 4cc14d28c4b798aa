package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

// journeyScript answers every discovery turn, the motivation synthesis, and
// the roadmap generation in order.
func journeyScript() []string {
	return []string{
		"What pulls you toward this dream right now?",
		"How would finishing it feel, day to day?\nThat sounds meaningful.",
		"Who would you become along the way?",
		"Which of your values does this serve?",
		"What is underneath all of that for you?",
		"You long to make something lasting with your own hands.",
		`{"title":"The Maker's Path","phases":[
			{"title":"Begin","description":"first steps","actions":[
				{"title":"Clear a corner to work in","duration_minutes":10,"category":"action","order_index":0},
				{"title":"List three things to make","duration_minutes":5,"category":"planning","order_index":1}]},
			{"title":"Build","actions":[
				{"title":"Make the simplest version","duration_minutes":15,"category":"action","order_index":0},
				{"title":"Note what felt good","duration_minutes":3,"category":"reflection","order_index":1}]},
			{"title":"Share","actions":[
				{"title":"Show one person","duration_minutes":5,"category":"connection","order_index":0},
				{"title":"Ask for one reaction","duration_minutes":5,"category":"connection","order_index":1}]}]}`,
	}
}

func TestJourney_GoalToMilestone(t *testing.T) {
	h := newHarness(t, &scriptedClient{responses: journeyScript()})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Build furniture by hand", "creative")
	require.NoError(t, err)

	session := runDiscovery(t, h, goal.ID)
	assert.Equal(t, "You long to make something lasting with your own hands.", session.RootMotivation)

	rm, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Maker's Path", rm.Title)
	assert.Equal(t, session.RootMotivation, rm.RootMotivation)
	require.Len(t, rm.Phases, 3)

	counters, err := h.progress.Counters(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, counters.TotalActions, "counters are seeded with the leaf count")
	assert.Equal(t, 0, counters.CompletedActions)

	// First completion lands the first milestone.
	first := rm.Phases[0].Children[0]
	result, err := h.progress.CompleteLeaf(ctx, rm.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, result.PhaseEligible)
	assert.Equal(t, 1, result.Counters.CompletedActions)
	assert.Equal(t, 1, result.Counters.CurrentStreak)
	require.NotNil(t, result.Milestone)
	assert.Equal(t, 1, result.Milestone.Count)

	// Second completion closes out the phase's actions.
	second := rm.Phases[0].Children[1]
	result, err = h.progress.CompleteLeaf(ctx, rm.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, result.PhaseEligible)
	assert.Nil(t, result.Milestone)

	updated, err := h.progress.CompletePhase(ctx, rm.ID, rm.Phases[0].ID)
	require.NoError(t, err)
	assert.True(t, updated.Phases[0].IsCompleted)
	assert.Equal(t, domain.RoadmapActive, updated.Status)

	// Finish everything; the roadmap completes with the last phase.
	for _, phase := range updated.Phases[1:] {
		for _, leaf := range phase.Children {
			_, err := h.progress.CompleteLeaf(ctx, rm.ID, leaf.ID)
			require.NoError(t, err)
		}
		updated, err = h.progress.CompletePhase(ctx, rm.ID, phase.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, domain.RoadmapCompleted, updated.Status)

	counters, err = h.progress.Counters(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, counters.CompletedActions)
	assert.Equal(t, 6, counters.CurrentStreak)
	assert.Equal(t, 6, counters.LongestStreak)
}

func TestJourney_SurvivesGenerationOutage(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Build furniture by hand", "creative")
	require.NoError(t, err)

	session := runDiscovery(t, h, goal.ID)
	assert.Contains(t, session.RootMotivation, "Build furniture by hand",
		"fallback motivation names the dream")

	rm, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, rm.Phases, 3, "fallback roadmap still has three phases")

	leaf := rm.Phases[0].Children[0]
	result, err := h.progress.CompleteLeaf(ctx, rm.ID, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counters.CompletedActions)
}

func TestDiscovery_OneActiveSessionPerGoal(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Run a marathon", "health")
	require.NoError(t, err)

	first, err := h.discovery.StartDiscovery(ctx, goal.ID)
	require.NoError(t, err)

	_, err = h.discovery.StartDiscovery(ctx, goal.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.discovery.Abandon(ctx, first.ID)
	require.NoError(t, err)

	_, err = h.discovery.StartDiscovery(ctx, goal.ID)
	require.NoError(t, err, "abandoning frees the goal for a new interview")
}

func TestSynthesize_RequiresCompletedDiscovery(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Run a marathon", "health")
	require.NoError(t, err)

	_, err = h.roadmaps.Synthesize(ctx, goal.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSynthesize_ArchivesPreviousRoadmap(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Run a marathon", "health")
	require.NoError(t, err)
	runDiscovery(t, h, goal.ID)

	first, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)
	second, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)

	active, err := h.roadmaps.ActiveRoadmap(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := h.roadmaps.GetRoadmap(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoadmapArchived, old.Status)
}

func TestRefineNode_ReplacesSlotInTree(t *testing.T) {
	script := append(journeyScript(),
		`{"title":"A softer first step","description":"ease in","duration_minutes":4,"category":"research","order_index":9}`)
	h := newHarness(t, &scriptedClient{responses: script})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Build furniture by hand", "creative")
	require.NoError(t, err)
	runDiscovery(t, h, goal.ID)
	rm, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)

	target := rm.Phases[0].Children[0]
	updated, err := h.roadmaps.RefineNode(ctx, rm.ID, target.ID, "too intimidating")
	require.NoError(t, err)

	assert.Nil(t, updated.FindNode(target.ID))
	replacement := updated.Phases[0].Children[0]
	assert.Equal(t, "A softer first step", replacement.Title)
	assert.Equal(t, target.OrderIndex, replacement.OrderIndex)
	assert.Equal(t, target.Category, replacement.Category, "slot category sticks despite the model's output")

	// The edit is persisted, not just returned.
	reloaded, err := h.roadmaps.GetRoadmap(ctx, rm.ID)
	require.NoError(t, err)
	assert.Equal(t, "A softer first step", reloaded.Phases[0].Children[0].Title)
}

func TestDecomposeNode_GrowsTreeAndCounters(t *testing.T) {
	script := append(journeyScript(),
		`[{"title":"Part one","duration_minutes":5},{"title":"Part two","duration_minutes":5}]`)
	h := newHarness(t, &scriptedClient{responses: script})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Build furniture by hand", "creative")
	require.NoError(t, err)
	runDiscovery(t, h, goal.ID)
	rm, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)

	target := rm.Phases[1].Children[0]
	updated, err := h.roadmaps.DecomposeNode(ctx, rm.ID, target.ID)
	require.NoError(t, err)

	require.Len(t, updated.Phases[1].Children, 3)
	assert.Equal(t, "Part one", updated.Phases[1].Children[0].Title)
	assert.Equal(t, "Part two", updated.Phases[1].Children[1].Title)
	for i, leaf := range updated.Phases[1].Children {
		assert.Equal(t, i, leaf.OrderIndex)
	}

	counters, err := h.progress.Counters(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, counters.TotalActions, "decompose adds a net action")
}

func TestRoadmapEdits_RejectInvalidTargets(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	goal, err := h.goals.Create(ctx, "Build furniture by hand", "creative")
	require.NoError(t, err)
	runDiscovery(t, h, goal.ID)
	rm, err := h.roadmaps.Synthesize(ctx, goal.ID)
	require.NoError(t, err)

	_, err = h.roadmaps.RefineNode(ctx, rm.ID, rm.Phases[0].ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "phases cannot be refined")

	_, err = h.roadmaps.DecomposeNode(ctx, rm.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	leaf := rm.Phases[0].Children[0]
	_, err = h.progress.CompleteLeaf(ctx, rm.ID, leaf.ID)
	require.NoError(t, err)
	_, err = h.roadmaps.RefineNode(ctx, rm.ID, leaf.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "completed actions are immutable")

	_, err = h.progress.CompleteLeaf(ctx, rm.ID, leaf.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "double completion is rejected")
}
