package intelligence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

func draftJSON(t *testing.T, draft roadmapDraft) string {
	t.Helper()
	data, err := json.Marshal(draft)
	require.NoError(t, err)
	return string(data)
}

func validDraft() roadmapDraft {
	var phases []phaseDraft
	titles := []string{"Explore the Craft", "Make and Share", "Open for Business"}
	for _, title := range titles {
		var actions []actionDraft
		for i := 0; i < 4; i++ {
			idx := i
			actions = append(actions, actionDraft{
				Title:       title + " step",
				Description: "do the thing",
				DurationMin: 10,
				Category:    "action",
				OrderIndex:  &idx,
			})
		}
		phases = append(phases, phaseDraft{Title: title, Description: "a phase", Actions: actions})
	}
	return roadmapDraft{Title: "Pottery Roadmap", Phases: phases}
}

func assertStructurallyValid(t *testing.T, rm *domain.Roadmap) {
	t.Helper()
	require.NotEmpty(t, rm.Phases)
	for pi, phase := range rm.Phases {
		assert.Equal(t, pi, phase.OrderIndex)
		assert.Nil(t, phase.ParentID)
		require.NotEmpty(t, phase.Children)
		sum := 0
		for ci, leaf := range phase.Children {
			assert.Equal(t, ci, leaf.OrderIndex, "sibling order must be contiguous 0..n-1")
			require.NotNil(t, leaf.ParentID)
			assert.Equal(t, phase.ID, *leaf.ParentID)
			assert.GreaterOrEqual(t, leaf.DurationMin, domain.MinLeafDuration)
			assert.LessOrEqual(t, leaf.DurationMin, domain.MaxLeafDuration)
			assert.True(t, domain.ValidCategories[string(leaf.Category)])
			sum += leaf.DurationMin
		}
		assert.Equal(t, sum, phase.DurationMin, "phase duration is the sum of its children")
	}
}

func TestSynthesize_ValidDraft(t *testing.T) {
	client := &mockClient{response: draftJSON(t, validDraft())}
	synth := NewRoadmapSynthesizer(client)

	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "root motivation", 0)
	require.NoError(t, err)

	assert.Equal(t, "Pottery Roadmap", rm.Title)
	assert.Equal(t, "root motivation", rm.RootMotivation)
	assert.Equal(t, domain.RoadmapActive, rm.Status)
	assert.Len(t, rm.Phases, 3)
	assertStructurallyValid(t, rm)
	assert.Equal(t, llm.TaskRoadmap, client.lastReq.Task)
}

func TestSynthesize_ClampsDurationsAndDefaultsCategory(t *testing.T) {
	draft := validDraft()
	draft.Phases[0].Actions[0].DurationMin = 120
	draft.Phases[0].Actions[1].DurationMin = 0
	draft.Phases[0].Actions[2].Category = "sorcery"
	draft.Phases[0].Actions[3].Category = ""

	synth := NewRoadmapSynthesizer(&mockClient{response: draftJSON(t, draft)})
	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "", 0)
	require.NoError(t, err)

	leaves := rm.Phases[0].Children
	assert.Equal(t, domain.MaxLeafDuration, leaves[0].DurationMin)
	assert.Equal(t, domain.MinLeafDuration, leaves[1].DurationMin)
	assert.Equal(t, domain.CategoryAction, leaves[2].Category)
	assert.Equal(t, domain.CategoryAction, leaves[3].Category)
	assertStructurallyValid(t, rm)
}

func TestSynthesize_RepairsDuplicateAndMissingOrder(t *testing.T) {
	draft := validDraft()
	dup := 2
	draft.Phases[1].Actions[0].OrderIndex = &dup
	draft.Phases[1].Actions[1].OrderIndex = &dup
	draft.Phases[1].Actions[2].OrderIndex = nil
	draft.Phases[1].Actions[3].OrderIndex = nil

	synth := NewRoadmapSynthesizer(&mockClient{response: draftJSON(t, draft)})
	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "", 0)
	require.NoError(t, err)

	assertStructurallyValid(t, rm)
}

func TestSynthesize_FallbackOnGeneratorFailure(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{err: llm.ErrUnavailable})

	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "the root", 0)
	require.NoError(t, err)

	assert.Len(t, rm.Phases, 3, "fallback roadmap has exactly 3 phases")
	for _, phase := range rm.Phases {
		assert.GreaterOrEqual(t, len(phase.Children), 4)
	}
	assert.Equal(t, "the root", rm.RootMotivation)
	assertStructurallyValid(t, rm)
}

func TestSynthesize_FallbackOnMalformedOutput(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{response: "I'm sorry, I can't produce JSON today."})

	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "", 3)
	require.NoError(t, err)
	assertStructurallyValid(t, rm)
}

func TestSynthesize_FallbackWhenNoUsablePhase(t *testing.T) {
	draft := roadmapDraft{
		Title: "Empty",
		Phases: []phaseDraft{
			{Title: "No actions here"},
			{Title: "", Actions: []actionDraft{{Title: "orphan", DurationMin: 5}}},
			{Title: "Only untitled actions", Actions: []actionDraft{{Title: ""}}},
		},
	}
	synth := NewRoadmapSynthesizer(&mockClient{response: draftJSON(t, draft)})

	rm, err := synth.Synthesize(context.Background(), potteryGoal(), "", 0)
	require.NoError(t, err)
	assert.Len(t, rm.Phases, 3, "validation that yields zero phases falls back")
	assertStructurallyValid(t, rm)
}

func TestSynthesize_ProgressionBandShapesToneOnly(t *testing.T) {
	client := &mockClient{response: draftJSON(t, validDraft())}
	synth := NewRoadmapSynthesizer(client)

	_, err := synth.Synthesize(context.Background(), potteryGoal(), "", 0)
	require.NoError(t, err)
	gentle := client.lastReq.UserPrompt

	_, err = synth.Synthesize(context.Background(), potteryGoal(), "", 50)
	require.NoError(t, err)
	bold := client.lastReq.UserPrompt

	assert.NotEqual(t, gentle, bold)
	assert.Contains(t, gentle, "gentle")
	assert.Contains(t, bold, "ambitious")
}

func refineTarget() *domain.RoadmapNode {
	pid := "phase-1"
	return &domain.RoadmapNode{
		ID:          "leaf-1",
		ParentID:    &pid,
		Title:       "Cold-call ten pottery shops",
		DurationMin: 15,
		Category:    domain.CategoryConnection,
		OrderIndex:  3,
	}
}

func TestRefine_PreservesSlotIdentity(t *testing.T) {
	client := &mockClient{response: `{"title":"Email one pottery shop you admire","description":"one short note","duration_minutes":8,"category":"research","order_index":0}`}
	synth := NewRoadmapSynthesizer(client)
	original := refineTarget()

	replacement, err := synth.Refine(context.Background(), original, potteryGoal(), "root", "calling strangers terrifies me")
	require.NoError(t, err)

	assert.Equal(t, "Email one pottery shop you admire", replacement.Title)
	assert.Equal(t, original.OrderIndex, replacement.OrderIndex, "generator output never overrides the slot")
	assert.Equal(t, original.Category, replacement.Category, "generator output never overrides the category")
	assert.Equal(t, 8, replacement.DurationMin)
	assert.NotEqual(t, original.ID, replacement.ID)
	assert.Contains(t, client.lastReq.UserPrompt, "calling strangers terrifies me")
}

func TestRefine_NoFeedbackAsksForGentler(t *testing.T) {
	client := &mockClient{response: `{"title":"x","duration_minutes":5}`}
	synth := NewRoadmapSynthesizer(client)

	_, err := synth.Refine(context.Background(), refineTarget(), potteryGoal(), "", "")
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.UserPrompt, "gentler, more approachable")
}

func TestRefine_FallbackKeepsSlot(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{err: llm.ErrTimeout})
	original := refineTarget()

	replacement, err := synth.Refine(context.Background(), original, potteryGoal(), "", "")
	require.NoError(t, err)

	assert.Equal(t, original.OrderIndex, replacement.OrderIndex)
	assert.Equal(t, original.Category, replacement.Category)
	assert.Contains(t, replacement.Title, original.Title)
	assert.LessOrEqual(t, replacement.DurationMin, original.DurationMin)
}

func TestRefine_FallbackOnUnparseableOutput(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{response: "no json here"})
	original := refineTarget()

	replacement, err := synth.Refine(context.Background(), original, potteryGoal(), "", "")
	require.NoError(t, err)
	assert.Equal(t, original.OrderIndex, replacement.OrderIndex)
	assert.Equal(t, original.Category, replacement.Category)
}

func TestDecompose_AssignsSequentialOrder(t *testing.T) {
	client := &mockClient{response: `[
		{"title":"List five shops","duration_minutes":5,"category":"research"},
		{"title":"Draft a short intro message","duration_minutes":6},
		{"title":"Send it to one shop","duration_minutes":4,"category":"connection"}
	]`}
	synth := NewRoadmapSynthesizer(client)
	original := refineTarget()

	reps, err := synth.Decompose(context.Background(), original, potteryGoal(), "root")
	require.NoError(t, err)

	require.Len(t, reps, 3)
	for i, rep := range reps {
		assert.Equal(t, original.OrderIndex+i, rep.OrderIndex)
		assert.Less(t, rep.DurationMin, original.DurationMin, "replacements are strictly shorter")
	}
	assert.Equal(t, domain.CategoryResearch, reps[0].Category)
	assert.Equal(t, original.Category, reps[1].Category, "missing category inherits the original's")
}

func TestDecompose_ClampsOverlongReplacements(t *testing.T) {
	client := &mockClient{response: `[
		{"title":"a","duration_minutes":40},
		{"title":"b","duration_minutes":15}
	]`}
	synth := NewRoadmapSynthesizer(client)
	original := refineTarget() // 15 minutes

	reps, err := synth.Decompose(context.Background(), original, potteryGoal(), "")
	require.NoError(t, err)

	require.Len(t, reps, 2)
	for _, rep := range reps {
		assert.Less(t, rep.DurationMin, original.DurationMin)
	}
}

func TestDecompose_FallbackOnSingleReplacement(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{response: `[{"title":"only one","duration_minutes":5}]`})
	original := refineTarget()

	reps, err := synth.Decompose(context.Background(), original, potteryGoal(), "")
	require.NoError(t, err)

	require.Len(t, reps, 2, "fewer than two usable replacements falls back to the fixed pair")
	assert.Equal(t, original.OrderIndex, reps[0].OrderIndex)
	assert.Equal(t, original.OrderIndex+1, reps[1].OrderIndex)
	for _, rep := range reps {
		assert.Equal(t, original.Category, rep.Category)
		assert.Less(t, rep.DurationMin, original.DurationMin)
	}
}

func TestDecompose_FallbackOnGeneratorFailure(t *testing.T) {
	synth := NewRoadmapSynthesizer(&mockClient{err: llm.ErrUnavailable})
	original := refineTarget()

	reps, err := synth.Decompose(context.Background(), original, potteryGoal(), "")
	require.NoError(t, err)
	require.Len(t, reps, 2)
}

func TestDecompose_CapsAtThreeReplacements(t *testing.T) {
	client := &mockClient{response: `[
		{"title":"a","duration_minutes":3},{"title":"b","duration_minutes":3},
		{"title":"c","duration_minutes":3},{"title":"d","duration_minutes":3}
	]`}
	synth := NewRoadmapSynthesizer(client)

	reps, err := synth.Decompose(context.Background(), refineTarget(), potteryGoal(), "")
	require.NoError(t, err)
	assert.Len(t, reps, 3)
}
