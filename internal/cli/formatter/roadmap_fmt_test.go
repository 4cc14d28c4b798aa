package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/telos-app/telos/internal/testutil"
)

func TestFormatRoadmap(t *testing.T) {
	rm := testutil.NewTestRoadmap("goal-1", testutil.WithPhaseShape(2, 1))
	rm.Phases[0].Children[0].IsCompleted = true

	out := FormatRoadmap(rm)

	assert.Contains(t, out, "TEST ROADMAP")
	assert.Contains(t, out, "a test motivation")
	assert.Contains(t, out, "Phase 1:")
	assert.Contains(t, out, "Phase 2:")
	assert.Contains(t, out, "Action 1.1")
	assert.Contains(t, out, "✔", "completed actions carry a check mark")
	assert.Contains(t, out, "10m")
}

func TestNextAction(t *testing.T) {
	rm := testutil.NewTestRoadmap("goal-1", testutil.WithPhaseShape(2, 2))
	rm.Phases[0].Children[0].IsCompleted = true

	next := NextAction(rm)
	assert.Equal(t, rm.Phases[0].Children[1].ID, next.ID)

	for _, p := range rm.Phases {
		for _, c := range p.Children {
			c.IsCompleted = true
		}
	}
	assert.Nil(t, NextAction(rm))
}

func TestRenderProgress(t *testing.T) {
	out := RenderProgress(0.5, 10)
	assert.Contains(t, out, "50%")
	assert.Equal(t, 5, strings.Count(out, filledBlock))
	assert.Equal(t, 5, strings.Count(out, emptyBlock))

	assert.Contains(t, RenderProgress(-1, 10), "  0%")
	assert.Contains(t, RenderProgress(2, 10), "100%")
}

func TestRenderTree_Alignment(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Phase", Badge: "~30m"},
		{Title: "Leaf one", Level: 1, Badge: "10m"},
		{Title: "Last leaf", Level: 1, IsLast: true},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], treeBranch)
	assert.Contains(t, lines[2], treeCorner)
}
