package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telos-app/telos/internal/llm"
)

func TestGoalService_Create(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	g, err := h.goals.Create(ctx, "  Sail across the Atlantic  ", "Learning")
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Sail across the Atlantic", g.Statement)
	assert.Equal(t, "learning", g.DomainTag, "tags are normalized to lower case")

	got, err := h.goals.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Statement, got.Statement)
}

func TestGoalService_CreateRejectsBadInput(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	_, err := h.goals.Create(ctx, "   ", "")
	assert.Error(t, err)

	_, err = h.goals.Create(ctx, "Learn glassblowing", "wizardry")
	assert.Error(t, err)
}

func TestGoalService_Update(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	g, err := h.goals.Create(ctx, "Sail across the Atlantic", "learning")
	require.NoError(t, err)

	g.Statement = "  Sail across the Pacific  "
	g.DomainTag = "Health"
	require.NoError(t, h.goals.Update(ctx, g))

	got, err := h.goals.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sail across the Pacific", got.Statement)
	assert.Equal(t, "health", got.DomainTag)

	g.Statement = "   "
	assert.Error(t, h.goals.Update(ctx, g))
}

func TestGoalService_ArchiveBlocksDiscovery(t *testing.T) {
	h := newHarness(t, &scriptedClient{err: llm.ErrUnavailable})
	ctx := context.Background()

	g, err := h.goals.Create(ctx, "Learn glassblowing", "creative")
	require.NoError(t, err)
	require.NoError(t, h.goals.Archive(ctx, g.ID))

	_, err = h.discovery.StartDiscovery(ctx, g.ID)
	assert.Error(t, err)
}
