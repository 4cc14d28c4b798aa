package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/intelligence"
	"github.com/telos-app/telos/internal/llm"
	"github.com/telos-app/telos/internal/repository"
	"github.com/telos-app/telos/internal/testutil"
)

// scriptedClient is a test LLM client that replies from a queue, or fails
// every call when err is set.
type scriptedClient struct {
	responses []string
	err       error
	calls     int
}

func (c *scriptedClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if len(c.responses) == 0 {
		return &llm.GenerateResponse{Text: ""}, nil
	}
	text := c.responses[0]
	c.responses = c.responses[1:]
	return &llm.GenerateResponse{Text: text}, nil
}

func (c *scriptedClient) Available(ctx context.Context) bool {
	return c.err == nil
}

// harness bundles a full service stack over one in-memory database.
type harness struct {
	db        *sql.DB
	goals     GoalService
	discovery DiscoveryFlowService
	roadmaps  RoadmapFlowService
	progress  ProgressFlowService
}

func newHarness(t *testing.T, client llm.Client) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	goalRepo := repository.NewSQLiteGoalRepo(database)
	sessionRepo := repository.NewSQLiteDiscoveryRepo(database)
	roadmapRepo := repository.NewSQLiteRoadmapRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)

	engine := intelligence.NewDiscoveryEngine(client)
	synthesizer := intelligence.NewRoadmapSynthesizer(client)

	return &harness{
		db:        database,
		goals:     NewGoalService(goalRepo),
		discovery: NewDiscoveryFlowService(goalRepo, sessionRepo, engine),
		roadmaps:  NewRoadmapFlowService(goalRepo, sessionRepo, roadmapRepo, progressRepo, uow, synthesizer),
		progress:  NewProgressFlowService(roadmapRepo, progressRepo, uow),
	}
}

// runDiscovery walks a goal through all five interview turns.
func runDiscovery(t *testing.T, h *harness, goalID string) *domain.DiscoverySession {
	t.Helper()
	ctx := context.Background()
	session, err := h.discovery.StartDiscovery(ctx, goalID)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		session, err = h.discovery.SubmitResponse(ctx, session.ID, "Because it matters to me")
		require.NoError(t, err)
	}
	require.Equal(t, domain.SessionCompleted, session.Status)
	return session
}
