package service

import (
	"context"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/progress"
)

type GoalService interface {
	Create(ctx context.Context, statement, domainTag string) (*domain.Goal, error)
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Archive(ctx context.Context, id string) error
}

type DiscoveryFlowService interface {
	// StartDiscovery opens a new interview for the goal. At most one
	// session may be in progress per goal; starting a second is
	// domain.ErrInvalidState.
	StartDiscovery(ctx context.Context, goalID string) (*domain.DiscoverySession, error)
	// SubmitResponse records the answer on the open turn and advances the
	// interview. A submission that resolves after a newer one has touched
	// the session is dropped with ErrStaleResult.
	SubmitResponse(ctx context.Context, sessionID, response string) (*domain.DiscoverySession, error)
	Abandon(ctx context.Context, sessionID string) (*domain.DiscoverySession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.DiscoverySession, error)
	ActiveSession(ctx context.Context, goalID string) (*domain.DiscoverySession, error)
}

type RoadmapFlowService interface {
	// Synthesize generates and persists a roadmap for the goal, seeding
	// the goal's progress counters on first use. Requires a completed
	// discovery session.
	Synthesize(ctx context.Context, goalID string) (*domain.Roadmap, error)
	RefineNode(ctx context.Context, roadmapID, nodeID, feedback string) (*domain.Roadmap, error)
	DecomposeNode(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error)
	GetRoadmap(ctx context.Context, roadmapID string) (*domain.Roadmap, error)
	ActiveRoadmap(ctx context.Context, goalID string) (*domain.Roadmap, error)
}

// CompletionResult reports everything the caller needs to celebrate a
// completed action: the updated tree and counters, whether the parent phase
// is now ready to close, and the milestone reached, if any.
type CompletionResult struct {
	Roadmap       *domain.Roadmap
	Counters      *domain.ProgressCounters
	PhaseEligible bool
	Milestone     *progress.Milestone
}

type ProgressFlowService interface {
	CompleteLeaf(ctx context.Context, roadmapID, nodeID string) (*CompletionResult, error)
	CompletePhase(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error)
	Counters(ctx context.Context, goalID string) (*domain.ProgressCounters, error)
}
