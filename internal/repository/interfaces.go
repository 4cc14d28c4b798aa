package repository

import (
	"context"

	"github.com/telos-app/telos/internal/domain"
)

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Archive(ctx context.Context, id string) error
}

type DiscoverySessionRepo interface {
	// Save upserts the session row and rewrites its turn rows. Callers
	// needing atomicity across both tables run it inside a unit of work.
	Save(ctx context.Context, s *domain.DiscoverySession) error
	GetByID(ctx context.Context, id string) (*domain.DiscoverySession, error)
	// GetActiveByGoal returns the in-progress session for the goal, or
	// domain.ErrNotFound when none is open.
	GetActiveByGoal(ctx context.Context, goalID string) (*domain.DiscoverySession, error)
	ListByGoal(ctx context.Context, goalID string) ([]*domain.DiscoverySession, error)
}

type RoadmapRepo interface {
	// Save upserts the roadmap row and rewrites every node row from the
	// in-memory tree. Callers needing atomicity run it inside a unit of
	// work; loading rebuilds the ordered tree.
	Save(ctx context.Context, rm *domain.Roadmap) error
	GetByID(ctx context.Context, id string) (*domain.Roadmap, error)
	// GetActiveByGoal returns the goal's active roadmap, or
	// domain.ErrNotFound when the goal has none.
	GetActiveByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error)
	ListByGoal(ctx context.Context, goalID string) ([]*domain.Roadmap, error)
}

type ProgressRepo interface {
	Get(ctx context.Context, goalID string) (*domain.ProgressCounters, error)
	Upsert(ctx context.Context, c *domain.ProgressCounters) error
}
