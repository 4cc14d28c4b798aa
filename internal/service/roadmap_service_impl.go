package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/intelligence"
	"github.com/telos-app/telos/internal/repository"
)

type roadmapFlowService struct {
	goals       repository.GoalRepo
	sessions    repository.DiscoverySessionRepo
	roadmaps    repository.RoadmapRepo
	counters    repository.ProgressRepo
	uow         db.UnitOfWork
	synthesizer intelligence.RoadmapSynthesizer
	guard       *Guard
	observer    UseCaseObserver
}

func NewRoadmapFlowService(
	goals repository.GoalRepo,
	sessions repository.DiscoverySessionRepo,
	roadmaps repository.RoadmapRepo,
	counters repository.ProgressRepo,
	uow db.UnitOfWork,
	synthesizer intelligence.RoadmapSynthesizer,
	observers ...UseCaseObserver,
) RoadmapFlowService {
	return &roadmapFlowService{
		goals:       goals,
		sessions:    sessions,
		roadmaps:    roadmaps,
		counters:    counters,
		uow:         uow,
		synthesizer: synthesizer,
		guard:       NewGuard(),
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *roadmapFlowService) Synthesize(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	started := time.Now()
	rm, err := s.synthesize(ctx, goalID)
	s.observe(ctx, "roadmap.synthesize", started, err, map[string]any{"goal_id": goalID})
	return rm, err
}

func (s *roadmapFlowService) synthesize(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.ArchivedAt != nil {
		return nil, fmt.Errorf("goal %s is archived: %w", goalID, domain.ErrInvalidState)
	}

	rootMotivation, err := s.latestRootMotivation(ctx, goalID)
	if err != nil {
		return nil, err
	}

	completedCount := 0
	existing, err := s.counters.Get(ctx, goalID)
	switch {
	case err == nil:
		completedCount = existing.CompletedActions
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	token := s.guard.Begin(goalID)
	rm, err := s.synthesizer.Synthesize(ctx, goal, rootMotivation, completedCount)
	if err != nil {
		return nil, err
	}
	if !s.guard.Commit(goalID, token) {
		return nil, fmt.Errorf("synthesizing roadmap for goal %s: %w", goalID, ErrStaleResult)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		roadmaps := repository.NewSQLiteRoadmapRepo(tx)

		// A goal carries at most one active roadmap; a regeneration
		// archives the previous one.
		if prev, err := roadmaps.GetActiveByGoal(ctx, goalID); err == nil {
			prev.Status = domain.RoadmapArchived
			prev.UpdatedAt = time.Now().UTC()
			if err := roadmaps.Save(ctx, prev); err != nil {
				return err
			}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := roadmaps.Save(ctx, rm); err != nil {
			return err
		}
		return s.seedCounters(ctx, tx, goalID, countLeaves(rm))
	})
	if err != nil {
		return nil, err
	}
	return rm, nil
}

// latestRootMotivation returns the root motivation of the most recently
// completed discovery session, or ErrInvalidState when the goal has none.
func (s *roadmapFlowService) latestRootMotivation(ctx context.Context, goalID string) (string, error) {
	sessions, err := s.sessions.ListByGoal(ctx, goalID)
	if err != nil {
		return "", err
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].Status == domain.SessionCompleted && sessions[i].RootMotivation != "" {
			return sessions[i].RootMotivation, nil
		}
	}
	return "", fmt.Errorf("goal %s has no completed discovery: %w", goalID, domain.ErrInvalidState)
}

// seedCounters creates or retargets the goal's counters row for a freshly
// synthesized roadmap. Completion history and streaks are preserved.
func (s *roadmapFlowService) seedCounters(ctx context.Context, tx db.DBTX, goalID string, totalActions int) error {
	counters := repository.NewSQLiteProgressRepo(tx)
	c, err := counters.Get(ctx, goalID)
	if errors.Is(err, domain.ErrNotFound) {
		c = &domain.ProgressCounters{GoalID: goalID}
	} else if err != nil {
		return err
	}
	c.TotalActions = totalActions
	c.UpdatedAt = time.Now().UTC()
	return counters.Upsert(ctx, c)
}

func (s *roadmapFlowService) RefineNode(ctx context.Context, roadmapID, nodeID, feedback string) (*domain.Roadmap, error) {
	started := time.Now()
	rm, err := s.refineNode(ctx, roadmapID, nodeID, feedback)
	s.observe(ctx, "roadmap.refine", started, err, map[string]any{"roadmap_id": roadmapID, "node_id": nodeID})
	return rm, err
}

func (s *roadmapFlowService) refineNode(ctx context.Context, roadmapID, nodeID, feedback string) (*domain.Roadmap, error) {
	rm, goal, node, err := s.loadEditableLeaf(ctx, roadmapID, nodeID)
	if err != nil {
		return nil, err
	}

	key := roadmapID + "/" + nodeID
	token := s.guard.Begin(key)
	replacement, err := s.synthesizer.Refine(ctx, node, goal, rm.RootMotivation, feedback)
	if err != nil {
		return nil, err
	}
	if !s.guard.Commit(key, token) {
		return nil, fmt.Errorf("refining node %s: %w", nodeID, ErrStaleResult)
	}

	updated := rm.Clone()
	if err := updated.ReplaceNode(nodeID, replacement); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRoadmapRepo(tx).Save(ctx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roadmapFlowService) DecomposeNode(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error) {
	started := time.Now()
	rm, err := s.decomposeNode(ctx, roadmapID, nodeID)
	s.observe(ctx, "roadmap.decompose", started, err, map[string]any{"roadmap_id": roadmapID, "node_id": nodeID})
	return rm, err
}

func (s *roadmapFlowService) decomposeNode(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error) {
	rm, goal, node, err := s.loadEditableLeaf(ctx, roadmapID, nodeID)
	if err != nil {
		return nil, err
	}

	key := roadmapID + "/" + nodeID
	token := s.guard.Begin(key)
	replacements, err := s.synthesizer.Decompose(ctx, node, goal, rm.RootMotivation)
	if err != nil {
		return nil, err
	}
	if !s.guard.Commit(key, token) {
		return nil, fmt.Errorf("decomposing node %s: %w", nodeID, ErrStaleResult)
	}

	updated := rm.Clone()
	if err := updated.SpliceChildren(nodeID, replacements); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRoadmapRepo(tx).Save(ctx, updated); err != nil {
			return err
		}
		return s.seedCounters(ctx, tx, rm.GoalID, countLeaves(updated))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// loadEditableLeaf loads the roadmap and checks the target node may be
// refined or decomposed: roadmap active, node a leaf, not yet completed.
func (s *roadmapFlowService) loadEditableLeaf(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, *domain.Goal, *domain.RoadmapNode, error) {
	rm, err := s.roadmaps.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, nil, nil, err
	}
	if rm.Status != domain.RoadmapActive {
		return nil, nil, nil, fmt.Errorf("roadmap %s is %s: %w", roadmapID, rm.Status, domain.ErrInvalidState)
	}
	node := rm.FindNode(nodeID)
	if node == nil {
		return nil, nil, nil, fmt.Errorf("node %s: %w", nodeID, domain.ErrNotFound)
	}
	if node.IsPhase() {
		return nil, nil, nil, fmt.Errorf("node %s is a phase: %w", nodeID, domain.ErrInvalidState)
	}
	if node.IsCompleted {
		return nil, nil, nil, fmt.Errorf("node %s is already completed: %w", nodeID, domain.ErrInvalidState)
	}
	goal, err := s.goals.GetByID(ctx, rm.GoalID)
	if err != nil {
		return nil, nil, nil, err
	}
	return rm, goal, node, nil
}

func (s *roadmapFlowService) GetRoadmap(ctx context.Context, roadmapID string) (*domain.Roadmap, error) {
	return s.roadmaps.GetByID(ctx, roadmapID)
}

func (s *roadmapFlowService) ActiveRoadmap(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	return s.roadmaps.GetActiveByGoal(ctx, goalID)
}

func (s *roadmapFlowService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}

func countLeaves(rm *domain.Roadmap) int {
	n := 0
	for _, p := range rm.Phases {
		n += len(p.Children)
	}
	return n
}
