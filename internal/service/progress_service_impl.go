package service

import (
	"context"
	"errors"
	"time"

	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/progress"
	"github.com/telos-app/telos/internal/repository"
)

type progressFlowService struct {
	roadmaps repository.RoadmapRepo
	counters repository.ProgressRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressFlowService(
	roadmaps repository.RoadmapRepo,
	counters repository.ProgressRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProgressFlowService {
	return &progressFlowService{
		roadmaps: roadmaps,
		counters: counters,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressFlowService) CompleteLeaf(ctx context.Context, roadmapID, nodeID string) (*CompletionResult, error) {
	started := time.Now()
	result, err := s.completeLeaf(ctx, roadmapID, nodeID)
	s.observe(ctx, "progress.complete_leaf", started, err, map[string]any{"roadmap_id": roadmapID, "node_id": nodeID})
	return result, err
}

func (s *progressFlowService) completeLeaf(ctx context.Context, roadmapID, nodeID string) (*CompletionResult, error) {
	rm, err := s.roadmaps.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	updated, eligible, err := progress.CompleteLeaf(rm, nodeID)
	if err != nil {
		return nil, err
	}

	c, err := s.counters.Get(ctx, rm.GoalID)
	if errors.Is(err, domain.ErrNotFound) {
		c = &domain.ProgressCounters{GoalID: rm.GoalID, TotalActions: countLeaves(rm)}
	} else if err != nil {
		return nil, err
	}
	next := progress.RecordCompletion(*c)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteRoadmapRepo(tx).Save(ctx, updated); err != nil {
			return err
		}
		return repository.NewSQLiteProgressRepo(tx).Upsert(ctx, &next)
	})
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{
		Roadmap:       updated,
		Counters:      &next,
		PhaseEligible: eligible,
	}
	if m, ok := progress.MilestoneFor(next.CompletedActions); ok {
		result.Milestone = &m
	}
	return result, nil
}

func (s *progressFlowService) CompletePhase(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error) {
	started := time.Now()
	rm, err := s.completePhase(ctx, roadmapID, nodeID)
	s.observe(ctx, "progress.complete_phase", started, err, map[string]any{"roadmap_id": roadmapID, "node_id": nodeID})
	return rm, err
}

func (s *progressFlowService) completePhase(ctx context.Context, roadmapID, nodeID string) (*domain.Roadmap, error) {
	rm, err := s.roadmaps.GetByID(ctx, roadmapID)
	if err != nil {
		return nil, err
	}

	updated, err := progress.CompletePhase(rm, nodeID)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRoadmapRepo(tx).Save(ctx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *progressFlowService) Counters(ctx context.Context, goalID string) (*domain.ProgressCounters, error) {
	return s.counters.Get(ctx, goalID)
}

func (s *progressFlowService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}
