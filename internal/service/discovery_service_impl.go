package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/intelligence"
	"github.com/telos-app/telos/internal/repository"
)

type discoveryFlowService struct {
	goals    repository.GoalRepo
	sessions repository.DiscoverySessionRepo
	engine   intelligence.DiscoveryEngine
	guard    *Guard
	observer UseCaseObserver
}

func NewDiscoveryFlowService(
	goals repository.GoalRepo,
	sessions repository.DiscoverySessionRepo,
	engine intelligence.DiscoveryEngine,
	observers ...UseCaseObserver,
) DiscoveryFlowService {
	return &discoveryFlowService{
		goals:    goals,
		sessions: sessions,
		engine:   engine,
		guard:    NewGuard(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *discoveryFlowService) StartDiscovery(ctx context.Context, goalID string) (*domain.DiscoverySession, error) {
	started := time.Now()
	session, err := s.startDiscovery(ctx, goalID)
	s.observe(ctx, "discovery.start", started, err, map[string]any{"goal_id": goalID})
	return session, err
}

func (s *discoveryFlowService) startDiscovery(ctx context.Context, goalID string) (*domain.DiscoverySession, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if goal.ArchivedAt != nil {
		return nil, fmt.Errorf("goal %s is archived: %w", goalID, domain.ErrInvalidState)
	}

	if _, err := s.sessions.GetActiveByGoal(ctx, goalID); err == nil {
		return nil, fmt.Errorf("goal %s already has a discovery in progress: %w", goalID, domain.ErrInvalidState)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	token := s.guard.Begin(goalID)
	session, err := s.engine.Start(ctx, goal)
	if err != nil {
		return nil, err
	}
	if !s.guard.Commit(goalID, token) {
		return nil, fmt.Errorf("starting discovery for goal %s: %w", goalID, ErrStaleResult)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *discoveryFlowService) SubmitResponse(ctx context.Context, sessionID, response string) (*domain.DiscoverySession, error) {
	started := time.Now()
	session, err := s.submitResponse(ctx, sessionID, response)
	s.observe(ctx, "discovery.submit", started, err, map[string]any{"session_id": sessionID})
	return session, err
}

func (s *discoveryFlowService) submitResponse(ctx context.Context, sessionID, response string) (*domain.DiscoverySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	goal, err := s.goals.GetByID(ctx, session.GoalID)
	if err != nil {
		return nil, err
	}

	// The engine call may block on generation; the token drops this
	// result if a newer submission lands on the session first.
	token := s.guard.Begin(sessionID)
	updated, err := s.engine.SubmitResponse(ctx, session, goal, response)
	if err != nil {
		return nil, err
	}
	if !s.guard.Commit(sessionID, token) {
		return nil, fmt.Errorf("submitting to session %s: %w", sessionID, ErrStaleResult)
	}

	if err := s.sessions.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *discoveryFlowService) Abandon(ctx context.Context, sessionID string) (*domain.DiscoverySession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// Abandon always wins over any in-flight submission.
	s.guard.Begin(sessionID)
	updated, err := s.engine.Abandon(session)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *discoveryFlowService) GetSession(ctx context.Context, sessionID string) (*domain.DiscoverySession, error) {
	return s.sessions.GetByID(ctx, sessionID)
}

func (s *discoveryFlowService) ActiveSession(ctx context.Context, goalID string) (*domain.DiscoverySession, error) {
	return s.sessions.GetActiveByGoal(ctx, goalID)
}

func (s *discoveryFlowService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}
