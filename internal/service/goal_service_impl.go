package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/repository"
)

type goalService struct {
	goals repository.GoalRepo
}

func NewGoalService(goals repository.GoalRepo) GoalService {
	return &goalService{goals: goals}
}

func (s *goalService) Create(ctx context.Context, statement, domainTag string) (*domain.Goal, error) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return nil, fmt.Errorf("goal statement must not be empty")
	}
	domainTag = strings.ToLower(strings.TrimSpace(domainTag))
	if domainTag != "" && !domain.ValidDomainTags[domainTag] {
		return nil, fmt.Errorf("unknown domain tag %q", domainTag)
	}

	now := time.Now().UTC()
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Statement: statement,
		DomainTag: domainTag,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.goals.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *goalService) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goals.GetByID(ctx, id)
}

func (s *goalService) List(ctx context.Context, includeArchived bool) ([]*domain.Goal, error) {
	return s.goals.List(ctx, includeArchived)
}

func (s *goalService) Update(ctx context.Context, g *domain.Goal) error {
	g.Statement = strings.TrimSpace(g.Statement)
	if g.Statement == "" {
		return fmt.Errorf("goal statement must not be empty")
	}
	g.DomainTag = strings.ToLower(strings.TrimSpace(g.DomainTag))
	if g.DomainTag != "" && !domain.ValidDomainTags[g.DomainTag] {
		return fmt.Errorf("unknown domain tag %q", g.DomainTag)
	}
	g.UpdatedAt = time.Now().UTC()
	return s.goals.Update(ctx, g)
}

func (s *goalService) Archive(ctx context.Context, id string) error {
	return s.goals.Archive(ctx, id)
}
