package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telos-app/telos/internal/domain"
)

// Goal options
type GoalOption func(*domain.Goal)

func WithDomainTag(tag string) GoalOption {
	return func(g *domain.Goal) {
		g.DomainTag = tag
	}
}

func WithArchived(at time.Time) GoalOption {
	return func(g *domain.Goal) {
		g.ArchivedAt = &at
	}
}

func NewTestGoal(statement string, opts ...GoalOption) *domain.Goal {
	now := time.Now().UTC()
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Statement: statement,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Session options
type SessionOption func(*domain.DiscoverySession)

func WithSessionStatus(s domain.SessionStatus) SessionOption {
	return func(sess *domain.DiscoverySession) {
		sess.Status = s
	}
}

func WithRootMotivation(m string) SessionOption {
	return func(sess *domain.DiscoverySession) {
		sess.RootMotivation = m
	}
}

// WithAnsweredTurns fills the session with n answered turns and advances
// the depth level accordingly.
func WithAnsweredTurns(n int) SessionOption {
	return func(sess *domain.DiscoverySession) {
		now := time.Now().UTC()
		sess.Turns = nil
		for d := 1; d <= n; d++ {
			sess.Turns = append(sess.Turns, domain.DiscoveryTurn{
				DepthLevel:   d,
				Question:     fmt.Sprintf("Question at depth %d?", d),
				UserResponse: fmt.Sprintf("Answer at depth %d", d),
				AskedAt:      now,
			})
		}
		sess.DepthLevel = n
	}
}

func NewTestSession(goalID string, opts ...SessionOption) *domain.DiscoverySession {
	now := time.Now().UTC()
	s := &domain.DiscoverySession{
		ID:         uuid.New().String(),
		GoalID:     goalID,
		DepthLevel: 1,
		Status:     domain.SessionInProgress,
		Turns: []domain.DiscoveryTurn{{
			DepthLevel: 1,
			Question:   "What draws you to this dream?",
			AskedAt:    now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roadmap options
type RoadmapOption func(*domain.Roadmap)

func WithRoadmapStatus(s domain.RoadmapStatus) RoadmapOption {
	return func(rm *domain.Roadmap) {
		rm.Status = s
	}
}

func WithPhaseShape(leavesPerPhase ...int) RoadmapOption {
	return func(rm *domain.Roadmap) {
		rm.Phases = nil
		for pi, leafCount := range leavesPerPhase {
			phase := &domain.RoadmapNode{
				ID:         uuid.New().String(),
				Title:      fmt.Sprintf("Phase %d", pi+1),
				Category:   domain.CategoryPlanning,
				OrderIndex: pi,
			}
			for ci := 0; ci < leafCount; ci++ {
				pid := phase.ID
				phase.Children = append(phase.Children, &domain.RoadmapNode{
					ID:          uuid.New().String(),
					ParentID:    &pid,
					Title:       fmt.Sprintf("Action %d.%d", pi+1, ci+1),
					Description: "a small step",
					DurationMin: 10,
					Category:    domain.CategoryAction,
					OrderIndex:  ci,
				})
			}
			phase.DurationMin = phase.TotalDuration()
			rm.Phases = append(rm.Phases, phase)
		}
	}
}

// NewTestRoadmap builds a roadmap with three phases of three actions each
// unless reshaped by WithPhaseShape.
func NewTestRoadmap(goalID string, opts ...RoadmapOption) *domain.Roadmap {
	now := time.Now().UTC()
	rm := &domain.Roadmap{
		ID:             uuid.New().String(),
		GoalID:         goalID,
		Title:          "Test Roadmap",
		RootMotivation: "a test motivation",
		Status:         domain.RoadmapActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	WithPhaseShape(3, 3, 3)(rm)
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// NewTestCounters builds a counters row for the goal.
func NewTestCounters(goalID string, total, completed int) *domain.ProgressCounters {
	return &domain.ProgressCounters{
		GoalID:           goalID,
		TotalActions:     total,
		CompletedActions: completed,
		UpdatedAt:        time.Now().UTC(),
	}
}
