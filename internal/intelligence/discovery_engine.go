package intelligence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

// DiscoveryEngine runs the five-turn interview that takes a dream statement
// down to its root motivation. The state machine is strictly linear:
// depth 1 through 5, then completed; no level may be skipped or revisited.
// Generation and parse failures never stall the interview; a fixed question
// per depth keeps it moving.
type DiscoveryEngine interface {
	// Start opens a session at depth 1 and asks the first question.
	Start(ctx context.Context, goal *domain.Goal) (*domain.DiscoverySession, error)

	// SubmitResponse records the user's answer on the open turn and either
	// asks the next depth's question or, after the fifth answer,
	// synthesizes the root motivation and completes the session.
	SubmitResponse(ctx context.Context, session *domain.DiscoverySession, goal *domain.Goal, response string) (*domain.DiscoverySession, error)

	// Abandon moves a non-terminal session to abandoned.
	Abandon(session *domain.DiscoverySession) (*domain.DiscoverySession, error)
}

type discoveryEngine struct {
	client llm.Client
}

// NewDiscoveryEngine creates a DiscoveryEngine backed by a generation client.
func NewDiscoveryEngine(client llm.Client) DiscoveryEngine {
	return &discoveryEngine{client: client}
}

func (e *discoveryEngine) Start(ctx context.Context, goal *domain.Goal) (*domain.DiscoverySession, error) {
	if goal == nil || goal.Statement == "" {
		return nil, fmt.Errorf("goal statement is required to start discovery")
	}

	now := time.Now().UTC()
	session := &domain.DiscoverySession{
		ID:         uuid.New().String(),
		GoalID:     goal.ID,
		DepthLevel: domain.MinDepthLevel,
		Status:     domain.SessionInProgress,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	reflection, question := e.askQuestion(ctx, goal, nil, domain.MinDepthLevel)
	session.Turns = append(session.Turns, domain.DiscoveryTurn{
		DepthLevel: domain.MinDepthLevel,
		Question:   question,
		Reflection: reflection,
		AskedAt:    now,
	})
	return session, nil
}

func (e *discoveryEngine) SubmitResponse(ctx context.Context, session *domain.DiscoverySession, goal *domain.Goal, response string) (*domain.DiscoverySession, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if goal == nil {
		return nil, fmt.Errorf("goal is nil")
	}
	if session.Terminal() {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrInvalidState, session.ID, session.Status)
	}
	// The turn ledger must agree with the depth: one open turn per level.
	if session.OpenTurn() == nil || len(session.Turns) != session.DepthLevel {
		return nil, fmt.Errorf("%w: session %s has no open turn at depth %d", domain.ErrInvalidState, session.ID, session.DepthLevel)
	}
	if response == "" {
		return nil, fmt.Errorf("response must not be empty")
	}

	now := time.Now().UTC()
	updated := session.Clone()
	updated.Turns[len(updated.Turns)-1].UserResponse = response
	updated.UpdatedAt = now

	if updated.DepthLevel < domain.MaxDepthLevel {
		updated.DepthLevel++
		reflection, question := e.askQuestion(ctx, goal, updated.Turns, updated.DepthLevel)
		updated.Turns = append(updated.Turns, domain.DiscoveryTurn{
			DepthLevel: updated.DepthLevel,
			Question:   question,
			Reflection: reflection,
			AskedAt:    now,
		})
		return updated, nil
	}

	updated.RootMotivation = e.synthesizeMotivation(ctx, goal, updated.Turns)
	updated.Status = domain.SessionCompleted
	return updated, nil
}

func (e *discoveryEngine) Abandon(session *domain.DiscoverySession) (*domain.DiscoverySession, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if session.Terminal() {
		return nil, fmt.Errorf("%w: session %s is already %s", domain.ErrInvalidState, session.ID, session.Status)
	}
	updated := session.Clone()
	updated.Status = domain.SessionAbandoned
	updated.UpdatedAt = time.Now().UTC()
	return updated, nil
}

// askQuestion performs one generate/parse attempt and falls back to the
// fixed question for the depth when the attempt fails. Single attempt: no
// retry loop lives at this layer.
func (e *discoveryEngine) askQuestion(ctx context.Context, goal *domain.Goal, turns []domain.DiscoveryTurn, depth int) (reflection, question string) {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskDiscovery,
		SystemPrompt: discoverySystemPrompt,
		UserPrompt:   buildDiscoveryPrompt(goal, turns, depth),
	})
	if err == nil && resp != nil && resp.Text != "" {
		reflection, question = llm.SplitReflectionQuestion(resp.Text)
		if question != "" {
			if depth == domain.MinDepthLevel {
				reflection = ""
			}
			return reflection, question
		}
	}

	if depth > domain.MinDepthLevel {
		reflection = fallbackAcknowledgment
	}
	return reflection, fallbackQuestions[depth]
}

// synthesizeMotivation produces the one-sentence root motivation, falling
// back to a deterministic template referencing the goal.
func (e *discoveryEngine) synthesizeMotivation(ctx context.Context, goal *domain.Goal, turns []domain.DiscoveryTurn) string {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskMotivation,
		SystemPrompt: motivationSystemPrompt,
		UserPrompt:   buildMotivationPrompt(goal, turns),
	})
	if err == nil && resp != nil {
		if sentence := firstSentence(resp.Text); sentence != "" {
			return sentence
		}
	}
	return DeterministicMotivation(goal)
}
