package intelligence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

// mockClient returns canned responses for testing. When responses is set,
// each call consumes the next entry; otherwise response is returned every
// time.
type mockClient struct {
	response  string
	responses []string
	err       error
	calls     int
	lastReq   llm.GenerateRequest
}

func (m *mockClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	text := m.response
	if len(m.responses) > 0 {
		text = m.responses[0]
		m.responses = m.responses[1:]
	}
	return &llm.GenerateResponse{Text: text, Model: "llama3.2"}, nil
}

func (m *mockClient) Available(context.Context) bool { return m.err == nil }

func potteryGoal() *domain.Goal {
	return &domain.Goal{
		ID:        "goal-1",
		Statement: "Launch a pottery side-business",
		DomainTag: "creative",
	}
}

func TestDiscoveryStart_GeneratorQuestion(t *testing.T) {
	client := &mockClient{response: "What draws you to working with clay?"}
	engine := NewDiscoveryEngine(client)

	session, err := engine.Start(context.Background(), potteryGoal())
	require.NoError(t, err)

	assert.Equal(t, 1, session.DepthLevel)
	assert.Equal(t, domain.SessionInProgress, session.Status)
	require.Len(t, session.Turns, 1)
	assert.Equal(t, "What draws you to working with clay?", session.Turns[0].Question)
	assert.Empty(t, session.Turns[0].Reflection, "no reflection at depth 1")
	assert.Equal(t, llm.TaskDiscovery, client.lastReq.Task)
}

func TestDiscoveryStart_FallbackOnGeneratorFailure(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{err: llm.ErrUnavailable})

	session, err := engine.Start(context.Background(), potteryGoal())
	require.NoError(t, err)

	require.Len(t, session.Turns, 1)
	assert.Equal(t, fallbackQuestions[1], session.Turns[0].Question)
	assert.Empty(t, session.Turns[0].Reflection)
}

func TestDiscoveryStart_EmptyGoalRejected(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{response: "ok?"})
	_, err := engine.Start(context.Background(), &domain.Goal{ID: "g"})
	assert.Error(t, err)
}

func TestDiscoverySubmit_AdvancesDepthWithTranscript(t *testing.T) {
	client := &mockClient{responses: []string{
		"What draws you to working with clay?",
		"That sounds grounding.\nHow would selling your pottery change your weeks?",
	}}
	engine := NewDiscoveryEngine(client)
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	session, err = engine.SubmitResponse(context.Background(), session, goal, "I love making things with my hands")
	require.NoError(t, err)

	assert.Equal(t, 2, session.DepthLevel)
	require.Len(t, session.Turns, 2)
	assert.Equal(t, "I love making things with my hands", session.Turns[0].UserResponse)
	assert.Equal(t, "That sounds grounding.", session.Turns[1].Reflection)
	assert.Equal(t, "How would selling your pottery change your weeks?", session.Turns[1].Question)
	assert.Contains(t, client.lastReq.UserPrompt, "I love making things with my hands",
		"next prompt must carry the full transcript")
}

func TestDiscoverySubmit_FallbackAcknowledgmentAtDepth2(t *testing.T) {
	client := &mockClient{responses: []string{"Opening question?"}}
	engine := NewDiscoveryEngine(client)
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	client.err = llm.ErrTimeout
	session, err = engine.SubmitResponse(context.Background(), session, goal, "an answer")
	require.NoError(t, err)

	require.Len(t, session.Turns, 2)
	assert.Equal(t, fallbackAcknowledgment, session.Turns[1].Reflection)
	assert.Equal(t, fallbackQuestions[2], session.Turns[1].Question)
}

func TestDiscovery_FiveTurnsCompletesWithMotivation(t *testing.T) {
	client := &mockClient{responses: []string{
		"Q1?",
		"R2.\nQ2?",
		"R3.\nQ3?",
		"R4.\nQ4?",
		"R5.\nQ5?",
		"You long to turn quiet craft into a life that is unmistakably yours. And more text that should be cut.",
	}}
	engine := NewDiscoveryEngine(client)
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	answers := []string{"practical", "emotional", "identity", "values", "root"}
	for i, answer := range answers {
		session, err = engine.SubmitResponse(context.Background(), session, goal, answer)
		require.NoError(t, err)
		if i < 4 {
			assert.Equal(t, i+2, session.DepthLevel, "each answer advances depth by exactly 1")
		}
	}

	assert.Equal(t, domain.SessionCompleted, session.Status)
	assert.Equal(t, 5, session.DepthLevel)
	assert.Equal(t, "You long to turn quiet craft into a life that is unmistakably yours.",
		session.RootMotivation, "synthesis keeps only the first sentence")
	assert.Len(t, session.AnsweredTurns(), 5)
	assert.Equal(t, llm.TaskMotivation, client.lastReq.Task)
}

func TestDiscovery_CompletesWithFallbackMotivation(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{err: llm.ErrUnavailable})
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	for _, answer := range []string{"a", "b", "c", "d", "e"} {
		session, err = engine.SubmitResponse(context.Background(), session, goal, answer)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.SessionCompleted, session.Status)
	assert.NotEmpty(t, session.RootMotivation)
	assert.Contains(t, session.RootMotivation, goal.Statement,
		"fallback motivation references the goal")
}

func TestDiscoverySubmit_CompletedSessionRejected(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{err: llm.ErrUnavailable})
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)
	for _, answer := range []string{"a", "b", "c", "d", "e"} {
		session, err = engine.SubmitResponse(context.Background(), session, goal, answer)
		require.NoError(t, err)
	}

	_, err = engine.SubmitResponse(context.Background(), session, goal, "one more")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDiscoveryAbandon(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{response: "Q?"})
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	abandoned, err := engine.Abandon(session)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAbandoned, abandoned.Status)

	_, err = engine.SubmitResponse(context.Background(), abandoned, goal, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = engine.Abandon(abandoned)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDiscoverySubmit_EmptyResponseRejected(t *testing.T) {
	engine := NewDiscoveryEngine(&mockClient{response: "Q?"})
	goal := potteryGoal()

	session, err := engine.Start(context.Background(), goal)
	require.NoError(t, err)

	_, err = engine.SubmitResponse(context.Background(), session, goal, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidState)
}

func TestDiscoveryPrompt_CarriesDomainTechnique(t *testing.T) {
	client := &mockClient{response: "Q?"}
	engine := NewDiscoveryEngine(client)

	_, err := engine.Start(context.Background(), potteryGoal())
	require.NoError(t, err)

	assert.Contains(t, client.lastReq.UserPrompt, "creative",
		"domain technique block keyed by the goal's tag")
	assert.True(t, strings.Contains(client.lastReq.UserPrompt, depthGuidance[1]))
}
