package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/llm"
)

// chatSystemPrompt is the coach persona for the open-ended chat surface.
const chatSystemPrompt = `You are a warm, grounded motivation coach.
The user is working toward a dream and may chat with you about anything around it.
Keep replies short (2-4 sentences), specific, and kind. Never lecture.
Plain text only.`

// ChatTurn records one exchange in the open chat.
type ChatTurn struct {
	Role    string // "User" or "Coach"
	Content string
}

// ChatReply is one coach response, tagged with the classification that
// shaped it and whether it came from the model or the deterministic floor.
type ChatReply struct {
	Text   string
	Type   MessageType
	Source string // "llm" or "deterministic"
}

// fallbackReplies are the fixed per-type responses used when generation is
// unavailable. The chat, like every other surface, never dead-ends.
var fallbackReplies = map[MessageType]string{
	MessageGreeting:  "Hey, good to see you. What's on your mind today?",
	MessageGratitude: "You're very welcome. Now, what's the next small step calling you?",
	MessageFear:      "That feeling is real, and it visits everyone who attempts something that matters. Your next step is smaller than the fear says it is.",
	MessageQuestion:  "That's a good question to sit with. What does your gut say, and what's the smallest way to test it?",
	MessageFollowup:  "I'm with you. Keep going, what happened next?",
	MessageCasual:    "I'm glad you stopped by. How is your dream treating you this week?",
}

// ChatService answers open-ended messages on the coach chat surface.
type ChatService interface {
	// Reply classifies the message, shapes a prompt with the instruction
	// and transcript, and generates a coach reply with a deterministic
	// per-type fallback.
	Reply(ctx context.Context, goal *domain.Goal, turns []ChatTurn, message string) (*ChatReply, error)
}

type chatService struct {
	client llm.Client
}

// NewChatService creates a ChatService backed by a generation client.
func NewChatService(client llm.Client) ChatService {
	return &chatService{client: client}
}

func (s *chatService) Reply(ctx context.Context, goal *domain.Goal, turns []ChatTurn, message string) (*ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	cls := Classify(message, len(turns))

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskChat,
		SystemPrompt: chatSystemPrompt,
		UserPrompt:   buildChatPrompt(goal, turns, message, cls),
	})
	if err != nil || resp == nil || strings.TrimSpace(resp.Text) == "" {
		return &ChatReply{
			Text:   fallbackReplies[cls.Type],
			Type:   cls.Type,
			Source: "deterministic",
		}, nil
	}

	return &ChatReply{
		Text:   strings.TrimSpace(resp.Text),
		Type:   cls.Type,
		Source: "llm",
	}, nil
}

func buildChatPrompt(goal *domain.Goal, turns []ChatTurn, message string, cls Classification) string {
	var b strings.Builder

	if goal != nil && goal.Statement != "" {
		fmt.Fprintf(&b, "The user's dream: %s\n", goal.Statement)
	}
	b.WriteString(cls.Instruction)
	b.WriteString("\n\n")

	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	fmt.Fprintf(&b, "User: %s", message)
	return b.String()
}
