package intelligence

import "strings"

// MessageType buckets an open-ended chat message so the reply prompt can be
// shaped before generation.
type MessageType string

const (
	MessageGreeting  MessageType = "greeting"
	MessageGratitude MessageType = "gratitude"
	MessageFear      MessageType = "fear"
	MessageQuestion  MessageType = "question"
	MessageFollowup  MessageType = "followup"
	MessageCasual    MessageType = "casual"
)

// Classification pairs the detected message type with the instruction used
// to shape the next generation prompt.
type Classification struct {
	Type        MessageType
	Instruction string
}

// classifyInstructions are the fixed response-shaping instructions per type.
var classifyInstructions = map[MessageType]string{
	MessageGreeting:  "The user is greeting you. Greet them back warmly in one or two sentences and ask what is on their mind today.",
	MessageGratitude: "The user is expressing thanks. Receive it graciously in one sentence and gently point them back toward their next small step.",
	MessageFear:      "The user is voicing fear or doubt. Validate the feeling first, normalize it, then remind them how small their next step really is. Do not problem-solve past the feeling.",
	MessageQuestion:  "The user is asking a question. Answer it directly and briefly, then connect the answer back to their dream.",
	MessageFollowup:  "The user is continuing an ongoing conversation. Stay in context, build on what was already said, and keep the reply short.",
	MessageCasual:    "The user is making casual conversation. Respond warmly and steer gently toward what they are working on.",
}

var gratitudeMarkers = []string{"thank", "thanks", "appreciate", "grateful"}

var greetingWords = map[string]bool{
	"hi": true, "hey": true, "hello": true, "yo": true, "sup": true,
	"morning": true, "evening": true, "afternoon": true, "howdy": true,
}

var fearMarkers = []string{
	"afraid", "scared", "worried", "anxious", "anxiety", "doubt",
	"overwhelmed", "impossible", "give up", "giving up", "fail",
	"not good enough", "can't do", "cannot do", "too late", "too old",
}

var questionStarters = []string{
	"what", "how", "why", "when", "where", "who", "which",
	"can ", "could ", "should ", "would ", "is ", "are ", "do ", "does ",
}

// Classify routes a chat message to a response-shaping instruction. The
// precedence order is fixed: gratitude wins over greeting, greeting over
// fear, fear over question; anything else is a followup when the
// conversation already has turns, otherwise casual.
func Classify(message string, priorTurnCount int) Classification {
	lower := strings.ToLower(strings.TrimSpace(message))

	msgType := MessageCasual
	switch {
	case containsAny(lower, gratitudeMarkers):
		msgType = MessageGratitude
	case isShortGreeting(lower):
		msgType = MessageGreeting
	case containsAny(lower, fearMarkers):
		msgType = MessageFear
	case isQuestion(lower):
		msgType = MessageQuestion
	case priorTurnCount > 0:
		msgType = MessageFollowup
	}

	return Classification{Type: msgType, Instruction: classifyInstructions[msgType]}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// isShortGreeting matches brief salutations like "hey" or "good morning",
// but not longer messages that merely open with one.
func isShortGreeting(s string) bool {
	words := strings.Fields(strings.Trim(s, "!.,"))
	if len(words) == 0 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if greetingWords[strings.Trim(w, "!.,")] {
			return true
		}
	}
	return false
}

func isQuestion(s string) bool {
	if strings.Contains(s, "?") {
		return true
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(s, starter) {
			return true
		}
	}
	return false
}
