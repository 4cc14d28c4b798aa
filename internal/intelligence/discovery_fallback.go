package intelligence

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// fallbackAcknowledgment replaces the reflection when generation fails at
// depths 2-5. Depth 1 has no reflection at all.
const fallbackAcknowledgment = "Thank you for sharing that."

// fallbackQuestions are the fixed interview questions used whenever the
// generator is unavailable or its output cannot be parsed, indexed by depth
// level. The interview must always be able to continue.
var fallbackQuestions = map[int]string{
	1: "What first drew you to this dream?",
	2: "How would achieving this change the way you feel day to day?",
	3: "Who would you become if this were already true?",
	4: "What does this dream tell you about what you value most?",
	5: "When you imagine having this, what deeper longing does it satisfy: love, freedom, meaning, or legacy?",
}

// DeterministicMotivation builds a root motivation without the model,
// referencing the goal so the sentence is never generic boilerplate.
func DeterministicMotivation(goal *domain.Goal) string {
	return fmt.Sprintf("At the heart of %q is your longing to live in line with what matters most to you.", goal.Statement)
}

// firstSentence trims free text down to its first sentence. Synthesis must
// produce exactly one sentence regardless of how chatty the model was.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			return strings.TrimSpace(text[:i+1])
		}
	}
	return text
}
