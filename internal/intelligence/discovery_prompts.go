package intelligence

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// discoverySystemPrompt is the interviewer persona for all question turns.
const discoverySystemPrompt = `You are a warm, perceptive motivation coach guiding a short interview.
The user has shared a dream. Your job at each turn is to help them uncover what is really underneath it.

At each turn output:
1. One or two sentences reflecting back what the user just shared (skip this on the very first turn).
2. Exactly one open question for the current depth of the interview.

RULES:
- Ask only ONE question, and end it with a question mark.
- Never give advice, steps, or plans during the interview.
- Keep the reflection brief and specific to the user's own words.
- Plain text only, no JSON, no markdown headings.`

// motivationSystemPrompt drives the root-motivation synthesis after the
// fifth answer.
const motivationSystemPrompt = `You are a motivation coach distilling an interview.
You will receive a dream and the user's five interview answers.
Output EXACTLY ONE sentence, in second person, naming the single deepest motivation underneath the dream.
No preamble, no quotes, no bullet points. One sentence.`

// depthGuidance is the fixed, order-sensitive lookup of what each interview
// level probes for. Level 1 stays on the surface; level 5 reaches the root.
var depthGuidance = map[int]string{
	1: "Ask about the practical reason: what concretely makes this dream appealing right now.",
	2: "Ask about the emotional payoff: how achieving it would change what the user feels day to day.",
	3: "Ask about the identity shift: who the user would become if this were already true.",
	4: "Ask about core values: what this dream reveals about what the user holds most important.",
	5: "Ask toward the root motivation: which deeper longing this satisfies, in themes of love, freedom, meaning, or legacy.",
}

// domainTechniques maps a goal's domain tag to an optional questioning
// technique block woven into the prompt.
var domainTechniques = map[string]string{
	"creative":      "The dream is creative. Favor questions about expression, craft, and what the user wants to make visible.",
	"business":      "The dream is entrepreneurial. Favor questions about autonomy, ownership, and whom the user wants to serve.",
	"health":        "The dream concerns health or fitness. Favor questions about energy, self-respect, and how the user wants to inhabit their body.",
	"learning":      "The dream is about learning or mastery. Favor questions about curiosity, competence, and the joy of getting better.",
	"relationships": "The dream concerns relationships. Favor questions about connection, belonging, and being seen.",
}

// buildDiscoveryPrompt assembles the user prompt for one interview turn:
// the goal, the optional domain technique, the entire prior transcript, and
// the current depth's guidance.
func buildDiscoveryPrompt(goal *domain.Goal, turns []domain.DiscoveryTurn, depth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user's dream: %s\n", goal.Statement)
	if technique, ok := domainTechniques[goal.DomainTag]; ok {
		b.WriteString(technique)
		b.WriteString("\n")
	}

	if len(turns) > 0 {
		b.WriteString("\nInterview so far:\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "Coach: %s\n", t.Question)
			fmt.Fprintf(&b, "User: %s\n", t.UserResponse)
		}
	}

	fmt.Fprintf(&b, "\nThis is depth level %d of 5. %s\n", depth, depthGuidance[depth])
	if depth == domain.MinDepthLevel {
		b.WriteString("This is the opening turn: ask the question without a reflection.\n")
	}
	return b.String()
}

// buildMotivationPrompt assembles the synthesis prompt from the goal and
// all five answers.
func buildMotivationPrompt(goal *domain.Goal, turns []domain.DiscoveryTurn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dream: %s\n\nInterview answers, surface to root:\n", goal.Statement)
	for _, t := range turns {
		fmt.Fprintf(&b, "%d. %s\n", t.DepthLevel, t.UserResponse)
	}
	b.WriteString("\nDistill the single root motivation into one sentence.")
	return b.String()
}
