package intelligence

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// roadmapSystemPrompt instructs the model to generate a full roadmap JSON.
const roadmapSystemPrompt = `You are a coach turning a dream and its root motivation into a concrete starter roadmap.

You must output ONLY a JSON object with this exact shape:
{
  "title": "short roadmap title",
  "phases": [
    {
      "title": "phase title",
      "description": "one sentence on what this phase is for",
      "actions": [
        {
          "title": "imperative, concrete micro-action",
          "description": "one sentence of detail",
          "rationale": "why this step matters for the root motivation",
          "tip": "one practical hint",
          "duration_minutes": 10,
          "category": "research|planning|action|reflection|connection",
          "order_index": 0
        }
      ]
    }
  ]
}

STRUCTURAL RULES:
1. Exactly 3 phases, in order.
2. Each phase has 4 to 8 actions.
3. Every duration_minutes is between 2 and 15. These are tiny steps someone can take today.
4. order_index starts at 0 within each phase and increases by 1.
5. Output ONLY the JSON object, no markdown, no commentary.`

// refineSystemPrompt instructs the model to replace a single action.
const refineSystemPrompt = `You are a coach replacing one step of a roadmap with a better-fitting alternative.

You must output ONLY a JSON object for the replacement action:
{
  "title": "imperative, concrete micro-action",
  "description": "one sentence of detail",
  "rationale": "why this step matters",
  "tip": "one practical hint",
  "duration_minutes": 10
}

RULES:
1. duration_minutes between 2 and 15.
2. The replacement covers the same ground as the original, shaped by the user's feedback.
3. Output ONLY the JSON object.`

// decomposeSystemPrompt instructs the model to split one action into smaller ones.
const decomposeSystemPrompt = `You are a coach splitting one roadmap step into smaller sequential steps.

You must output ONLY a JSON array of 2 or 3 replacement actions:
[
  {
    "title": "imperative, concrete micro-action",
    "description": "one sentence of detail",
    "rationale": "why this step matters",
    "tip": "one practical hint",
    "duration_minutes": 5
  }
]

RULES:
1. Each replacement is STRICTLY shorter than the original step.
2. Together the replacements cover the original step's full intent, in order.
3. Output ONLY the JSON array.`

// progressionBand maps the user's lifetime completed-action count to tone
// guidance. The band changes only how bold the generated steps sound, never
// the structural rules.
func progressionBand(completedCount int) string {
	switch {
	case completedCount <= 0:
		return "The user has not completed any actions yet. Be very gentle: tiny, unintimidating first steps that build confidence."
	case completedCount <= 4:
		return "The user has completed a few actions. Stay gentle but introduce slightly more engaging steps."
	case completedCount <= 14:
		return "The user has built some momentum. Offer steps with a bit more stretch and outward contact."
	case completedCount <= 29:
		return "The user is consistent. Be bolder: steps may involve other people, commitments, and small risks."
	default:
		return "The user is highly consistent. Be ambitious: steps can be bold, public, and identity-stretching."
	}
}

func buildRoadmapPrompt(goal *domain.Goal, rootMotivation string, completedCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dream: %s\n", goal.Statement)
	if rootMotivation != "" {
		fmt.Fprintf(&b, "Root motivation: %s\n", rootMotivation)
	}
	if goal.DomainTag != "" {
		fmt.Fprintf(&b, "Domain: %s\n", goal.DomainTag)
	}
	b.WriteString("\n")
	b.WriteString(progressionBand(completedCount))
	b.WriteString("\n\nGenerate the roadmap JSON now.")
	return b.String()
}

func buildRefinePrompt(node *domain.RoadmapNode, goal *domain.Goal, rootMotivation, feedback string) string {
	var b strings.Builder
	writeNodeContext(&b, node, goal, rootMotivation)
	if feedback != "" {
		fmt.Fprintf(&b, "\nUser feedback on this step: %s\n", feedback)
	} else {
		b.WriteString("\nThe user gave no specific feedback. Produce a gentler, more approachable alternative.\n")
	}
	b.WriteString("\nGenerate the replacement action JSON now.")
	return b.String()
}

func buildDecomposePrompt(node *domain.RoadmapNode, goal *domain.Goal, rootMotivation string) string {
	var b strings.Builder
	writeNodeContext(&b, node, goal, rootMotivation)
	fmt.Fprintf(&b, "\nSplit this %d-minute step into 2 or 3 smaller sequential steps, each strictly shorter than %d minutes.\n", node.DurationMin, node.DurationMin)
	b.WriteString("\nGenerate the JSON array now.")
	return b.String()
}

func writeNodeContext(b *strings.Builder, node *domain.RoadmapNode, goal *domain.Goal, rootMotivation string) {
	if goal != nil && goal.Statement != "" {
		fmt.Fprintf(b, "Dream: %s\n", goal.Statement)
	}
	if rootMotivation != "" {
		fmt.Fprintf(b, "Root motivation: %s\n", rootMotivation)
	}
	fmt.Fprintf(b, "\nCurrent step:\n  Title: %s\n", node.Title)
	if node.Description != "" {
		fmt.Fprintf(b, "  Description: %s\n", node.Description)
	}
	if node.Rationale != "" {
		fmt.Fprintf(b, "  Rationale: %s\n", node.Rationale)
	}
	fmt.Fprintf(b, "  Duration: %d minutes\n  Category: %s\n", node.DurationMin, node.Category)
}
