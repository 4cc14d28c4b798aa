package formatter

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// FormatStatus renders the status view for one goal: overall progress,
// streaks, and the next open action.
func FormatStatus(goal *domain.Goal, rm *domain.Roadmap, c *domain.ProgressCounters) string {
	var b strings.Builder

	b.WriteString(Header(goal.Statement))
	b.WriteString("\n")

	if c == nil || rm == nil {
		b.WriteString(Dim("No roadmap yet. Run `telos discover` and `telos roadmap generate` to begin.") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s  %s of %s actions\n",
		RenderProgress(c.PercentComplete(), 20),
		Bold(fmt.Sprintf("%d", c.CompletedActions)),
		Bold(fmt.Sprintf("%d", c.TotalActions))))
	b.WriteString(StreakLine(c) + "\n")

	if next := NextAction(rm); next != nil {
		b.WriteString("\n" + StyleHeader.Render("Next up") + "\n")
		b.WriteString(FormatNodeDetail(next))
	} else if rm.Status == domain.RoadmapCompleted {
		b.WriteString("\n" + StyleGreen.Render("Every action is done. Time to dream bigger.") + "\n")
	}
	return b.String()
}

// NextAction returns the first open leaf in tree order, or nil when all
// actions are completed.
func NextAction(rm *domain.Roadmap) *domain.RoadmapNode {
	for _, phase := range rm.Phases {
		for _, leaf := range phase.Children {
			if !leaf.IsCompleted {
				return leaf
			}
		}
	}
	return nil
}

// FormatMilestone renders a milestone celebration line.
func FormatMilestone(message string) string {
	return StyleYellowBold.Render("🎉 " + message)
}
