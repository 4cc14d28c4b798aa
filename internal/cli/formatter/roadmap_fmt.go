package formatter

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// FormatRoadmap renders the full roadmap: header, root motivation, and the
// phase tree with duration and category badges.
func FormatRoadmap(rm *domain.Roadmap) string {
	var b strings.Builder

	b.WriteString(Header(rm.Title))
	b.WriteString("\n")
	if rm.RootMotivation != "" {
		b.WriteString(StylePurple.Render("★ ") + Dim(rm.RootMotivation))
		b.WriteString("\n")
	}
	if rm.Status == domain.RoadmapCompleted {
		b.WriteString(StyleGreen.Render("This roadmap is complete.") + "\n")
	}
	b.WriteString("\n")

	var items []TreeItem
	for pi, phase := range rm.Phases {
		items = append(items, TreeItem{
			Title:     fmt.Sprintf("%s %s", Bold(fmt.Sprintf("Phase %d:", pi+1)), phase.Title),
			Completed: phase.IsCompleted,
			Badge:     Dim(fmt.Sprintf("~%dm total", phase.TotalDuration())),
		})
		for ci, leaf := range phase.Children {
			items = append(items, TreeItem{
				Title:     fmt.Sprintf("%s %s", Dim(ShortID(leaf.ID)), leaf.Title),
				Level:     1,
				IsLast:    ci == len(phase.Children)-1,
				Completed: leaf.IsCompleted,
				Badge:     leafBadge(leaf),
			})
		}
	}
	b.WriteString(RenderTree(items))
	return b.String()
}

// FormatNodeDetail renders one action with its rationale and tip.
func FormatNodeDetail(n *domain.RoadmapNode) string {
	var b strings.Builder
	b.WriteString(Bold(n.Title) + "  " + leafBadge(n) + "\n")
	if n.Description != "" {
		b.WriteString(n.Description + "\n")
	}
	if n.Rationale != "" {
		b.WriteString(StylePurple.Render("Why: ") + n.Rationale + "\n")
	}
	if n.Tip != "" {
		b.WriteString(StyleAqua.Render("Tip: ") + n.Tip + "\n")
	}
	return b.String()
}

func leafBadge(n *domain.RoadmapNode) string {
	return fmt.Sprintf("%s %s",
		Dim(fmt.Sprintf("%dm", n.DurationMin)),
		CategoryStyle(n.Category).Render(string(n.Category)))
}

// ShortID truncates an ID for display.
func ShortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
