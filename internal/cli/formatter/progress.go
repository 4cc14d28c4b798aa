package formatter

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a progress bar like [████░░░░] 45%.
// The bar is colored based on percentage: green >66%, yellow 33-66%, red <33%.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, empty)

	var style = StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}

	pctStr := fmt.Sprintf("%3.0f%%", pct*100)
	return fmt.Sprintf("[%s] %s", style.Render(bar), pctStr)
}

// StreakLine renders the current and longest streaks, like "🔥 3 in a row (best 7)".
func StreakLine(c *domain.ProgressCounters) string {
	if c.CurrentStreak == 0 {
		return Dim("No streak yet. Completing one action starts one.")
	}
	line := fmt.Sprintf("🔥 %d in a row", c.CurrentStreak)
	if c.LongestStreak > c.CurrentStreak {
		line += Dim(fmt.Sprintf(" (best %d)", c.LongestStreak))
	}
	return line
}
