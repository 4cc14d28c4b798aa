package formatter

import (
	"fmt"
	"strings"

	"github.com/telos-app/telos/internal/domain"
)

// FormatTurn renders the coach's side of one interview turn: the optional
// reflection, then the question.
func FormatTurn(t domain.DiscoveryTurn) string {
	var b strings.Builder
	b.WriteString(Dim(fmt.Sprintf("depth %d of %d", t.DepthLevel, domain.MaxDepthLevel)) + "\n")
	if t.Reflection != "" {
		b.WriteString(StyleAqua.Render(t.Reflection) + "\n\n")
	}
	b.WriteString(Bold(t.Question) + "\n")
	return b.String()
}

// FormatMotivation renders the discovered root motivation.
func FormatMotivation(motivation string) string {
	var b strings.Builder
	b.WriteString(Header("Your root motivation"))
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("★ ") + Bold(motivation) + "\n")
	return b.String()
}
