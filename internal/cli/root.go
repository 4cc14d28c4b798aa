package cli

import (
	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/intelligence"
	"github.com/telos-app/telos/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Goals     service.GoalService
	Discovery service.DiscoveryFlowService
	Roadmaps  service.RoadmapFlowService
	Progress  service.ProgressFlowService
	Chat      intelligence.ChatService

	// IsInteractive reports whether stdin is a terminal; the interview
	// and chat surfaces require it.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "telos" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "telos",
		Short: "A coach that turns dreams into two-minute first steps",
	}

	root.AddCommand(
		newGoalCmd(app),
		newDiscoverCmd(app),
		newRoadmapCmd(app),
		newRefineCmd(app),
		newSplitCmd(app),
		newDoneCmd(app),
		newStatusCmd(app),
		newChatCmd(app),
	)

	return root
}
