package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
	"github.com/telos-app/telos/internal/domain"
)

func newDiscoverCmd(app *App) *cobra.Command {
	var abandon bool
	cmd := &cobra.Command{
		Use:   "discover [goal]",
		Short: "Run the five-question interview to find your root motivation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			goal, err := resolveGoal(ctx, app, firstArg(args))
			if err != nil {
				return err
			}
			if abandon {
				return abandonDiscovery(ctx, app, goal.ID)
			}
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("discovery is an interactive interview, run it from a terminal")
			}
			return runInterview(ctx, app, goal.ID)
		},
	}
	cmd.Flags().BoolVar(&abandon, "abandon", false, "abandon the in-progress interview")
	return cmd
}

func runInterview(ctx context.Context, app *App, goalID string) error {
	session, err := app.Discovery.ActiveSession(ctx, goalID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		session, err = app.Discovery.StartDiscovery(ctx, goalID)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		fmt.Println(formatter.Dim("Resuming your interview where you left off."))
	}

	for session.Status == domain.SessionInProgress {
		turn := session.OpenTurn()
		if turn == nil {
			return fmt.Errorf("session %s has no open question", session.ID)
		}
		fmt.Println()
		fmt.Println(formatter.FormatTurn(*turn))

		answer, err := promptAnswer()
		if err != nil {
			return err
		}
		if answer == "" {
			fmt.Println(formatter.Dim("Interview paused. Run `telos discover` to pick it back up."))
			return nil
		}

		session, err = app.Discovery.SubmitResponse(ctx, session.ID, answer)
		if err != nil {
			return err
		}
	}

	if session.Status == domain.SessionCompleted {
		fmt.Println()
		fmt.Println(formatter.FormatMotivation(session.RootMotivation))
		fmt.Println(formatter.Dim("Generate your roadmap with `telos roadmap generate`."))
	}
	return nil
}

func promptAnswer() (string, error) {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Your answer").
				Description("Take your time. Blank pauses the interview.").
				Value(&answer),
		),
	).WithTheme(telosHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func abandonDiscovery(ctx context.Context, app *App, goalID string) error {
	session, err := app.Discovery.ActiveSession(ctx, goalID)
	if err != nil {
		return err
	}
	if _, err := app.Discovery.Abandon(ctx, session.ID); err != nil {
		return err
	}
	fmt.Println("Interview abandoned. You can start fresh anytime.")
	return nil
}
