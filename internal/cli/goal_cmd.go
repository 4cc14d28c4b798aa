package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage your dreams",
	}
	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalListCmd(app),
		newGoalShowCmd(app),
		newGoalEditCmd(app),
		newGoalArchiveCmd(app),
	)
	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var domainTag string
	cmd := &cobra.Command{
		Use:   `add "<your dream>"`,
		Short: "Add a new dream to work toward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := app.Goals.Create(context.Background(), args[0], domainTag)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s %s\n", formatter.Dim(g.DisplayID()), formatter.Bold(g.Statement))
			fmt.Println(formatter.Dim("Start the interview with `telos discover` when you're ready."))
			return nil
		},
	}
	cmd.Flags().StringVar(&domainTag, "domain", "", "domain tag: creative, business, health, learning, relationships")
	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println(formatter.Dim("No goals yet."))
				return nil
			}
			for _, g := range goals {
				line := fmt.Sprintf("%s  %s", formatter.Dim(g.DisplayID()), g.Statement)
				if g.DomainTag != "" {
					line += "  " + formatter.StyleBlue.Render("["+g.DomainTag+"]")
				}
				if g.ArchivedAt != nil {
					line += "  " + formatter.Dim("(archived)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include archived goals")
	return cmd
}

func newGoalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [goal]",
		Short: "Show a goal and its journey so far",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, firstArg(args))
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(g.Statement))
			fmt.Printf("%s %s\n", formatter.Dim("id"), g.ID)
			if g.DomainTag != "" {
				fmt.Printf("%s %s\n", formatter.Dim("domain"), g.DomainTag)
			}
			fmt.Printf("%s %s\n", formatter.Dim("added"), g.CreatedAt.Local().Format(time.DateOnly))

			if session, err := app.Discovery.ActiveSession(ctx, g.ID); err == nil {
				fmt.Printf("%s depth %d of 5\n", formatter.Dim("discovery"), session.DepthLevel)
			}
			if rm, err := app.Roadmaps.ActiveRoadmap(ctx, g.ID); err == nil {
				fmt.Printf("%s %s (%s)\n", formatter.Dim("roadmap"), rm.Title, rm.Status)
			}
			return nil
		},
	}
}

func newGoalEditCmd(app *App) *cobra.Command {
	var statement, domainTag string
	cmd := &cobra.Command{
		Use:   "edit <goal>",
		Short: "Reword a goal or change its domain tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if statement == "" && !cmd.Flags().Changed("domain") {
				return fmt.Errorf("nothing to change, pass --statement or --domain")
			}
			if statement != "" {
				g.Statement = strings.TrimSpace(statement)
			}
			if cmd.Flags().Changed("domain") {
				g.DomainTag = strings.ToLower(strings.TrimSpace(domainTag))
			}
			if err := app.Goals.Update(ctx, g); err != nil {
				return err
			}
			fmt.Printf("Updated %s %s\n", formatter.Dim(g.DisplayID()), formatter.Bold(g.Statement))
			return nil
		},
	}
	cmd.Flags().StringVar(&statement, "statement", "", "new wording for the goal")
	cmd.Flags().StringVar(&domainTag, "domain", "", "domain tag, empty to clear")
	return cmd
}

func newGoalArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <goal>",
		Short: "Archive a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			g, err := resolveGoal(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Goals.Archive(ctx, g.ID); err != nil {
				return err
			}
			fmt.Printf("Archived %s\n", strings.TrimSpace(g.Statement))
			return nil
		},
	}
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
