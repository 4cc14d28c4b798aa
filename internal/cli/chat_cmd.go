package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/telos-app/telos/internal/cli/formatter"
	"github.com/telos-app/telos/internal/domain"
	"github.com/telos-app/telos/internal/intelligence"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [goal]",
		Short: "Talk with your coach",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("chat needs a terminal")
			}
			goal, err := resolveGoal(context.Background(), app, firstArg(args))
			if err != nil {
				return err
			}
			model := newChatModel(app, goal)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// chatModel is the bubbletea model for the coach chat surface.
type chatModel struct {
	app   *App
	goal  *domain.Goal
	input textinput.Model

	turns    []intelligence.ChatTurn
	messages []string
	waiting  bool
	quitting bool
}

// chatReplyMsg carries the coach's response back into the update loop.
type chatReplyMsg struct {
	reply *intelligence.ChatReply
	err   error
}

func newChatModel(app *App, goal *domain.Goal) *chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500

	return &chatModel{
		app:   app,
		goal:  goal,
		input: ti,
		messages: []string{
			formatter.Dim(fmt.Sprintf("Chatting about: %s", goal.Statement)),
			formatter.Dim("Say anything. /quit to leave."),
		},
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			if text == "/quit" || text == "/exit" || text == "/q" {
				m.quitting = true
				return m, tea.Quit
			}
			m.messages = append(m.messages, formatter.StyleHeader.Render("you")+formatter.Dim("> ")+text)
			m.waiting = true
			return m, m.askCoach(text)
		}

	case chatReplyMsg:
		m.waiting = false
		if msg.err != nil {
			m.messages = append(m.messages, formatter.StyleRed.Render("error: ")+msg.err.Error())
			return m, nil
		}
		m.messages = append(m.messages, formatter.StylePurple.Render("coach")+formatter.Dim("> ")+msg.reply.Text)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) View() string {
	if m.quitting {
		return "Keep going. I'll be here.\n"
	}

	var b strings.Builder
	for _, msg := range m.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	if m.waiting {
		b.WriteString(formatter.Dim("coach is thinking…") + "\n")
	}
	b.WriteString(formatter.StyleHeader.Render("you") + formatter.Dim("> "))
	b.WriteString(m.input.View())
	return b.String()
}

// askCoach sends the message to the chat service and records both sides of
// the exchange for transcript context on later turns.
func (m *chatModel) askCoach(text string) tea.Cmd {
	turns := make([]intelligence.ChatTurn, len(m.turns))
	copy(turns, m.turns)
	return func() tea.Msg {
		reply, err := m.app.Chat.Reply(context.Background(), m.goal, turns, text)
		if err == nil {
			m.turns = append(m.turns,
				intelligence.ChatTurn{Role: "User", Content: text},
				intelligence.ChatTurn{Role: "Coach", Content: reply.Text},
			)
		}
		return chatReplyMsg{reply: reply, err: err}
	}
}
