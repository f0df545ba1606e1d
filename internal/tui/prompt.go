package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.Base("cancelled by user")

// IsInteractive reports whether prompts can be shown.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// Prompter asks the user for text on the terminal.
type Prompter struct{}

// Text shows title with an editable value prefilled with initial and returns
// what the user submitted.
func (Prompter) Text(ctx context.Context, title, initial string) (string, error) {
	p := tea.NewProgram(newTextModel(title, initial),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr),
	)
	final, err := p.Run()
	if err != nil {
		return "", errors.Errorf("running prompt: %w", err)
	}
	m := final.(textModel)
	if m.cancelled {
		return "", errors.WithStack(ErrCancelled)
	}
	return m.input.Value(), nil
}

// --- Model ---
type textModel struct {
	title     string
	input     textinput.Model
	done      bool
	cancelled bool
}

func newTextModel(title, initial string) textModel {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	ti.Width = 72
	return textModel{title: title, input: ti}
}

func (m textModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return headerStyle.Render(m.title) + "\n" + m.input.View() + "\n" +
		faintStyle.Render("enter to confirm, esc to keep the default") + "\n"
}
