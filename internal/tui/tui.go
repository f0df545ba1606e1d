package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/clipply/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Orange
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// RenderSummary formats the result of one run for the terminal.
func RenderSummary(s model.Summary) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message))
		b.WriteString("\n")
	}
	if s.RelPath == "" {
		return b.String()
	}

	action := "Modified"
	switch {
	case s.Outcome == model.OutcomeUnchanged:
		action = "Unchanged"
	case s.Created:
		action = "Created"
	}
	label := successStyle
	if s.Outcome == model.OutcomeUnchanged {
		label = faintStyle
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		label.Render(action+":"),
		pathStyle.Render(s.RelPath),
		faintStyle.Render("("+s.Mode+")")))

	switch {
	case s.Committed:
		b.WriteString(successStyle.Render("Committed:"))
		b.WriteString(" " + s.CommitMessage + "\n")
	case s.Staged:
		b.WriteString(successStyle.Render("Staged"))
		b.WriteString("\n")
	}
	if s.Revealed {
		b.WriteString(faintStyle.Render("Opened in Neovim"))
		b.WriteString("\n")
	}
	if s.Preview != "" {
		b.WriteString(warnStyle.Render("Dry run, nothing written:"))
		b.WriteString("\n")
		b.WriteString(s.Preview)
	}
	return b.String()
}
