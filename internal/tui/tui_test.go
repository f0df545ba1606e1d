package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/clipply/model"
)

func TestTextModelSubmit(t *testing.T) {
	m := newTextModel("Enter a commit message", "Automated commit: Update a.go")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := updated.(textModel)
	assert.True(t, got.done)
	assert.False(t, got.cancelled)
	assert.Equal(t, "Automated commit: Update a.go", got.input.Value())
	assert.NotNil(t, cmd)
	assert.Empty(t, got.View())
}

func TestTextModelEditsValue(t *testing.T) {
	m := newTextModel("title", "fix")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ed")})
	got := updated.(textModel)
	assert.Equal(t, "fixed", got.input.Value())
	assert.Contains(t, got.View(), "title")
}

func TestTextModelCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		updated, cmd := newTextModel("title", "x").Update(key)
		got := updated.(textModel)
		assert.True(t, got.cancelled, key.String())
		assert.NotNil(t, cmd)
	}
}

func TestRenderSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary model.Summary
		want    []string
		absent  []string
	}{
		{
			name: "created and committed",
			summary: model.Summary{
				RelPath:       "src/a.go",
				Mode:          "file",
				Created:       true,
				Staged:        true,
				Committed:     true,
				CommitMessage: "Automated commit: Update src/a.go",
				Revealed:      true,
			},
			want:   []string{"Created:", "src/a.go", "(file)", "Committed:", "Automated commit: Update src/a.go", "Opened in Neovim"},
			absent: []string{"Staged"},
		},
		{
			name:    "unchanged and staged",
			summary: model.Summary{RelPath: "b.txt", Mode: "diff", Outcome: model.OutcomeUnchanged, Staged: true},
			want:    []string{"Unchanged:", "b.txt", "(diff)", "Staged"},
			absent:  []string{"Committed", "Created"},
		},
		{
			name:    "dry run",
			summary: model.Summary{RelPath: "c.txt", Mode: "file", Preview: "--- a/c.txt\n+++ b/c.txt\n"},
			want:    []string{"Modified:", "Dry run", "+++ b/c.txt"},
		},
		{
			name:    "message only",
			summary: model.Summary{Message: "Nothing to do."},
			want:    []string{"Nothing to do."},
			absent:  []string{"Modified"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderSummary(tt.summary)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}
