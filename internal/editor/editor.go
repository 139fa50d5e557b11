// Package editor is the minimal vim-stub named in SPEC_FULL.md §4.7: a
// thin wrapper around bubbles/textarea whose only contract with the core
// is emitting action.SubmitQuery on a bound submit key. It owns no state
// machine beyond what textarea.Model already provides.
package editor

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rainfrog/rainfrog/internal/action"
)

// Editor wraps a textarea.Model and the one key binding that matters to
// the core loop: submit.
type Editor struct {
	ta textarea.Model
}

func New() *Editor {
	ta := textarea.New()
	ta.Placeholder = "enter a SQL statement..."
	ta.ShowLineNumbers = true
	ta.Focus()
	return &Editor{ta: ta}
}

func (e *Editor) SetValue(s string) { e.ta.SetValue(s) }
func (e *Editor) Value() string     { return e.ta.Value() }
func (e *Editor) Focus()            { e.ta.Focus() }
func (e *Editor) Blur()             { e.ta.Blur() }

func (e *Editor) SetSize(width, height int) {
	e.ta.SetWidth(width)
	e.ta.SetHeight(height)
}

func (e *Editor) View() string { return e.ta.View() }

// Update feeds one tea.Msg to the underlying textarea and, on the submit
// binding (ctrl+enter, matching rainfrog's own editor), returns an
// action.Action the App should queue instead of a textarea command.
func (e *Editor) Update(msg tea.Msg) (tea.Cmd, *action.Action) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+enter" {
		return nil, &action.Action{Name: action.SubmitQuery, Text: e.ta.Value()}
	}
	var cmd tea.Cmd
	e.ta, cmd = e.ta.Update(msg)
	return cmd, nil
}

// LoadPreview implements the MenuSelect contract: pre-fill the buffer with
// a preview query and immediately re-emit SubmitQuery, unidirectionally —
// the editor never reads App state to decide this, the App decides and
// calls LoadPreview.
func (e *Editor) LoadPreview(query string) *action.Action {
	e.ta.SetValue(query)
	return &action.Action{Name: action.SubmitQuery, Text: query}
}
