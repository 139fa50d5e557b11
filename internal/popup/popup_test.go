package popup

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rainfrog/rainfrog/internal/model"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNameFavoriteFiltersInvalidCharacters(t *testing.T) {
	p := NewNameFavorite([]string{"select 1"})

	for _, r := range "foo bar!" {
		p.HandleKeyEvent(runes(string(r)))
	}
	if got := p.NameBuffer(); got != "foobar" {
		t.Fatalf("name buffer = %q, want %q", got, "foobar")
	}
}

func TestNameFavoriteEnterCommitsTrimmedName(t *testing.T) {
	p := NewNameFavorite([]string{"select 1"})
	for _, r := range "good_name-1" {
		p.HandleKeyEvent(runes(string(r)))
	}
	payload, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyEnter})
	if !closed {
		t.Fatalf("expected popup to close on Enter with a non-empty name")
	}
	if payload.Name != "good_name-1" {
		t.Fatalf("payload.Name = %q, want %q", payload.Name, "good_name-1")
	}
}

func TestNameFavoriteEnterWithEmptyNameDoesNotClose(t *testing.T) {
	p := NewNameFavorite(nil)
	_, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyEnter})
	if closed {
		t.Fatalf("expected popup to stay open when the name is empty")
	}
}

func TestNameFavoriteBackspaceRemovesLastChar(t *testing.T) {
	p := NewNameFavorite(nil)
	p.HandleKeyEvent(runes("ab"))
	p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := p.NameBuffer(); got != "a" {
		t.Fatalf("name buffer = %q, want %q", got, "a")
	}
}

func TestNameFavoriteEscCancels(t *testing.T) {
	p := NewNameFavorite([]string{"select 1"})
	p.HandleKeyEvent(runes("abc"))
	payload, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyEsc})
	if !closed || payload.Confirmed {
		t.Fatalf("expected Esc to cancel: closed=%v confirmed=%v", closed, payload.Confirmed)
	}
}

func TestConfirmQueryYesNo(t *testing.T) {
	p := NewConfirmQuery("DROP TABLE t")
	payload, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !closed {
		t.Fatalf("expected 'y' to close ConfirmQuery")
	}
	if !payload.Confirmed || payload.SQL != "DROP TABLE t" {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	p = NewConfirmQuery("DROP TABLE t")
	payload, closed = p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if !closed {
		t.Fatalf("expected 'n' to close ConfirmQuery")
	}
	if payload.Confirmed {
		t.Fatalf("expected Confirmed=false on 'n'")
	}
}

func TestConfirmTxCommitAndRollback(t *testing.T) {
	n := int64(2)
	p := NewConfirmTx(&n, nil, model.Rows{})
	payload, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if !closed {
		t.Fatalf("expected 'n' to close ConfirmTx")
	}
	if payload.Confirmed {
		t.Fatalf("expected Confirmed=false on rollback path")
	}

	p = NewConfirmTx(&n, nil, model.Rows{})
	payload, closed = p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !closed {
		t.Fatalf("expected 'y' to close ConfirmTx")
	}
	if !payload.Confirmed {
		t.Fatalf("expected Confirmed=true on commit path")
	}
}

func TestExportingNeverCloses(t *testing.T) {
	p := NewExporting()
	_, closed := p.HandleKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if closed {
		t.Fatalf("Exporting popup must be non-dismissible")
	}
}
