// Package popup implements the Popup Orchestrator from SPEC_FULL.md §4.4:
// a single owned value the App holds in an *popup.Popup field (nil when no
// popup is shown), never a global. Each variant closes by returning a
// typed Payload; the App performs whatever side effect the payload
// implies (run a query, export rows, write a favorite file, ...).
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
)

// Kind tags which of the seven variants a Popup is displaying.
type Kind int

const (
	ConfirmQuery Kind = iota
	ConfirmBypass
	ConfirmTx
	ConfirmExport
	ConfirmYank
	NameFavorite
	Exporting
)

// PayloadKind tags what a closed Popup handed back, matching the table in
// SPEC_FULL.md §4.4.
type PayloadKind int

const (
	PayloadConfirmQuery PayloadKind = iota
	PayloadConfirmBypass
	PayloadSetDataTable
	PayloadConfirmExport
	PayloadConfirmYank
	PayloadNamedFavorite
)

// Payload is what HandleKeyEvent returns the moment a popup resolves. Only
// the fields relevant to Kind are populated.
type Payload struct {
	Kind      PayloadKind
	SQL       string
	Result    model.Rows
	Statement *parser.Statement
	Confirmed bool
	Name      string
	Lines     []string
}

// Popup is the Orchestrator's single slot. Zero value is not meaningful;
// construct with one of the New* functions below.
type Popup struct {
	kind Kind

	sql       string            // ConfirmQuery, ConfirmBypass
	rows      *int64            // ConfirmTx, ConfirmExport, ConfirmYank row count
	statement *parser.Statement // ConfirmTx
	result    model.Rows        // ConfirmTx: the data already fetched, pending commit
	lines     []string          // NameFavorite: the query text being saved
	name      []rune            // NameFavorite: the name being typed
}

func NewConfirmQuery(sql string) *Popup  { return &Popup{kind: ConfirmQuery, sql: sql} }
func NewConfirmBypass(sql string) *Popup { return &Popup{kind: ConfirmBypass, sql: sql} }

func NewConfirmTx(rows *int64, stmt *parser.Statement, result model.Rows) *Popup {
	return &Popup{kind: ConfirmTx, rows: rows, statement: stmt, result: result}
}

func NewConfirmExport(rows int64) *Popup { n := rows; return &Popup{kind: ConfirmExport, rows: &n} }
func NewConfirmYank(rows int64) *Popup   { n := rows; return &Popup{kind: ConfirmYank, rows: &n} }

func NewNameFavorite(lines []string) *Popup {
	return &Popup{kind: NameFavorite, lines: lines}
}

func NewExporting() *Popup { return &Popup{kind: Exporting} }

func (p *Popup) Kind() Kind { return p.kind }

// isNameChar implements the NameFavorite character filter: ASCII letters,
// digits, underscore, hyphen. Everything else — whitespace included — is
// silently rejected on input rather than surfaced as an error.
func isNameChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	default:
		return false
	}
}

// HandleKeyEvent processes one key while this popup is on screen. It
// returns a non-nil Payload exactly when the popup resolves (accepted or
// cancelled); the caller must then clear its Popup slot. A nil Payload
// with closed == false means the popup stays open.
func (p *Popup) HandleKeyEvent(msg tea.KeyMsg) (payload *Payload, closed bool) {
	switch p.kind {
	case ConfirmQuery:
		return p.handleYesNo(msg, PayloadConfirmQuery, func(ok bool) Payload {
			return Payload{Kind: PayloadConfirmQuery, SQL: p.sql, Confirmed: ok}
		})
	case ConfirmBypass:
		return p.handleYesNo(msg, PayloadConfirmBypass, func(ok bool) Payload {
			return Payload{Kind: PayloadConfirmBypass, SQL: p.sql, Confirmed: ok}
		})
	case ConfirmTx:
		switch msg.String() {
		case "y", "Y", "enter":
			return &Payload{Kind: PayloadSetDataTable, Result: p.result, Statement: p.statement, Confirmed: true}, true
		case "n", "N", "esc":
			return &Payload{Kind: PayloadSetDataTable, Result: model.Rows{}, Statement: p.statement, Confirmed: false}, true
		}
		return nil, false
	case ConfirmExport:
		return p.handleYesNo(msg, PayloadConfirmExport, func(ok bool) Payload {
			return Payload{Kind: PayloadConfirmExport, Confirmed: ok}
		})
	case ConfirmYank:
		return p.handleYesNo(msg, PayloadConfirmYank, func(ok bool) Payload {
			return Payload{Kind: PayloadConfirmYank, Confirmed: ok}
		})
	case NameFavorite:
		return p.handleNameFavorite(msg)
	case Exporting:
		return nil, false // non-dismissible
	}
	return nil, false
}

func (p *Popup) handleYesNo(msg tea.KeyMsg, kind PayloadKind, build func(ok bool) Payload) (*Payload, bool) {
	switch msg.String() {
	case "y", "Y", "enter":
		pl := build(true)
		return &pl, true
	case "n", "N", "esc":
		pl := build(false)
		return &pl, true
	}
	return nil, false
}

func (p *Popup) handleNameFavorite(msg tea.KeyMsg) (*Payload, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return &Payload{Kind: PayloadNamedFavorite, Name: "", Lines: p.lines, Confirmed: false}, true
	case tea.KeyEnter:
		name := strings.TrimSpace(string(p.name))
		if name == "" {
			return nil, false
		}
		return &Payload{Kind: PayloadNamedFavorite, Name: name, Lines: p.lines, Confirmed: true}, true
	case tea.KeyBackspace:
		if len(p.name) > 0 {
			p.name = p.name[:len(p.name)-1]
		}
		return nil, false
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			if isNameChar(r) {
				p.name = append(p.name, r)
			}
		}
		return nil, false
	}
	return nil, false
}

// NameBuffer exposes the in-progress favorite name for rendering.
func (p *Popup) NameBuffer() string { return string(p.name) }

// GetCTAText returns the call-to-action line shown above the popup body.
func (p *Popup) GetCTAText() string {
	switch p.kind {
	case ConfirmQuery:
		return "This is a destructive statement. Execute it?"
	case ConfirmBypass:
		return "Could not parse this statement. Run it unparsed, as-is?"
	case ConfirmTx:
		if p.rows != nil {
			return statementVerb(p.statement) + " affected rows — commit this transaction?"
		}
		return "Commit this transaction?"
	case ConfirmExport:
		return "Export these rows to a file?"
	case ConfirmYank:
		return "Copy these rows to the clipboard?"
	case NameFavorite:
		return "Name this favorite:"
	case Exporting:
		return "Exporting..."
	default:
		return ""
	}
}

// GetActionsText returns the footer hint line (e.g. "[y]es  [n]o").
func (p *Popup) GetActionsText() string {
	switch p.kind {
	case NameFavorite:
		return "[enter] save  [esc] cancel"
	case Exporting:
		return ""
	default:
		return "[y]es  [n]o  [esc] cancel"
	}
}

func statementVerb(stmt *parser.Statement) string {
	if stmt == nil {
		return "Statement"
	}
	switch stmt.Kind {
	case parser.KindDelete:
		return "DELETE"
	case parser.KindUpdate:
		return "UPDATE"
	case parser.KindInsert:
		return "INSERT"
	default:
		return "Statement"
	}
}
