// Package app wires every other component into the bubbletea.Model that
// drives the terminal UI: the App Loop of spec.md §4.6, realized as
// Update/View against one tea.Msg per call, with driver polling driven by
// a recurring tea.Tick (SPEC_FULL.md §7.2).
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/rainfrog/rainfrog/internal/action"
	"github.com/rainfrog/rainfrog/internal/clipboard"
	"github.com/rainfrog/rainfrog/internal/config"
	"github.com/rainfrog/rainfrog/internal/driver"
	"github.com/rainfrog/rainfrog/internal/editor"
	"github.com/rainfrog/rainfrog/internal/favorites"
	"github.com/rainfrog/rainfrog/internal/model"
	"github.com/rainfrog/rainfrog/internal/parser"
	"github.com/rainfrog/rainfrog/internal/popup"
	"github.com/rainfrog/rainfrog/internal/task"
	"github.com/rainfrog/rainfrog/internal/viewport"
)

// pollInterval is how often the App polls the driver's task slot. Short
// enough to feel responsive, long enough not to busy-loop the terminal.
const pollInterval = 80 * time.Millisecond

// Focus names the component the App currently routes non-popup input to.
type Focus string

const (
	FocusMenu      Focus = "menu"
	FocusEditor    Focus = "editor"
	FocusData      Focus = "data"
	FocusFavorites Focus = "favorites"
	FocusPopup     Focus = "popup" // forced whenever a popup is present
)

type menuItem struct {
	Schema, Table string
}

// Model is the bubbletea.Model implementing the whole App Loop.
type Model struct {
	drv       driver.Driver
	driverTag parser.DriverTag
	machine   *task.Machine
	vp        *viewport.Viewport
	ed        *editor.Editor
	pop       *popup.Popup
	store     favorites.Store
	keymap    config.Keymap
	log       *logrus.Entry

	menu    []menuItem
	menuIdx int

	favorites []model.Favorite
	favIdx    int

	focus   Focus
	width   int
	height  int
	lastErr error
	status  string
}

func New(drv driver.Driver, store favorites.Store, keymap config.Keymap, log *logrus.Logger) *Model {
	if log == nil {
		log = logrus.New()
	}
	return &Model{
		drv:       drv,
		driverTag: drv.Tag(),
		machine:   task.New(drv),
		vp:        viewport.New(500),
		ed:        editor.New(),
		store:     store,
		keymap:    keymap,
		log:       log.WithField("component", "app"),
		focus:     FocusEditor,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type menuLoadedMsg struct {
	rows model.Rows
	err  error
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.loadMenuCmd())
}

func (m *Model) loadMenuCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.drv.LoadMenu(context.Background())
		return menuLoadedMsg{rows: rows, err: err}
	}
}

type favoritesLoadedMsg struct {
	favorites []model.Favorite
	err       error
}

// loadFavoritesCmd re-reads the favorites directory (internal/favorites'
// List is always a fresh disk snapshot — spec.md §3 "Favorite") whenever
// the user switches into the favorites focus.
func (m *Model) loadFavoritesCmd() tea.Cmd {
	return func() tea.Msg {
		favs, err := m.store.List()
		return favoritesLoadedMsg{favorites: favs, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ed.SetSize(msg.Width, msg.Height/3)
		m.vp.SetRenderArea(msg.Width, msg.Height-msg.Height/3-2)
		return m, nil

	case menuLoadedMsg:
		if msg.err != nil {
			m.lastErr = msg.err
			return m, nil
		}
		m.menu = rowsToMenu(msg.rows)
		return m, nil

	case tickMsg:
		cmd := m.pollTask()
		return m, tea.Batch(cmd, tickCmd())

	case favoriteSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("app: favorite save failed")
		}
		return m, nil

	case exportDoneMsg:
		if m.pop != nil && m.pop.Kind() == popup.Exporting {
			m.pop = nil
		}
		return m, nil

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("app: favorites list failed")
			return m, nil
		}
		m.favorites = msg.favorites
		if m.favIdx >= len(m.favorites) {
			m.favIdx = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey implements step 1 of spec.md §4.6: if a popup is active, route
// to it and process its payload; else resolve the keymap binding for the
// current focus; else (no binding) pass the raw key to the focused
// component.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pop != nil {
		payload, closed := m.pop.HandleKeyEvent(msg)
		if !closed {
			return m, nil
		}
		m.pop = nil
		return m, m.applyPopupPayload(*payload)
	}

	if a, ok := m.keymap.Lookup(string(m.focus), msg.String()); ok {
		return m, m.applyAction(action.Action{Name: a})
	}

	switch m.focus {
	case FocusEditor:
		cmd, a := m.ed.Update(msg)
		if a != nil {
			return m, m.applyAction(*a)
		}
		return m, cmd
	case FocusMenu:
		m.handleMenuKey(msg)
		return m, nil
	case FocusFavorites:
		m.handleFavoritesKey(msg)
		return m, nil
	case FocusData:
		// Raw keys not caught by the keymap are ignored in the data focus;
		// all viewport navigation is keymap-bound (see config.DefaultKeymap).
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.menuIdx < len(m.menu)-1 {
			m.menuIdx++
		}
	case "k", "up":
		if m.menuIdx > 0 {
			m.menuIdx--
		}
	}
}

func (m *Model) handleFavoritesKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.favIdx < len(m.favorites)-1 {
			m.favIdx++
		}
	case "k", "up":
		if m.favIdx > 0 {
			m.favIdx--
		}
	}
}

// applyAction implements step 3 of spec.md §4.6: apply one Action against
// the driver/viewport/editor/menu. Actions are applied synchronously as
// they're produced rather than queued across Update calls — bubbletea
// already serializes messages one at a time, so there is never more than
// one Action in flight at once in this implementation.
func (m *Model) applyAction(a action.Action) tea.Cmd {
	switch a.Name {
	case action.Quit:
		return tea.Quit

	case action.FocusMenu:
		m.focus = FocusMenu
		return nil
	case action.FocusEditor:
		m.focus = FocusEditor
		return nil
	case action.FocusData:
		m.focus = FocusData
		return nil
	case action.FocusFavorites:
		m.focus = FocusFavorites
		return m.loadFavoritesCmd()

	case action.LoadFavorite:
		if m.favIdx < 0 || m.favIdx >= len(m.favorites) {
			return nil
		}
		m.ed.SetValue(m.favorites[m.favIdx].Query())
		m.focus = FocusEditor
		return nil

	case action.SubmitQuery:
		if a.Text == "" {
			// A keymap-bound submit carries no text; take the buffer.
			a.Text = m.ed.Value()
		}
		return m.submitQuery(a.Text)

	case action.MenuSelect:
		if m.menuIdx < 0 || m.menuIdx >= len(m.menu) {
			return nil
		}
		item := m.menu[m.menuIdx]
		query := m.drv.PreviewRowsQuery(item.Schema, item.Table)
		next := m.ed.LoadPreview(query)
		return m.applyAction(*next)

	case action.AbortQuery:
		m.machine.AbortQuery()
		m.status = "Cancelled"
		return nil

	case action.SaveFavorite:
		lines := []string{m.ed.Value()}
		m.pop = popup.NewNameFavorite(lines)
		return nil

	case action.ScrollUp:
		m.vp.ScrollStep(0, -1)
	case action.ScrollDown:
		m.vp.ScrollStep(0, 1)
	case action.ScrollLeft:
		m.vp.ScrollStep(-1, 0)
	case action.ScrollRight:
		m.vp.ScrollStep(1, 0)
	case action.NextColumn:
		m.vp.NextColumnBoundary()
	case action.PrevColumn:
		m.vp.PrevColumnBoundary()
	case action.GoToTop:
		m.vp.Top()
	case action.GoToBottom:
		m.vp.Bottom()
	case action.GoToFirstCol:
		m.vp.FirstColumn()
	case action.GoToLastCol:
		m.vp.LastColumn()
	case action.SelectCell:
		m.vp.EnterCellSelect()
	case action.SelectRow:
		m.vp.EnterRowSelect()
	case action.Yank:
		text := m.vp.Yank()
		if err := clipboard.Write(os.Stdout, text); err != nil {
			m.log.WithError(err).Warn("app: clipboard write failed")
		}

	case action.ExportResults:
		m.pop = popup.NewConfirmExport(int64(len(m.vp.Table().Rows)))
	}
	return nil
}

// submitQuery runs the Statement Parser classification of spec.md §4.1 and
// routes to start_query / start_tx / a ConfirmQuery popup accordingly.
func (m *Model) submitQuery(text string) tea.Cmd {
	_, stmt, err := parser.Parse(m.driverTag, text, false)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) && perr.Kind == parser.SqlParserError {
			m.pop = popup.NewConfirmBypass(text)
			return nil
		}
		m.lastErr = err
		return nil
	}

	switch parser.GetExecutionType(m.driverTag, stmt, false) {
	case parser.Normal:
		if err := m.machine.StartQuery(text, stmt); err != nil {
			m.lastErr = err
		}
	case parser.Transaction:
		if err := m.machine.StartTx(text, stmt); err != nil {
			m.lastErr = err
		}
	case parser.Confirm:
		m.pop = popup.NewConfirmQuery(text)
	}
	return nil
}

// applyPopupPayload implements the side effects a resolved popup payload
// triggers — the App's responsibility, not the popup's (spec.md §9).
func (m *Model) applyPopupPayload(p popup.Payload) tea.Cmd {
	switch p.Kind {
	case popup.PayloadConfirmQuery, popup.PayloadConfirmBypass:
		if !p.Confirmed {
			return nil
		}
		_, stmt, err := parser.Parse(m.driverTag, p.SQL, p.Kind == popup.PayloadConfirmBypass)
		if err != nil {
			m.lastErr = err
			return nil
		}
		if err := m.machine.StartQuery(p.SQL, stmt); err != nil {
			m.lastErr = err
		}
		return nil

	case popup.PayloadSetDataTable:
		ctx := context.Background()
		if p.Confirmed {
			result, err := m.machine.ConfirmTx(ctx)
			if err != nil {
				m.lastErr = err
				return nil
			}
			m.vp.SetTable(result.Results)
		} else {
			if err := m.machine.RollbackTx(ctx); err != nil {
				m.lastErr = err
				return nil
			}
			m.vp.SetTable(model.Rows{})
		}
		return nil

	case popup.PayloadNamedFavorite:
		if !p.Confirmed {
			return nil
		}
		return func() tea.Msg {
			err := m.store.Save(model.Favorite{Name: p.Name, QueryLines: p.Lines})
			return favoriteSavedMsg{err: err}
		}

	case popup.PayloadConfirmYank:
		if p.Confirmed {
			text := m.vp.Yank()
			if err := clipboard.Write(os.Stdout, text); err != nil {
				m.log.WithError(err).Warn("app: clipboard write failed")
			}
		}
		return nil

	case popup.PayloadConfirmExport:
		if !p.Confirmed {
			return nil
		}
		// CSV byte formatting is an out-of-core-scope edge (SPEC_FULL.md
		// §1): the popup and its Confirmed flag are in scope, the
		// byte-for-byte writer is not. The Exporting popup still shows
		// its non-dismissible progress indicator for the duration a real
		// writer would run, then clears itself.
		m.pop = popup.NewExporting()
		return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return exportDoneMsg{} })
	}
	return nil
}

type favoriteSavedMsg struct{ err error }

type exportDoneMsg struct{}

// pollTask implements step 2 of spec.md §4.6: poll the task slot and
// translate its return into a viewport update or a popup spawn.
func (m *Model) pollTask() tea.Cmd {
	switch m.machine.State() {
	case task.None, task.AwaitingTxDecision:
		return nil
	}

	outcome := m.machine.Tick()
	switch outcome.Kind {
	case task.DataReady:
		if outcome.Result.Err != nil {
			m.lastErr = outcome.Result.Err
			return nil
		}
		m.vp.SetTable(outcome.Result.Results)
		m.status = ""
	case task.TxOpened:
		n := int64(0)
		if outcome.RowsAffected != nil {
			n = *outcome.RowsAffected
		}
		m.pop = popup.NewConfirmTx(&n, outcome.Statement, model.Rows{RowsAffected: outcome.RowsAffected})
	}
	return nil
}

func rowsToMenu(rows model.Rows) []menuItem {
	items := make([]menuItem, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		if len(r) < 2 {
			continue
		}
		items = append(items, menuItem{Schema: r[0], Table: r[1]})
	}
	return items
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading rainfrog..."
	}

	menuPane := m.renderMenu()
	if m.focus == FocusFavorites {
		menuPane = m.renderFavorites()
	}
	dataPane := m.renderData()
	body := lipgloss.JoinHorizontal(lipgloss.Top, menuPane, dataPane)

	editorPane := m.ed.View()
	view := lipgloss.JoinVertical(lipgloss.Left, body, editorPane, m.renderStatusLine())

	if m.pop != nil {
		popupBox := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).Render(
			m.pop.GetCTAText() + "\n\n" + m.popupExtra() + m.pop.GetActionsText(),
		)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupBox)
	}
	return view
}

func (m *Model) popupExtra() string {
	if m.pop.Kind() == popup.NameFavorite {
		return m.pop.NameBuffer() + "\n\n"
	}
	return ""
}

func (m *Model) renderMenu() string {
	style := lipgloss.NewStyle().Width(30).Border(lipgloss.NormalBorder())
	if m.focus == FocusMenu {
		style = style.BorderForeground(lipgloss.Color("5"))
	}
	body := ""
	for i, item := range m.menu {
		cursor := "  "
		if i == m.menuIdx {
			cursor = "> "
		}
		body += fmt.Sprintf("%s%s.%s\n", cursor, item.Schema, item.Table)
	}
	return style.Render(body)
}

func (m *Model) renderFavorites() string {
	style := lipgloss.NewStyle().Width(30).Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("5"))
	body := ""
	for i, f := range m.favorites {
		cursor := "  "
		if i == m.favIdx {
			cursor = "> "
		}
		body += fmt.Sprintf("%s%s\n", cursor, f.Name)
	}
	if len(m.favorites) == 0 {
		body = "(no favorites saved yet)"
	}
	return style.Render(body)
}

func (m *Model) renderData() string {
	style := lipgloss.NewStyle().Border(lipgloss.NormalBorder())
	if m.focus == FocusData {
		style = style.BorderForeground(lipgloss.Color("5"))
	}
	table := m.vp.Table()
	body := ""
	for _, h := range table.Headers {
		body += fmt.Sprintf("%-20s", h.Name)
	}
	body += "\n"
	for _, row := range m.vp.VisibleSlice() {
		for _, cell := range row {
			body += fmt.Sprintf("%-20s", cell)
		}
		body += "\n"
	}
	if scrollbars := m.scrollbarIndicator(); scrollbars != "" {
		body += scrollbars
	}
	if m.lastErr != nil {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.lastErr.Error())
	}
	return style.Render(body)
}

// scrollbarIndicator renders a one-line hint when the viewport's max offset
// is above zero in either axis (SPEC_FULL.md §4.5): the vertical hint
// appears whenever there is more than one row, the horizontal one when
// the columns are wider than the render area.
func (m *Model) scrollbarIndicator() string {
	v, h := m.vp.HasVerticalScrollbar(), m.vp.HasHorizontalScrollbar()
	switch {
	case v && h:
		return "[more rows/columns below/right]\n"
	case v:
		return "[more rows below]\n"
	case h:
		return "[more columns right]\n"
	default:
		return ""
	}
}

func (m *Model) renderStatusLine() string {
	if m.status != "" {
		return m.status
	}
	return fmt.Sprintf("[%s] %s", m.driverTag, m.focus)
}
