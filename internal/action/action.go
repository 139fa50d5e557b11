// Package action defines the Action vocabulary the Editor, menu, and
// viewport emit and the App Loop drains each tick (SPEC_FULL.md §4.6), plus
// the name registry the Keymap loader resolves config strings against
// (§6.2).
package action

// Name identifies an Action kind. Keep in sync with the registry below —
// every Name must have a ByName entry or the keymap loader can never
// produce it from a config file.
type Name string

const (
	SubmitQuery    Name = "submit_query"
	MenuSelect     Name = "menu_select"
	AbortQuery     Name = "abort_query"
	ConfirmYes     Name = "confirm_yes"
	ConfirmNo      Name = "confirm_no"
	Quit           Name = "quit"
	FocusEditor    Name = "focus_editor"
	FocusMenu      Name = "focus_menu"
	FocusData      Name = "focus_data"
	FocusFavorites Name = "focus_favorites"
	SaveFavorite   Name = "save_favorite"
	LoadFavorite   Name = "load_favorite"
	ScrollUp       Name = "scroll_up"
	ScrollDown     Name = "scroll_down"
	ScrollLeft     Name = "scroll_left"
	ScrollRight    Name = "scroll_right"
	NextColumn     Name = "next_column"
	PrevColumn     Name = "prev_column"
	GoToTop        Name = "go_to_top"
	GoToBottom     Name = "go_to_bottom"
	GoToFirstCol   Name = "go_to_first_col"
	GoToLastCol    Name = "go_to_last_col"
	SelectCell     Name = "select_cell"
	SelectRow      Name = "select_row"
	Yank           Name = "yank"
	ExportResults Name = "export_results"
)

// Action is one unit of work queued during a tick's event-drain phase and
// applied, in order, against the driver/viewport/editor/menu during the
// action-drain phase (spec.md §4.6 step 3).
type Action struct {
	Name Name

	// Text carries SubmitQuery's buffer contents or MenuSelect's generated
	// preview query.
	Text string

	// Schema/Table carry MenuSelect's chosen object.
	Schema string
	Table  string

	// FavoriteName carries SaveFavorite/LoadFavorite's target name.
	FavoriteName string
}

// registry backs ByName; built once at init from the Name constants above.
var registry = map[Name]Name{
	SubmitQuery: SubmitQuery, MenuSelect: MenuSelect, AbortQuery: AbortQuery,
	ConfirmYes: ConfirmYes, ConfirmNo: ConfirmNo, Quit: Quit,
	FocusEditor: FocusEditor, FocusMenu: FocusMenu, FocusData: FocusData, FocusFavorites: FocusFavorites,
	SaveFavorite: SaveFavorite, LoadFavorite: LoadFavorite,
	ScrollUp: ScrollUp, ScrollDown: ScrollDown, ScrollLeft: ScrollLeft, ScrollRight: ScrollRight,
	NextColumn: NextColumn, PrevColumn: PrevColumn,
	GoToTop: GoToTop, GoToBottom: GoToBottom, GoToFirstCol: GoToFirstCol, GoToLastCol: GoToLastCol,
	SelectCell: SelectCell, SelectRow: SelectRow, Yank: Yank, ExportResults: ExportResults,
}

// ByName resolves a config-file action-name string to a registered Name.
// Used by the Keymap loader (SPEC_FULL.md §6.2); an unknown name is a
// config error the loader surfaces as fatal-at-startup.
func ByName(name string) (Name, bool) {
	n, ok := registry[Name(name)]
	return n, ok
}
