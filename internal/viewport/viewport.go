// Package viewport implements the Results Viewport of SPEC_FULL.md §4.5: a
// virtual content buffer over a Table, a clamped 2-D scroll offset, and a
// cell/row selection cursor.
package viewport

import (
	"strings"

	"github.com/rainfrog/rainfrog/internal/model"
)

// ColumnWidth is the fixed default column width used to compute the
// virtual buffer's requested width and column-boundary stepping.
const ColumnWidth = 36

// SelectionMode tracks what, if anything, the cursor currently selects.
type SelectionMode int

const (
	SelectNone SelectionMode = iota
	SelectCell
	SelectRow
	SelectCopied
)

// Viewport owns a Table plus the scroll/selection state rendered over it.
type Viewport struct {
	table model.Rows

	renderWidth, renderHeight int
	maxHeight                 int // cap on virtual buffer rows, independent of render area

	xOffset, yOffset int
	mode             SelectionMode
	colIdx, rowIdx   int
}

// New creates an empty Viewport with no render area yet (SetRenderArea
// supplies it); maxHeight bounds
// the virtual buffer's height the way SPEC_FULL.md §4.5 describes
// (min(max_height, render_area.height)).
func New(maxHeight int) *Viewport {
	return &Viewport{maxHeight: maxHeight}
}

// SetTable replaces the displayed result set and resets scroll/selection
// to (0,0), per spec ("reset to (0,0) on every new query").
func (v *Viewport) SetTable(t model.Rows) {
	v.table = t
	v.xOffset, v.yOffset = 0, 0
	v.mode = SelectNone
	v.colIdx, v.rowIdx = 0, 0
}

func (v *Viewport) Table() model.Rows { return v.table }

// SetRenderArea records the terminal area available for the table panel;
// called whenever the surrounding App Loop resizes.
func (v *Viewport) SetRenderArea(width, height int) {
	v.renderWidth = width
	v.renderHeight = height
	v.clamp()
}

func (v *Viewport) bufferWidth() int {
	return len(v.table.Headers) * ColumnWidth
}

func (v *Viewport) bufferHeight() int {
	h := v.maxHeight
	if v.renderHeight > 0 && v.renderHeight < h {
		h = v.renderHeight
	}
	if h < 0 {
		h = 0
	}
	return h
}

func (v *Viewport) maxXOffset() int {
	m := v.bufferWidth() - v.renderWidth
	if m < 0 {
		return 0
	}
	return m
}

// maxYOffset is max(0, |rows| - 1) (spec.md §3), not row_count minus the
// buffer height: y_offset indexes the topmost visible row and is allowed to
// scroll all the way until the last row is the only one left on screen,
// matching scroll_table.rs's row-count.saturating_sub(1).
func (v *Viewport) maxYOffset() int {
	m := len(v.table.Rows) - 1
	if m < 0 {
		return 0
	}
	return m
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (v *Viewport) clamp() {
	v.xOffset = clampInt(v.xOffset, 0, v.maxXOffset())
	v.yOffset = clampInt(v.yOffset, 0, v.maxYOffset())
}

// ScrollStep implements arrow/hjkl stepping: x_offset ±= 2, y_offset ±= 1.
func (v *Viewport) ScrollStep(dx, dy int) {
	v.xOffset = clampInt(v.xOffset+dx*2, 0, v.maxXOffset())
	v.yOffset = clampInt(v.yOffset+dy, 0, v.maxYOffset())
}

// NextColumnBoundary implements `w`/`e`: advance to the next column
// boundary.
func (v *Viewport) NextColumnBoundary() {
	step := ColumnWidth - (v.xOffset % ColumnWidth)
	v.xOffset = clampInt(v.xOffset+step, 0, v.maxXOffset())
}

// PrevColumnBoundary implements `b`: retreat to the previous column
// boundary.
func (v *Viewport) PrevColumnBoundary() {
	var step int
	if v.xOffset%ColumnWidth == 0 {
		step = ColumnWidth
	} else {
		step = v.xOffset % ColumnWidth
	}
	v.xOffset = clampInt(v.xOffset-step, 0, v.maxXOffset())
}

// Top / Bottom implement `g`/`G`.
func (v *Viewport) Top()    { v.yOffset = 0 }
func (v *Viewport) Bottom() { v.yOffset = v.maxYOffset() }

// FirstColumn / LastColumn implement `0`/`$`.
func (v *Viewport) FirstColumn() { v.xOffset = 0 }
func (v *Viewport) LastColumn()  { v.xOffset = v.maxXOffset() }

// EnterCellSelect / EnterRowSelect implement `v`/`V`.
func (v *Viewport) EnterCellSelect() { v.mode = SelectCell }
func (v *Viewport) EnterRowSelect()  { v.mode = SelectRow }

// ToggleRowToCell implements Enter while in a selection mode.
func (v *Viewport) ToggleRowToCell() {
	if v.mode == SelectRow {
		v.mode = SelectCell
	}
}

// StepSelectionBack implements Backspace: Cell -> Row -> None.
func (v *Viewport) StepSelectionBack() {
	switch v.mode {
	case SelectCell, SelectCopied:
		v.mode = SelectRow
	case SelectRow:
		v.mode = SelectNone
	}
}

// ClearSelection implements Esc.
func (v *Viewport) ClearSelection() { v.mode = SelectNone }

func (v *Viewport) Mode() SelectionMode { return v.mode }

// MoveCursor moves the selection cursor by (dCol, dRow), clamped to the
// table's bounds.
func (v *Viewport) MoveCursor(dCol, dRow int) {
	if len(v.table.Headers) > 0 {
		v.colIdx = clampInt(v.colIdx+dCol, 0, len(v.table.Headers)-1)
	}
	if len(v.table.Rows) > 0 {
		v.rowIdx = clampInt(v.rowIdx+dRow, 0, len(v.table.Rows)-1)
	}
}

func (v *Viewport) Cursor() (col, row int) { return v.colIdx, v.rowIdx }

// Yank implements `y`: returns the text to copy (a single cell, or a
// comma-joined row) and transitions to Copied.
func (v *Viewport) Yank() string {
	var text string
	switch v.mode {
	case SelectRow:
		if v.rowIdx >= 0 && v.rowIdx < len(v.table.Rows) {
			text = strings.Join(v.table.Rows[v.rowIdx], ", ")
		}
	default:
		if v.rowIdx >= 0 && v.rowIdx < len(v.table.Rows) &&
			v.colIdx >= 0 && v.colIdx < len(v.table.Rows[v.rowIdx]) {
			text = v.table.Rows[v.rowIdx][v.colIdx]
		}
	}
	v.mode = SelectCopied
	return text
}

// VisibleSlice returns the rows currently in view after applying yOffset,
// capped to the buffer height — the row half of the rendering contract in
// SPEC_FULL.md §4.5.
func (v *Viewport) VisibleSlice() []model.Row {
	start := v.yOffset
	if start > len(v.table.Rows) {
		start = len(v.table.Rows)
	}
	end := start + v.bufferHeight()
	if end > len(v.table.Rows) {
		end = len(v.table.Rows)
	}
	return v.table.Rows[start:end]
}

// HasVerticalScrollbar / HasHorizontalScrollbar report whether the
// corresponding scrollbar should be drawn (max offset > 0).
func (v *Viewport) HasVerticalScrollbar() bool   { return v.maxYOffset() > 0 }
func (v *Viewport) HasHorizontalScrollbar() bool { return v.maxXOffset() > 0 }
