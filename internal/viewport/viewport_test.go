package viewport

import (
	"testing"

	"github.com/rainfrog/rainfrog/internal/model"
)

func bigTable(cols, rows int) model.Rows {
	t := model.Rows{}
	for c := 0; c < cols; c++ {
		t.Headers = append(t.Headers, model.Header{Name: "c"})
	}
	for r := 0; r < rows; r++ {
		row := make(model.Row, cols)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestSetTableResetsScrollAndSelection(t *testing.T) {
	v := New(100)
	v.SetRenderArea(80, 20)
	v.SetTable(bigTable(10, 50))
	v.ScrollStep(5, 5)
	v.EnterCellSelect()

	v.SetTable(bigTable(3, 3))
	x, y := v.xOffset, v.yOffset
	if x != 0 || y != 0 {
		t.Fatalf("offsets after SetTable = (%d,%d), want (0,0)", x, y)
	}
	if v.Mode() != SelectNone {
		t.Fatalf("mode after SetTable = %v, want SelectNone", v.Mode())
	}
}

func TestScrollClampsToMaxOffsets(t *testing.T) {
	v := New(10)
	v.SetRenderArea(ColumnWidth, 5)
	v.SetTable(bigTable(1, 3))

	v.ScrollStep(0, 100)
	if v.yOffset != v.maxYOffset() {
		t.Fatalf("yOffset = %d, want clamped to maxYOffset %d", v.yOffset, v.maxYOffset())
	}
	v.ScrollStep(0, -100)
	if v.yOffset != 0 {
		t.Fatalf("yOffset = %d, want 0", v.yOffset)
	}
}

func TestColumnBoundaryStepping(t *testing.T) {
	v := New(10)
	v.SetRenderArea(ColumnWidth, 5)
	v.SetTable(bigTable(5, 1))

	v.NextColumnBoundary()
	if v.xOffset != ColumnWidth {
		t.Fatalf("xOffset after NextColumnBoundary = %d, want %d", v.xOffset, ColumnWidth)
	}
	v.PrevColumnBoundary()
	if v.xOffset != 0 {
		t.Fatalf("xOffset after PrevColumnBoundary = %d, want 0", v.xOffset)
	}
}

func TestSelectionStateMachine(t *testing.T) {
	v := New(10)
	v.SetTable(bigTable(2, 2))

	v.EnterRowSelect()
	if v.Mode() != SelectRow {
		t.Fatalf("mode = %v, want SelectRow", v.Mode())
	}
	v.ToggleRowToCell()
	if v.Mode() != SelectCell {
		t.Fatalf("mode = %v, want SelectCell", v.Mode())
	}
	v.StepSelectionBack()
	if v.Mode() != SelectRow {
		t.Fatalf("mode = %v, want SelectRow", v.Mode())
	}
	v.StepSelectionBack()
	if v.Mode() != SelectNone {
		t.Fatalf("mode = %v, want SelectNone", v.Mode())
	}
}

func TestYankCellAndRow(t *testing.T) {
	v := New(10)
	tbl := bigTable(2, 1)
	tbl.Rows[0][0] = "a"
	tbl.Rows[0][1] = "b"
	v.SetTable(tbl)

	if got := v.Yank(); got != "a" {
		t.Fatalf("cell yank = %q, want %q", got, "a")
	}
	if v.Mode() != SelectCopied {
		t.Fatalf("mode after yank = %v, want SelectCopied", v.Mode())
	}

	v.EnterRowSelect()
	if got := v.Yank(); got != "a, b" {
		t.Fatalf("row yank = %q, want %q", got, "a, b")
	}
}

func TestScrollbarsOnlyWhenOverflowing(t *testing.T) {
	v := New(10)
	v.SetRenderArea(ColumnWidth*3, 10)
	v.SetTable(bigTable(3, 1))
	if v.HasHorizontalScrollbar() || v.HasVerticalScrollbar() {
		t.Fatalf("expected no scrollbars for a single row that fits its columns exactly")
	}

	v.SetTable(bigTable(10, 100))
	if !v.HasHorizontalScrollbar() || !v.HasVerticalScrollbar() {
		t.Fatalf("expected both scrollbars when content overflows")
	}
}

// TestVerticalScrollbarTracksRowCountNotBufferHeight pins max_y_offset to
// spec.md §3's max(0, |rows|-1): the vertical scrollbar appears whenever
// there is more than one row, even if every row already fits within the
// rendered buffer height — it is not gated on overflowing bufferHeight.
func TestVerticalScrollbarTracksRowCountNotBufferHeight(t *testing.T) {
	v := New(10)
	v.SetRenderArea(ColumnWidth, 10)
	v.SetTable(bigTable(1, 3))
	if !v.HasVerticalScrollbar() {
		t.Fatalf("expected a vertical scrollbar for 3 rows even though bufferHeight (10) exceeds the row count")
	}
	if got, want := v.maxYOffset(), 2; got != want {
		t.Fatalf("maxYOffset = %d, want %d (len(rows)-1)", got, want)
	}

	v.SetTable(bigTable(1, 1))
	if v.HasVerticalScrollbar() {
		t.Fatalf("expected no vertical scrollbar for a single row")
	}
}

func TestBottomLandsOnLastRow(t *testing.T) {
	v := New(10)
	v.SetRenderArea(ColumnWidth, 10)
	v.SetTable(bigTable(1, 5))

	v.Bottom()
	if v.yOffset != 4 {
		t.Fatalf("yOffset after Bottom = %d, want 4 (last row index)", v.yOffset)
	}
	visible := v.VisibleSlice()
	if len(visible) != 1 {
		t.Fatalf("VisibleSlice() after Bottom has %d rows, want 1 (only the last row)", len(visible))
	}
}
