// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/drivered-tui/internal/ui/styles"
	"github.com/jeranaias/drivered-tui/internal/util"
)

// =============================================================================
// TABLE
// =============================================================================

// Column defines one table column.
type Column struct {
	Title string
	Width int
}

// Row is one table row; cells align with the column definitions. A cell may
// carry a pre-styled suffix (badges), so padding is width-aware.
type Row struct {
	Cells []string
}

// Table is a minimal scrollable row selector for the roster views.
type Table struct {
	theme   *styles.Theme
	columns []Column
	rows    []Row
	cursor  int
	height  int // visible rows; 0 = unlimited
	offset  int
}

// NewTable creates a table with the given columns.
func NewTable(theme *styles.Theme, columns []Column) *Table {
	return &Table{theme: theme, columns: columns, height: 0}
}

// SetRows replaces the table content, clamping the cursor.
func (t *Table) SetRows(rows []Row) {
	t.rows = rows
	if t.cursor >= len(rows) {
		t.cursor = len(rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.clampOffset()
}

// SetHeight limits the number of visible rows (0 = show all).
func (t *Table) SetHeight(height int) {
	t.height = height
	t.clampOffset()
}

// MoveUp moves the selection up one row.
func (t *Table) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.clampOffset()
}

// MoveDown moves the selection down one row.
func (t *Table) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
	t.clampOffset()
}

// Cursor returns the selected row index, -1 when empty.
func (t *Table) Cursor() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.cursor
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) clampOffset() {
	if t.height <= 0 {
		t.offset = 0
		return
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.height {
		t.offset = t.cursor - t.height + 1
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View renders the table: styled header row, then the visible window of
// rows with the selection highlighted.
func (t *Table) View() string {
	var sb strings.Builder

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = util.PadWidth(col.Title, col.Width)
	}
	sb.WriteString(t.theme.TableHeader.Render(strings.Join(headers, "  ")))
	sb.WriteString("\n")

	start, end := 0, len(t.rows)
	if t.height > 0 {
		start = t.offset
		if end > start+t.height {
			end = start + t.height
		}
	}

	for i := start; i < end; i++ {
		cells := make([]string, len(t.columns))
		for j, col := range t.columns {
			cell := ""
			if j < len(t.rows[i].Cells) {
				cell = t.rows[i].Cells[j]
			}
			cells[j] = util.PadWidth(cell, col.Width)
		}
		line := strings.Join(cells, "  ")
		if i == t.cursor {
			sb.WriteString(t.theme.TableRowSelected.Render(line))
		} else {
			sb.WriteString(t.theme.TableRow.Render(line))
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
