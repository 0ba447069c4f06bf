package tui

import (
	"fmt"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"geoview/internal/geom"
)

// maxColW caps the width of an attribute column.
const maxColW = 24

// refreshAttrsFromCurrent rebuilds the table columns/rows from the loaded collection
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := geom.Attributes(m.coll)
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for i, c := range cols {
		w := len(c)
		for _, r := range rows {
			w = max(w, len(r[i]))
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make(table.Row, 0, len(tcols))
		row = append(row, fmt.Sprintf("%d", i+1))
		for _, v := range r {
			row = append(row, strings.ReplaceAll(v, "\n", " "))
		}
		trows = append(trows, row)
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.tbl.SetCursor(0)
}

// selectFromTable highlights the feature under the table cursor.
func (m *Model) selectFromTable() {
	if m.coll == nil {
		return
	}
	if i := m.tbl.Cursor(); i >= 0 && i < m.coll.Len() {
		m.selected = i
		m.inspectPopup = geom.Describe(m.coll.Features[i])
	}
}
