package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"geodraw/internal/draw"
	"geodraw/internal/geom"
)

var attrBaseCols = []string{"id", "type", "generator", "vertices", "wkt"}

const (
	maxColW = 24
	wktColW = 32
)

// refreshAttrs rebuilds the table from the drawing's features.
func (m *Model) refreshAttrs() {
	cols, rows, ids := buildAttributes(m.ctrl.Features())
	if len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.setStatus("no features to list")
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		w := min(len(c)+2, maxColW)
		if c == "wkt" {
			w = wktColW
		}
		tcols = append(tcols, table.Column{Title: c, Width: max(w, 6)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		for j, v := range r {
			row = append(row, truncate(v, tcols[j+1].Width))
		}
		trows = append(trows, table.Row(row))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	m.attrIDs = ids
}

// buildAttributes returns one row per drawn feature: the fixed columns
// followed by the union of extra property keys, sorted.
func buildAttributes(features []draw.Feature) ([]string, [][]string, []draw.ID) {
	var (
		shapes []draw.Feature
		keys   []string
		seen   = map[string]bool{}
	)
	for _, f := range features {
		if f.IsHandle() {
			continue
		}
		shapes = append(shapes, f)
		for k := range f.Properties.Extra {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	cols := append(append([]string{}, attrBaseCols...), keys...)

	rows := make([][]string, 0, len(shapes))
	ids := make([]draw.ID, 0, len(shapes))
	for _, f := range shapes {
		vals := []string{
			string(f.ID),
			f.Type(),
			f.Properties.Generator,
			fmt.Sprintf("%d", len(f.Properties.Handles)),
			geom.FormatWKT(f.Geometry),
		}
		for _, k := range keys {
			vals = append(vals, formatValue(f.Properties.Extra[k]))
		}
		rows = append(rows, vals)
		ids = append(ids, f.ID)
	}
	return cols, rows, ids
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
