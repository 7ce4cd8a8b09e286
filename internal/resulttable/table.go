// Package resulttable holds the in-memory rectangular snapshot of a query's
// output: column names plus text cells. It is the unit the Snapshot Aligner
// compares, the Diff operation transforms, and the renderer draws.
package resulttable

import (
	"sort"
	"strconv"

	"github.com/yibit/pgcenter/internal/viewcatalog"
)

// Table is a materialised query result. Every row has exactly
// len(ColumnNames) cells (invariant from spec.md §3).
type Table struct {
	ColumnNames []string
	Rows        [][]string
}

// New builds a Table from already-fetched rows. Cells must be pre-formatted
// as text (the database client library formats values before handing them
// here — see internal/pgstat).
func New(columnNames []string, rows [][]string) *Table {
	return &Table{ColumnNames: columnNames, Rows: rows}
}

// NRows and NCols name the data model's n_rows/n_cols directly.
func (t *Table) NRows() int { return len(t.Rows) }
func (t *Table) NCols() int { return len(t.ColumnNames) }

// Clone deep-copies the table so a caller can keep one copy as a baseline
// while mutating (sorting) another.
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.ColumnNames...)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return &Table{ColumnNames: cols, Rows: rows}
}

// Diff computes curr-minus-prev for every column in view's diff range,
// passing every other column through from curr verbatim. Rows are paired
// by position, so prev must have at least as many rows as curr and the same
// columns — the Snapshot Aligner never calls Diff after a row-count growth,
// but does call it after a shrink.
// A cell that fails to parse as a signed 64-bit integer contributes 0 to
// the result rather than aborting the tick (spec.md §4.3, §7).
func Diff(prev, curr *Table, view viewcatalog.View) *Table {
	if !view.HasDiff() {
		return curr.Clone()
	}
	out := curr.Clone()
	for i := range out.Rows {
		for j := view.DiffMin; j <= view.DiffMax && j < len(out.Rows[i]); j++ {
			c := parseInt(curr.Rows[i][j])
			p := parseInt(prev.Rows[i][j])
			out.Rows[i][j] = strconv.FormatInt(c-p, 10)
		}
	}
	return out
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// SortInPlace reorders rows by the numeric value of column orderKey.
// desc == true puts larger values first. orderKey == -1 (an unsortable
// view) is a no-op. Ties keep their original relative order — sort.SliceStable
// gives that for free, which satisfies "tie-break by original position"
// without needing to track indices explicitly.
func (t *Table) SortInPlace(orderKey int, desc bool) {
	if orderKey < 0 || orderKey >= t.NCols() {
		return
	}
	less := func(i, j int) bool {
		a := parseInt(t.Rows[i][orderKey])
		b := parseInt(t.Rows[j][orderKey])
		if desc {
			return a > b
		}
		return a < b
	}
	sort.SliceStable(t.Rows, less)
}

// ColumnWidths returns, for each column, the max of the header length and
// the longest cell in that column, plus two characters of padding.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, t.NCols())
	for j, name := range t.ColumnNames {
		widths[j] = len(name)
	}
	for _, row := range t.Rows {
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}
	for j := range widths {
		widths[j] += 2
	}
	return widths
}
