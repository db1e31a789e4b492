// Package grid implements client-side tabular presentation of submission
// data: case-insensitive search, column sorting, per-page slicing, and
// column visibility toggles.
package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Row is one record keyed by column id.
type Row map[string]any

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Data is one rendered page of the table.
type Data struct {
	Columns    []string `json:"columns"`
	Rows       []Row    `json:"rows"`
	TotalItems int      `json:"totalItems"`
}

// Table holds grid state over an immutable row set. It is not safe for
// concurrent use.
type Table struct {
	columns []string
	hidden  map[string]bool
	rows    []Row

	search  string
	sortCol string
	sortDir SortDirection
	page    int
	perPage int
}

// NewTable builds a table over the given columns and rows. Pages are
// 1-based; the default page size is 10.
func NewTable(columns []string, rows []Row) *Table {
	return &Table{
		columns: append([]string(nil), columns...),
		hidden:  make(map[string]bool),
		rows:    rows,
		page:    1,
		perPage: 10,
	}
}

// SetSearch replaces the search query and resets to the first page.
func (t *Table) SetSearch(query string) {
	t.search = strings.ToLower(strings.TrimSpace(query))
	t.page = 1
}

// SetSort orders rows by the column. Sorting an unknown column is a no-op.
func (t *Table) SetSort(column string, dir SortDirection) {
	if !t.hasColumn(column) {
		return
	}
	t.sortCol = column
	if dir != SortDesc {
		dir = SortAsc
	}
	t.sortDir = dir
}

// SetPage moves to the 1-based page. Out-of-range values clamp.
func (t *Table) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	t.page = page
}

// SetPerPage changes the page size and resets to the first page.
func (t *Table) SetPerPage(n int) {
	if n < 1 {
		n = 1
	}
	t.perPage = n
	t.page = 1
}

// ToggleColumn flips a column's visibility. Unknown columns are ignored.
func (t *Table) ToggleColumn(column string) {
	if !t.hasColumn(column) {
		return
	}
	t.hidden[column] = !t.hidden[column]
}

// Page applies search, sort, and pagination and returns the current page.
func (t *Table) Page() Data {
	rows := t.filtered()
	total := len(rows)

	if t.sortCol != "" {
		rows = sortRows(rows, t.sortCol, t.sortDir)
	}

	page := t.page
	maxPage := (total + t.perPage - 1) / t.perPage
	if maxPage < 1 {
		maxPage = 1
	}
	if page > maxPage {
		page = maxPage
	}
	start := (page - 1) * t.perPage
	end := start + t.perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Data{
		Columns:    t.visibleColumns(),
		Rows:       rows[start:end],
		TotalItems: total,
	}
}

func (t *Table) hasColumn(column string) bool {
	for _, c := range t.columns {
		if c == column {
			return true
		}
	}
	return false
}

func (t *Table) visibleColumns() []string {
	out := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !t.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

// filtered matches the search query against every column except "id".
func (t *Table) filtered() []Row {
	if t.search == "" {
		return append([]Row(nil), t.rows...)
	}
	var out []Row
	for _, row := range t.rows {
		for _, col := range t.columns {
			if col == "id" {
				continue
			}
			if strings.Contains(strings.ToLower(cellString(row[col])), t.search) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func sortRows(rows []Row, column string, dir SortDirection) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDesc {
			return cellLess(out[j][column], out[i][column])
		}
		return cellLess(out[i][column], out[j][column])
	})
	return out
}

// cellLess orders numerically when both cells parse as numbers, otherwise by
// case-folded string comparison.
func cellLess(a, b any) bool {
	an, aok := cellNumber(a)
	bn, bok := cellNumber(b)
	if aok && bok {
		return an < bn
	}
	return strings.ToLower(cellString(a)) < strings.ToLower(cellString(b))
}

func cellNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func cellString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case []string:
		return strings.Join(s, ", ")
	case []any:
		parts := make([]string, 0, len(s))
		for _, item := range s {
			parts = append(parts, cellString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}
