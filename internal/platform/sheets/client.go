// Package sheets treats a spreadsheet as a small relational store: each tab is
// a table, row 1 holds the header and column A holds the primary key.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Client is the tabular store contract. Ranges use A1 notation prefixed with
// the table name, e.g. "Patients!A2:G".
type Client interface {
	Get(ctx context.Context, rng string) ([][]string, error)
	Append(ctx context.Context, rng string, rows [][]string) error
	Update(ctx context.Context, rng string, rows [][]string) error
	Clear(ctx context.Context, rng string) error
	// Tables lists the titles of the existing tables.
	Tables(ctx context.Context) ([]string, error)
	// AddTable creates an empty table.
	AddTable(ctx context.Context, title string) error
}

// ColumnLetter converts a zero-based column index into its A1 letter form.
func ColumnLetter(idx int) string {
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// columnIndex converts an A1 column label into a zero-based index.
func columnIndex(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("empty column")
	}
	n := 0
	for _, r := range strings.ToUpper(label) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column %q", label)
		}
		n = n*26 + int(r-'A'+1)
	}
	return n - 1, nil
}

// cellRef is one side of an A1 range. Row 0 means "open" (no row bound).
type cellRef struct {
	col int
	row int
}

// a1Range is a parsed range. endRow 0 means the range runs to the last row.
type a1Range struct {
	table string
	start cellRef
	end   cellRef
}

func parseCell(s string) (cellRef, error) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	col, err := columnIndex(s[:i])
	if err != nil {
		return cellRef{}, err
	}
	ref := cellRef{col: col}
	if i < len(s) {
		row, err := strconv.Atoi(s[i:])
		if err != nil || row < 1 {
			return cellRef{}, fmt.Errorf("invalid row in %q", s)
		}
		ref.row = row
	}
	return ref, nil
}

// parseRange understands the forms used by this package: "T!A1", "T!G5",
// "T!A:G", "T!A2:G" and "T!A5:G5".
func parseRange(rng string) (a1Range, error) {
	table, cells, ok := strings.Cut(rng, "!")
	if !ok || table == "" || cells == "" {
		return a1Range{}, fmt.Errorf("sheets: invalid range %q", rng)
	}
	from, to, isSpan := strings.Cut(cells, ":")
	start, err := parseCell(from)
	if err != nil {
		return a1Range{}, fmt.Errorf("sheets: invalid range %q: %w", rng, err)
	}
	if start.row == 0 {
		start.row = 1
	}
	end := start
	if isSpan {
		end, err = parseCell(to)
		if err != nil {
			return a1Range{}, fmt.Errorf("sheets: invalid range %q: %w", rng, err)
		}
	}
	if end.col < start.col || (end.row != 0 && end.row < start.row) {
		return a1Range{}, fmt.Errorf("sheets: inverted range %q", rng)
	}
	return a1Range{table: table, start: start, end: end}, nil
}

// RangeFrom returns "table!<firstCol><row>:<lastCol>" as the open-ended body
// range starting at the given row.
func RangeFrom(table string, row, columns int) string {
	return fmt.Sprintf("%s!A%d:%s", table, row, ColumnLetter(columns-1))
}

// RowRange addresses one full row of a table.
func RowRange(table string, row, columns int) string {
	return fmt.Sprintf("%s!A%d:%s%d", table, row, ColumnLetter(columns-1), row)
}

// CellRange addresses a single cell.
func CellRange(table string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", table, ColumnLetter(col), row)
}

// ColumnsRange addresses whole columns, the form used for appends.
func ColumnsRange(table string, columns int) string {
	return fmt.Sprintf("%s!A:%s", table, ColumnLetter(columns-1))
}
