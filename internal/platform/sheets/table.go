package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/clinic/clinic/pkg/apperr"
)

// headerRows is the number of rows above the table body.
const headerRows = 1

// Schema describes a table: its title and header row. The first column is
// the primary key.
type Schema struct {
	Name    string
	Columns []string
}

// Width returns the number of columns.
func (s Schema) Width() int { return len(s.Columns) }

// Row is one body row with its 1-based sheet row number.
type Row struct {
	Number int
	Values []string
}

// Key returns the primary key cell.
func (r Row) Key() string { return r.Get(0) }

// Get returns the cell at idx, or "" when the row is short.
func (r Row) Get(idx int) string {
	if idx < 0 || idx >= len(r.Values) {
		return ""
	}
	return r.Values[idx]
}

// Table is row-oriented access to one spreadsheet table. Writes are
// serialized by a per-table mutex so a key lookup and the write that depends
// on it cannot interleave with another write from this process.
type Table struct {
	client Client
	schema Schema
	mu     sync.Mutex
}

// NewTable creates a Table. Repositories should obtain tables from a Store so
// they share the write lock.
func NewTable(client Client, schema Schema) *Table {
	return &Table{client: client, schema: schema}
}

func (t *Table) Schema() Schema { return t.schema }

func (t *Table) bodyRange() string {
	return RangeFrom(t.schema.Name, headerRows+1, t.schema.Width())
}

// rawRows returns every body row, blank ones included, padded to the
// table width.
func (t *Table) rawRows(ctx context.Context) ([]Row, error) {
	values, err := t.client.Get(ctx, t.bodyRange())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.schema.Name, err)
	}
	rows := make([]Row, 0, len(values))
	for i, v := range values {
		padded := make([]string, t.schema.Width())
		copy(padded, v)
		rows = append(rows, Row{Number: i + headerRows + 1, Values: padded})
	}
	return rows, nil
}

// Rows returns the body rows in sheet order, skipping rows whose key cell
// is empty (cleared or never written).
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	raw, err := t.rawRows(ctx)
	if err != nil {
		return nil, err
	}
	rows := raw[:0]
	for _, r := range raw {
		if r.Key() != "" {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// Find returns the sheet row number of the first row with the given key.
func (t *Table) Find(ctx context.Context, key string) (int, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if r.Key() == key {
			return r.Number, nil
		}
	}
	return 0, apperr.NotFound(t.schema.Name+" row", key)
}

// Append adds a row after the last non-empty row.
func (t *Table) Append(ctx context.Context, values []string) error {
	if err := t.checkWidth(values); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.client.Append(ctx, ColumnsRange(t.schema.Name, t.schema.Width()), [][]string{values}); err != nil {
		return fmt.Errorf("append %s: %w", t.schema.Name, err)
	}
	return nil
}

// Overwrite replaces the full row identified by key.
func (t *Table) Overwrite(ctx context.Context, key string, values []string) error {
	if err := t.checkWidth(values); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.Find(ctx, key)
	if err != nil {
		return err
	}
	if err := t.client.Update(ctx, RowRange(t.schema.Name, n, t.schema.Width()), [][]string{values}); err != nil {
		return fmt.Errorf("update %s row %d: %w", t.schema.Name, n, err)
	}
	return nil
}

// SetCell writes a single cell of the row identified by key.
func (t *Table) SetCell(ctx context.Context, key string, col int, value string) error {
	if col <= 0 || col >= t.schema.Width() {
		return fmt.Errorf("set cell %s: column %d out of range", t.schema.Name, col)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.Find(ctx, key)
	if err != nil {
		return err
	}
	if err := t.client.Update(ctx, CellRange(t.schema.Name, col, n), [][]string{{value}}); err != nil {
		return fmt.Errorf("update %s row %d: %w", t.schema.Name, n, err)
	}
	return nil
}

// Clear blanks the row identified by key. The row itself stays in place and
// is skipped by later reads.
func (t *Table) Clear(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.Find(ctx, key)
	if err != nil {
		return err
	}
	if err := t.client.Clear(ctx, RowRange(t.schema.Name, n, t.schema.Width())); err != nil {
		return fmt.Errorf("clear %s row %d: %w", t.schema.Name, n, err)
	}
	return nil
}

// Upsert overwrites the row keyed by values[0] or appends it when absent.
// It reports whether a new row was created.
func (t *Table) Upsert(ctx context.Context, values []string) (bool, error) {
	if err := t.checkWidth(values); err != nil {
		return false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := t.Find(ctx, values[0])
	switch {
	case err == nil:
		if err := t.client.Update(ctx, RowRange(t.schema.Name, n, t.schema.Width()), [][]string{values}); err != nil {
			return false, fmt.Errorf("update %s row %d: %w", t.schema.Name, n, err)
		}
		return false, nil
	case apperr.KindOf(err) == apperr.KindNotFound:
		if err := t.client.Append(ctx, ColumnsRange(t.schema.Name, t.schema.Width()), [][]string{values}); err != nil {
			return false, fmt.Errorf("append %s: %w", t.schema.Name, err)
		}
		return true, nil
	default:
		return false, err
	}
}

// Compact rewrites the table body without blank rows and returns how many
// rows were dropped.
func (t *Table) Compact(ctx context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	raw, err := t.rawRows(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([][]string, 0, len(raw))
	for _, r := range raw {
		if r.Key() != "" {
			kept = append(kept, r.Values)
		}
	}
	removed := len(raw) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := t.client.Clear(ctx, t.bodyRange()); err != nil {
		return 0, fmt.Errorf("clear %s: %w", t.schema.Name, err)
	}
	if len(kept) > 0 {
		if err := t.client.Update(ctx, RangeFrom(t.schema.Name, headerRows+1, t.schema.Width()), kept); err != nil {
			return 0, fmt.Errorf("rewrite %s: %w", t.schema.Name, err)
		}
	}
	return removed, nil
}

func (t *Table) checkWidth(values []string) error {
	if len(values) != t.schema.Width() {
		return fmt.Errorf("%s: expected %d values, got %d", t.schema.Name, t.schema.Width(), len(values))
	}
	if values[0] == "" {
		return fmt.Errorf("%s: empty key", t.schema.Name)
	}
	return nil
}
