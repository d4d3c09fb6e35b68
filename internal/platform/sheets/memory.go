package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryClient is an in-process Client. It mirrors the value semantics of the
// spreadsheet API closely enough for development and tests: trailing empty
// rows and cells are trimmed on read, cleared rows stay in place as blanks and
// appends land after the last non-empty row.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string][][]string
	order  []string
}

// NewMemoryClient creates an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{tables: make(map[string][][]string)}
}

func (m *MemoryClient) grid(table string) ([][]string, error) {
	g, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("sheets: unable to parse range: table %q does not exist", table)
	}
	return g, nil
}

func (m *MemoryClient) Get(_ context.Context, rng string) ([][]string, error) {
	r, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, err := m.grid(r.table)
	if err != nil {
		return nil, err
	}

	last := len(g)
	if r.end.row != 0 && r.end.row < last {
		last = r.end.row
	}
	var out [][]string
	for rowNum := r.start.row; rowNum <= last; rowNum++ {
		src := g[rowNum-1]
		var cells []string
		for col := r.start.col; col <= r.end.col && col < len(src); col++ {
			cells = append(cells, src[col])
		}
		out = append(out, trimCells(cells))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *MemoryClient) Append(_ context.Context, rng string, rows [][]string) error {
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.grid(r.table)
	if err != nil {
		return err
	}

	next := len(g)
	for next > 0 && len(trimCells(g[next-1])) == 0 {
		next--
	}
	for i, row := range rows {
		g = writeRow(g, next+i, r.start.col, row)
	}
	m.tables[r.table] = g
	return nil
}

func (m *MemoryClient) Update(_ context.Context, rng string, rows [][]string) error {
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.grid(r.table)
	if err != nil {
		return err
	}
	for i, row := range rows {
		g = writeRow(g, r.start.row-1+i, r.start.col, row)
	}
	m.tables[r.table] = g
	return nil
}

func (m *MemoryClient) Clear(_ context.Context, rng string) error {
	r, err := parseRange(rng)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, err := m.grid(r.table)
	if err != nil {
		return err
	}
	last := len(g)
	if r.end.row != 0 && r.end.row < last {
		last = r.end.row
	}
	for rowNum := r.start.row; rowNum <= last; rowNum++ {
		row := g[rowNum-1]
		for col := r.start.col; col <= r.end.col && col < len(row); col++ {
			row[col] = ""
		}
	}
	return nil
}

func (m *MemoryClient) Tables(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryClient) AddTable(_ context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[title]; ok {
		return fmt.Errorf("sheets: a sheet with the name %q already exists", title)
	}
	m.tables[title] = nil
	m.order = append(m.order, title)
	return nil
}

// writeRow stores values at the zero-based row index starting at column col,
// growing the grid as needed.
func writeRow(g [][]string, idx, col int, values []string) [][]string {
	for len(g) <= idx {
		g = append(g, nil)
	}
	row := g[idx]
	for len(row) < col+len(values) {
		row = append(row, "")
	}
	copy(row[col:], values)
	g[idx] = row
	return g
}

func trimCells(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}
