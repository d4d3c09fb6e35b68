package session

import (
	"context"

	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/pkg/apperr"
)

// Schema is the Sessions table layout.
var Schema = sheets.Schema{
	Name:    "Sessions",
	Columns: []string{"SessionID", "PatientID", "Date", "StartTime", "Duration", "Status"},
}

type sheetRepo struct {
	table *sheets.Table
}

func NewSheetRepo(store *sheets.Store) Repository {
	return &sheetRepo{table: store.Table(Schema)}
}

func (r *sheetRepo) List(ctx context.Context) ([]*Session, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (r *sheetRepo) GetByID(ctx context.Context, id string) (*Session, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Key() == id {
			return fromRow(row), nil
		}
	}
	return nil, apperr.NotFound("session", id)
}

func (r *sheetRepo) Create(ctx context.Context, s *Session) error {
	return r.table.Append(ctx, toRow(s))
}

func (r *sheetRepo) Update(ctx context.Context, s *Session) error {
	return notFoundAs(r.table.Overwrite(ctx, s.ID, toRow(s)), s.ID)
}

// Delete blanks the session row; it is skipped by every later read.
func (r *sheetRepo) Delete(ctx context.Context, id string) error {
	return notFoundAs(r.table.Clear(ctx, id), id)
}

func notFoundAs(err error, id string) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.NotFound("session", id)
	}
	return err
}

func toRow(s *Session) []string {
	return []string{s.ID, s.PatientID, s.Date, s.StartTime, s.Duration, s.Status}
}

func fromRow(row sheets.Row) *Session {
	return &Session{
		ID:        row.Get(0),
		PatientID: row.Get(1),
		Date:      row.Get(2),
		StartTime: row.Get(3),
		Duration:  row.Get(4),
		Status:    row.Get(5),
	}
}
