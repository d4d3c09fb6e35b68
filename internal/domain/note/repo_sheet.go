package note

import (
	"context"

	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/pkg/apperr"
)

// Schema is the ClinicalNotes table layout.
var Schema = sheets.Schema{
	Name:    "ClinicalNotes",
	Columns: []string{"SessionID", "TherapyContent", "Homework", "InternalPrivateNotes"},
}

type sheetRepo struct {
	table *sheets.Table
}

func NewSheetRepo(store *sheets.Store) Repository {
	return &sheetRepo{table: store.Table(Schema)}
}

func (r *sheetRepo) List(ctx context.Context) ([]*Note, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (r *sheetRepo) GetBySessionID(ctx context.Context, sessionID string) (*Note, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Key() == sessionID {
			return fromRow(row), nil
		}
	}
	return nil, apperr.NotFound("note", sessionID)
}

func (r *sheetRepo) Upsert(ctx context.Context, n *Note) error {
	_, err := r.table.Upsert(ctx, toRow(n))
	return err
}

// DeleteBySessionID clears every note row of the session, so duplicates
// left by older writers go too.
func (r *sheetRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	cleared := 0
	for {
		err := r.table.Clear(ctx, sessionID)
		if apperr.KindOf(err) == apperr.KindNotFound {
			break
		}
		if err != nil {
			return err
		}
		cleared++
	}
	if cleared == 0 {
		return apperr.NotFound("note", sessionID)
	}
	return nil
}

func toRow(n *Note) []string {
	return []string{n.SessionID, n.TherapyContent, n.Homework, n.InternalPrivateNotes}
}

func fromRow(row sheets.Row) *Note {
	return &Note{
		SessionID:            row.Get(0),
		TherapyContent:       row.Get(1),
		Homework:             row.Get(2),
		InternalPrivateNotes: row.Get(3),
	}
}
