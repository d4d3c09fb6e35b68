package note

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/pkg/apperr"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const noteCols = `session_id, therapy_content, homework, internal_private_notes`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	if err := row.Scan(&n.SessionID, &n.TherapyContent, &n.Homework, &n.InternalPrivateNotes); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+noteCols+` FROM clinical_notes ORDER BY session_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repoPG) GetBySessionID(ctx context.Context, sessionID string) (*Note, error) {
	n, err := scanNote(r.conn(ctx).QueryRow(ctx,
		`SELECT `+noteCols+` FROM clinical_notes WHERE session_id = $1`, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("note", sessionID)
	}
	return n, err
}

func (r *repoPG) Upsert(ctx context.Context, n *Note) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinical_notes (session_id, therapy_content, homework, internal_private_notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			therapy_content = EXCLUDED.therapy_content,
			homework = EXCLUDED.homework,
			internal_private_notes = EXCLUDED.internal_private_notes,
			updated_at = NOW()`,
		n.SessionID, n.TherapyContent, n.Homework, n.InternalPrivateNotes)
	return err
}

func (r *repoPG) DeleteBySessionID(ctx context.Context, sessionID string) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinical_notes WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("note", sessionID)
	}
	return nil
}
