package billing

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

// NewRepoPG returns a Postgres repository. Deleted payments keep their row
// with deleted_at set.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const entryCols = `id, patient_id, date, amount, method, month_ref`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.PatientID, &e.Date, &e.Amount, &e.Method, &e.MonthRef); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) List(ctx context.Context) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM billing WHERE deleted_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Entry, error) {
	e, err := scanEntry(r.conn(ctx).QueryRow(ctx,
		`SELECT `+entryCols+` FROM billing WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("payment", id)
	}
	return e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO billing (id, patient_id, date, amount, method, month_ref)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.PatientID, e.Date, e.Amount, e.Method, e.MonthRef)
	return err
}

func (r *repoPG) Update(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE billing SET patient_id = $2, date = $3, amount = $4, method = $5, month_ref = $6
		WHERE id = $1 AND deleted_at IS NULL`,
		e.ID, e.PatientID, e.Date, e.Amount, e.Method, e.MonthRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("payment", e.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE billing SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("payment", id)
	}
	return nil
}
