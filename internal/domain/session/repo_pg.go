package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/pkg/apperr"
)

var pg = goqu.Dialect("postgres")

type repoPG struct {
	pool *pgxpool.Pool
}

// NewRepoPG returns a Postgres repository. Deletes are tombstones on
// deleted_at; every read skips tombstoned rows.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

var sessionCols = []interface{}{"id", "patient_id", "date", "start_time", "duration", "status"}

const sessionColsSQL = `id, patient_id, date, start_time, duration, status`

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	if err := row.Scan(&s.ID, &s.PatientID, &s.Date, &s.StartTime, &s.Duration, &s.Status); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) query(ctx context.Context, sql string, args ...interface{}) ([]*Session, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repoPG) List(ctx context.Context) ([]*Session, error) {
	return r.query(ctx, `SELECT `+sessionColsSQL+` FROM sessions WHERE deleted_at IS NULL ORDER BY created_at, id`)
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Session, error) {
	s, err := scanSession(r.conn(ctx).QueryRow(ctx,
		`SELECT `+sessionColsSQL+` FROM sessions WHERE id = $1 AND deleted_at IS NULL`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("session", id)
	}
	return s, err
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO sessions (id, patient_id, date, start_time, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.PatientID, s.Date, s.StartTime, s.Duration, s.Status)
	return err
}

func (r *repoPG) Update(ctx context.Context, s *Session) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE sessions SET patient_id = $2, date = $3, start_time = $4, duration = $5, status = $6
		WHERE id = $1 AND deleted_at IS NULL`,
		s.ID, s.PatientID, s.Date, s.StartTime, s.Duration, s.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session", s.ID)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE sessions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("session", id)
	}
	return nil
}

// historyDataset applies the history filters to the live sessions.
func historyDataset(q HistoryQuery) *goqu.SelectDataset {
	ds := pg.From("sessions").Where(goqu.C("deleted_at").IsNull())
	if q.PatientID != "" {
		ds = ds.Where(goqu.C("patient_id").Eq(q.PatientID))
	}
	if q.Status != "" {
		ds = ds.Where(goqu.C("status").Eq(q.Status))
	}
	if q.StartDate != "" {
		ds = ds.Where(goqu.C("date").Gte(q.StartDate))
	}
	if q.EndDate != "" {
		ds = ds.Where(goqu.C("date").Lte(q.EndDate))
	}
	return ds
}

var sortKeyExpr = goqu.L(`date || 'T' || COALESCE(NULLIF(start_time, ''), '00:00')`)

// historySQL builds the page and count statements for q.
func historySQL(q HistoryQuery) (pageSQL string, pageArgs []interface{}, countSQL string, countArgs []interface{}, err error) {
	base := historyDataset(q)

	countSQL, countArgs, err = base.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build history count: %w", err)
	}

	page := base.Select(sessionCols...)
	switch q.Sort {
	case SortDateAsc:
		page = page.Order(sortKeyExpr.Asc(), goqu.C("created_at").Asc())
	case SortDateDesc:
		page = page.Order(sortKeyExpr.Desc(), goqu.C("created_at").Asc())
	default:
		page = page.Order(goqu.C("created_at").Asc())
	}
	p := q.params()
	page = page.Limit(uint(p.PageSize)).Offset(uint(p.Offset()))

	pageSQL, pageArgs, err = page.Prepared(true).ToSQL()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("build history page: %w", err)
	}
	return pageSQL, pageArgs, countSQL, countArgs, nil
}

func (r *repoPG) SearchHistory(ctx context.Context, q HistoryQuery) ([]*Session, int, error) {
	pageSQL, pageArgs, countSQL, countArgs, err := historySQL(q)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	items, err := r.query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
