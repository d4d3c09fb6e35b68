package billing

import (
	"context"
	"strconv"

	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/pkg/apperr"
)

// Schema is the Billing table layout.
var Schema = sheets.Schema{
	Name:    "Billing",
	Columns: []string{"PaymentID", "PatientID", "Date", "Amount", "Method", "MonthRef"},
}

const (
	colID = iota
	colPatientID
	colDate
	colAmount
	colMethod
	colMonthRef
)

type sheetRepo struct {
	table *sheets.Table
}

func NewSheetRepo(store *sheets.Store) Repository {
	return &sheetRepo{table: store.Table(Schema)}
}

func (r *sheetRepo) List(ctx context.Context) ([]*Entry, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (r *sheetRepo) GetByID(ctx context.Context, id string) (*Entry, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Key() == id {
			return fromRow(row), nil
		}
	}
	return nil, apperr.NotFound("payment", id)
}

func (r *sheetRepo) Create(ctx context.Context, e *Entry) error {
	return r.table.Append(ctx, toRow(e))
}

func (r *sheetRepo) Update(ctx context.Context, e *Entry) error {
	return notFoundAs(r.table.Overwrite(ctx, e.ID, toRow(e)), e.ID)
}

// Delete blanks the payment row in place.
func (r *sheetRepo) Delete(ctx context.Context, id string) error {
	return notFoundAs(r.table.Clear(ctx, id), id)
}

func notFoundAs(err error, id string) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.NotFound("payment", id)
	}
	return err
}

func toRow(e *Entry) []string {
	return []string{
		e.ID,
		e.PatientID,
		e.Date,
		strconv.FormatFloat(e.Amount, 'f', -1, 64),
		e.Method,
		e.MonthRef,
	}
}

// fromRow decodes a row. An amount that does not parse reads as 0.
func fromRow(row sheets.Row) *Entry {
	amount, _ := strconv.ParseFloat(row.Get(colAmount), 64)
	return &Entry{
		ID:        row.Get(colID),
		PatientID: row.Get(colPatientID),
		Date:      row.Get(colDate),
		Amount:    amount,
		Method:    row.Get(colMethod),
		MonthRef:  row.Get(colMonthRef),
	}
}
