package patient

import (
	"context"
	"strconv"

	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/pkg/apperr"
)

// Schema is the Patients table layout.
var Schema = sheets.Schema{
	Name:    "Patients",
	Columns: []string{"ID", "Name", "ParentName", "Phone", "BillingType", "Rate", "Status"},
}

const (
	colID = iota
	colName
	colParentName
	colPhone
	colBillingType
	colRate
	colStatus
)

type sheetRepo struct {
	table *sheets.Table
}

func NewSheetRepo(store *sheets.Store) Repository {
	return &sheetRepo{table: store.Table(Schema)}
}

func (r *sheetRepo) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Patient, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out, nil
}

func (r *sheetRepo) GetByID(ctx context.Context, id string) (*Patient, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Key() == id {
			return fromRow(row), nil
		}
	}
	return nil, apperr.NotFound("patient", id)
}

func (r *sheetRepo) Create(ctx context.Context, p *Patient) error {
	return r.table.Append(ctx, toRow(p))
}

func (r *sheetRepo) Update(ctx context.Context, p *Patient) error {
	return notFoundAs(r.table.Overwrite(ctx, p.ID, toRow(p)), p.ID)
}

func (r *sheetRepo) SetStatus(ctx context.Context, id, status string) error {
	return notFoundAs(r.table.SetCell(ctx, id, colStatus, status), id)
}

func notFoundAs(err error, id string) error {
	if apperr.KindOf(err) == apperr.KindNotFound {
		return apperr.NotFound("patient", id)
	}
	return err
}

func toRow(p *Patient) []string {
	return []string{
		p.ID,
		p.Name,
		p.ParentName,
		p.Phone,
		p.BillingType,
		strconv.FormatFloat(p.Rate, 'f', -1, 64),
		p.Status,
	}
}

// fromRow decodes a row. A rate that does not parse reads as 0.
func fromRow(row sheets.Row) *Patient {
	rate, _ := strconv.ParseFloat(row.Get(colRate), 64)
	return &Patient{
		ID:          row.Get(colID),
		Name:        row.Get(colName),
		ParentName:  row.Get(colParentName),
		Phone:       row.Get(colPhone),
		BillingType: row.Get(colBillingType),
		Rate:        rate,
		Status:      row.Get(colStatus),
	}
}
