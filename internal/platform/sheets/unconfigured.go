package sheets

import (
	"context"

	"github.com/clinic/clinic/pkg/apperr"
)

// ErrNoSpreadsheet is returned by every call on an UnconfiguredClient.
var ErrNoSpreadsheet = apperr.Config("GOOGLE_SHEET_ID is missing")

// UnconfiguredClient stands in for the Google client when no spreadsheet id
// is set. Reads fail soft in the services; writes surface ErrNoSpreadsheet.
type UnconfiguredClient struct{}

func (UnconfiguredClient) Get(context.Context, string) ([][]string, error) {
	return nil, ErrNoSpreadsheet
}

func (UnconfiguredClient) Append(context.Context, string, [][]string) error {
	return ErrNoSpreadsheet
}

func (UnconfiguredClient) Update(context.Context, string, [][]string) error {
	return ErrNoSpreadsheet
}

func (UnconfiguredClient) Clear(context.Context, string) error {
	return ErrNoSpreadsheet
}

func (UnconfiguredClient) Tables(context.Context) ([]string, error) {
	return nil, ErrNoSpreadsheet
}

func (UnconfiguredClient) AddTable(context.Context, string) error {
	return ErrNoSpreadsheet
}
