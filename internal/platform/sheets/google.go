package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// valueInput stores cells exactly as sent, without formula or number parsing.
const valueInput = "RAW"

// GoogleClient is a Client backed by a Google spreadsheet.
type GoogleClient struct {
	srv           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogleClient connects to the spreadsheet with a service account key
// file. An empty credentialsFile falls back to application default
// credentials.
func NewGoogleClient(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleClient, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleClient{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (g *GoogleClient) Get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out, nil
}

func (g *GoogleClient) Append(ctx context.Context, rng string, rows [][]string) error {
	_, err := g.srv.Spreadsheets.Values.Append(g.spreadsheetID, rng, valueRange(rows)).
		ValueInputOption(valueInput).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleClient) Update(ctx context.Context, rng string, rows [][]string) error {
	_, err := g.srv.Spreadsheets.Values.Update(g.spreadsheetID, rng, valueRange(rows)).
		ValueInputOption(valueInput).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleClient) Clear(ctx context.Context, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(g.spreadsheetID, rng, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (g *GoogleClient) Tables(ctx context.Context) ([]string, error) {
	ss, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (g *GoogleClient) AddTable(ctx context.Context, title string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	_, err := g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

func valueRange(rows [][]string) *sheetsapi.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}
	return &sheetsapi.ValueRange{Values: values}
}
