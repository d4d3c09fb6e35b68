package sheets

import (
	"context"

	"github.com/rs/zerolog"
)

// Result reports the outcome of Bootstrap. It is returned instead of an
// error so callers can surface it directly.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Created  []string `json:"created,omitempty"`
	Existing []string `json:"existing,omitempty"`
}

// Bootstrap creates every missing table in schemas and writes its header row.
// Existing tables are left untouched.
func Bootstrap(ctx context.Context, client Client, spreadsheetID string, schemas []Schema, logger zerolog.Logger) Result {
	if spreadsheetID == "" {
		logger.Warn().Msg("GOOGLE_SHEET_ID is not set, skipping sheet bootstrap")
		return Result{Message: "GOOGLE_SHEET_ID is missing"}
	}
	if client == nil {
		return Result{Message: "spreadsheet client is not configured"}
	}

	titles, err := client.Tables(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list sheets")
		return Result{Message: err.Error()}
	}
	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[t] = true
	}

	var res Result
	for _, s := range schemas {
		if existing[s.Name] {
			logger.Debug().Str("table", s.Name).Msg("sheet already exists, skipping")
			res.Existing = append(res.Existing, s.Name)
			continue
		}
		logger.Info().Str("table", s.Name).Msg("creating sheet")
		if err := client.AddTable(ctx, s.Name); err != nil {
			logger.Error().Err(err).Str("table", s.Name).Msg("failed to create sheet")
			res.Message = err.Error()
			return res
		}
		if err := client.Update(ctx, s.Name+"!A1", [][]string{s.Columns}); err != nil {
			logger.Error().Err(err).Str("table", s.Name).Msg("failed to write sheet headers")
			res.Message = err.Error()
			return res
		}
		res.Created = append(res.Created, s.Name)
	}
	res.Success = true
	res.Message = "spreadsheet initialized"
	return res
}
