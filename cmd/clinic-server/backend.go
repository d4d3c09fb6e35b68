package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/migrations"
)

// schemas lists the spreadsheet tables in creation order.
var schemas = []sheets.Schema{patient.Schema, session.Schema, note.Schema, billing.Schema}

// backend holds the repositories of the selected store.
type backend struct {
	name     string
	patients patient.Repository
	sessions session.Repository
	notes    note.Repository
	payments billing.Repository
	tx       session.Transactor

	// store and sheetID are set for the sheets and memory backends.
	store   *sheets.Store
	sheetID string

	// pool is set for the postgres backend.
	pool   *pgxpool.Pool
	schema string
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return sheetBackend(config.BackendMemory, sheets.NewMemoryClient(), "memory"), nil
	case config.BackendSheets:
		if cfg.SpreadsheetID == "" {
			return sheetBackend(config.BackendSheets, sheets.UnconfiguredClient{}, ""), nil
		}
		client, err := sheets.NewGoogleClient(ctx, cfg.SpreadsheetID, cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, err
		}
		return sheetBackend(config.BackendSheets, client, cfg.SpreadsheetID), nil
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, db.PoolConfig{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
			Schema:   cfg.DBSchema,
		})
		if err != nil {
			return nil, err
		}
		return &backend{
			name:     config.BackendPostgres,
			patients: patient.NewRepoPG(pool),
			sessions: session.NewRepoPG(pool),
			notes:    note.NewRepoPG(pool),
			payments: billing.NewRepoPG(pool),
			tx:       db.NewTransactor(pool),
			pool:     pool,
			schema:   cfg.DBSchema,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func sheetBackend(name string, client sheets.Client, sheetID string) *backend {
	store := sheets.NewStore(client)
	return &backend{
		name:     name,
		patients: patient.NewSheetRepo(store),
		sessions: session.NewSheetRepo(store),
		notes:    note.NewSheetRepo(store),
		payments: billing.NewSheetRepo(store),
		tx:       store,
		store:    store,
		sheetID:  sheetID,
	}
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// Bootstrap prepares the store. Spreadsheets get their missing tables and
// header rows; Postgres gets its pending migrations.
func (b *backend) Bootstrap(ctx context.Context, logger zerolog.Logger) sheets.Result {
	if b.store != nil {
		return sheets.Bootstrap(ctx, b.store.Client(), b.sheetID, schemas, logger)
	}

	count, err := db.NewMigrator(b.pool, migrations.FS, b.schema).Up(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("migration failed")
		return sheets.Result{Success: false, Message: "migration failed"}
	}
	return sheets.Result{Success: true, Message: fmt.Sprintf("applied %d migration(s)", count)}
}

// Compact removes the blank rows left behind by deletes in the named table.
func (b *backend) Compact(ctx context.Context, table string) (int, error) {
	if b.store == nil {
		return 0, fmt.Errorf("compact needs a spreadsheet backend, have %q", b.name)
	}
	schema, ok := schemaByName(table)
	if !ok {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	return b.store.Table(schema).Compact(ctx)
}

// schemaByName matches table names case-insensitively.
func schemaByName(name string) (sheets.Schema, bool) {
	for _, s := range schemas {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return sheets.Schema{}, false
}
