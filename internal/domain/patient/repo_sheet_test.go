package patient

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinic/clinic/internal/platform/sheets"
	"github.com/clinic/clinic/pkg/apperr"
)

func newSheetRepo(t *testing.T) (Repository, *sheets.MemoryClient) {
	t.Helper()
	client := sheets.NewMemoryClient()
	res := sheets.Bootstrap(context.Background(), client, "test", []sheets.Schema{Schema}, zerolog.Nop())
	require.True(t, res.Success)
	return NewSheetRepo(sheets.NewStore(client)), client
}

func TestSheetRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, client := newSheetRepo(t)

	p := &Patient{ID: "p1", Name: "Noa", Phone: "050", BillingType: BillingMonthly, Rate: 450.5, Status: StatusActive}
	require.NoError(t, repo.Create(ctx, p))

	raw, err := client.Get(ctx, "Patients!A2:G")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"p1", "Noa", "", "050", "monthly", "450.5", "active"}}, raw)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, repo.SetStatus(ctx, "p1", StatusInactive))
	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, "Noa", got.Name, "status flip touches one cell only")

	p.Name = "Noa Levi"
	p.Status = StatusActive
	require.NoError(t, repo.Update(ctx, p))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Noa Levi", list[0].Name)
}

func TestSheetRepo_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSheetRepo(t)

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &Patient{ID: "nope", Name: "x"}), apperr.ErrNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, "nope", StatusInactive), apperr.ErrNotFound)
}

func TestFromRow_Tolerant(t *testing.T) {
	p := fromRow(sheets.Row{Number: 2, Values: []string{"p1", "Noa", "", "050", "monthly", "abc"}})
	assert.Equal(t, 0.0, p.Rate)
	assert.Equal(t, "", p.Status)
}
