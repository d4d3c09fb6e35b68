package billing

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/invalidate"
	"github.com/clinic/clinic/internal/platform/invalidate/invalidatetest"
	"github.com/clinic/clinic/pkg/apperr"
)

// -- Mock Repository --

type mockRepo struct {
	order    []string
	entries  map[string]*Entry
	listErr  error
	writeErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{entries: make(map[string]*Entry)}
}

func (m *mockRepo) List(_ context.Context) ([]*Entry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*Entry, 0, len(m.order))
	for _, id := range m.order {
		if e, ok := m.entries[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, apperr.NotFound("payment", id)
	}
	return e, nil
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.order = append(m.order, e.ID)
	m.entries[e.ID] = e
	return nil
}

func (m *mockRepo) Update(_ context.Context, e *Entry) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.entries[e.ID]; !ok {
		return apperr.NotFound("payment", e.ID)
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	if _, ok := m.entries[id]; !ok {
		return apperr.NotFound("payment", id)
	}
	delete(m.entries, id)
	return nil
}

func newTestService() (*Service, *mockRepo, *invalidatetest.Recorder) {
	repo := newMockRepo()
	rec := &invalidatetest.Recorder{}
	return NewService(repo, rec, zerolog.Nop()), repo, rec
}

func validEntry(patientID, date string) *Entry {
	return &Entry{PatientID: patientID, Date: date, Amount: 300, Method: MethodBit, MonthRef: date[:7]}
}

func TestService_Create(t *testing.T) {
	svc, repo, rec := newTestService()
	e := validEntry("p1", "2024-05-02")

	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated id")
	}
	if _, ok := repo.entries[e.ID]; !ok {
		t.Error("expected entry stored")
	}
	want := []string{invalidate.PathBilling, "/patients/p1"}
	if !reflect.DeepEqual(rec.Paths(), want) {
		t.Errorf("expected invalidated %v, got %v", want, rec.Paths())
	}
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *Entry)
	}{
		{"missing patient", func(e *Entry) { e.PatientID = "" }},
		{"missing date", func(e *Entry) { e.Date = "" }},
		{"bad date", func(e *Entry) { e.Date = "02/05/2024" }},
		{"zero amount", func(e *Entry) { e.Amount = 0 }},
		{"negative amount", func(e *Entry) { e.Amount = -5 }},
		{"blank method", func(e *Entry) { e.Method = "  " }},
		{"missing month", func(e *Entry) { e.MonthRef = "" }},
		{"bad month", func(e *Entry) { e.MonthRef = "2024-13" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, rec := newTestService()
			e := validEntry("p1", "2024-05-02")
			tt.mutate(e)
			err := svc.Create(context.Background(), e)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.entries) != 0 || len(rec.Paths()) != 0 {
				t.Error("expected no write and no invalidation")
			}
		})
	}
}

func TestService_Create_FreeTextMethod(t *testing.T) {
	svc, _, _ := newTestService()
	e := validEntry("p1", "2024-05-02")
	e.Method = "cheque"
	if err := svc.Create(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestService_Create_StoreError(t *testing.T) {
	svc, repo, rec := newTestService()
	repo.writeErr = errors.New("quota exceeded")

	err := svc.Create(context.Background(), validEntry("p1", "2024-05-02"))
	if !errors.Is(err, apperr.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if apperr.Message(err) != "failed to add payment" {
		t.Errorf("unexpected message %q", apperr.Message(err))
	}
	if len(rec.Paths()) != 0 {
		t.Error("expected no invalidation after a failed write")
	}
}

func TestService_List_NewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	for _, date := range []string{"2024-02-01", "2024-04-01", "2024-03-01"} {
		svc.Create(ctx, validEntry("p1", date))
	}
	svc.Create(ctx, validEntry("p2", "2024-05-01"))

	all := svc.List(ctx)
	if len(all) != 4 || all[0].Date != "2024-05-01" || all[3].Date != "2024-02-01" {
		t.Errorf("unexpected order: %+v", all)
	}

	mine := svc.ListByPatient(ctx, "p1")
	if len(mine) != 3 || mine[0].Date != "2024-04-01" {
		t.Errorf("unexpected patient list: %+v", mine)
	}
}

func TestService_All_FailsSoft(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.listErr = errors.New("sheet unavailable")

	got := svc.All(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v", got)
	}
}

func TestService_Update(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	e := validEntry("p1", "2024-05-02")
	svc.Create(ctx, e)
	rec.Reset()

	upd := *e
	upd.Amount = 450
	if err := svc.Update(ctx, &upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.entries[e.ID].Amount != 450 {
		t.Error("expected amount updated")
	}
	if len(rec.Paths()) != 2 {
		t.Errorf("expected invalidation, got %v", rec.Paths())
	}

	missing := validEntry("p1", "2024-05-02")
	missing.ID = "nope"
	if err := svc.Update(ctx, missing); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	e := validEntry("p7", "2024-05-02")
	svc.Create(ctx, e)
	rec.Reset()

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.entries) != 0 {
		t.Error("expected entry removed")
	}
	want := []string{invalidate.PathBilling, "/patients/p7"}
	if !reflect.DeepEqual(rec.Paths(), want) {
		t.Errorf("expected invalidated %v, got %v", want, rec.Paths())
	}

	if err := svc.Delete(ctx, e.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestTotal(t *testing.T) {
	entries := []*Entry{{Amount: 100}, {Amount: 250.5}}
	if got := Total(entries); got != 350.5 {
		t.Errorf("expected 350.5, got %v", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
