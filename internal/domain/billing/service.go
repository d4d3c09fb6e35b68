package billing

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/invalidate"
	"github.com/clinic/clinic/pkg/apperr"
)

var monthRefPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service struct {
	repo   Repository
	inv    invalidate.Invalidator
	logger zerolog.Logger
}

func NewService(repo Repository, inv invalidate.Invalidator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, inv: inv, logger: logger.With().Str("component", "billing").Logger()}
}

// All returns every payment in insertion order. A store failure is logged
// and yields an empty list.
func (s *Service) All(ctx context.Context) []*Entry {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list payments")
		return []*Entry{}
	}
	return entries
}

// List returns every payment, newest first.
func (s *Service) List(ctx context.Context) []*Entry {
	entries := s.All(ctx)
	SortNewestFirst(entries)
	return entries
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) []*Entry {
	entries := ForPatient(s.All(ctx), patientID)
	SortNewestFirst(entries)
	return entries
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to load payment", err)
	}
	return e, nil
}

func validateEntry(e *Entry) error {
	e.Method = strings.TrimSpace(e.Method)
	if e.PatientID == "" {
		return apperr.Validation("patient_id is required")
	}
	if e.Date == "" {
		return apperr.Validation("date is required")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	if e.Amount <= 0 {
		return apperr.Validation("amount must be greater than 0")
	}
	if e.Method == "" {
		return apperr.Validation("method is required")
	}
	if e.MonthRef == "" {
		return apperr.Validation("month_ref is required")
	}
	if !monthRefPattern.MatchString(e.MonthRef) {
		return apperr.Validation("month_ref must be YYYY-MM")
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, patientID string) {
	s.inv.Invalidate(ctx, invalidate.PathBilling, invalidate.PatientPath(patientID))
}

// Create records a payment under a fresh id.
func (s *Service) Create(ctx context.Context, e *Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}
	e.ID = uuid.NewString()

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("patient_id", e.PatientID).Msg("failed to add payment")
		return apperr.Wrap("failed to add payment", err)
	}
	s.invalidate(ctx, e.PatientID)
	return nil
}

// Update overwrites the whole payment record.
func (s *Service) Update(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		return apperr.Validation("id is required")
	}
	if err := validateEntry(e); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error().Err(err).Str("payment_id", e.ID).Msg("failed to update payment")
		return apperr.Wrap("failed to update payment", err)
	}
	s.invalidate(ctx, e.PatientID)
	return nil
}

// Delete removes the payment. The stored record is read first so the
// owning patient's page can be invalidated.
func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("payment_id", id).Msg("failed to delete payment")
		return apperr.Wrap("failed to delete payment", err)
	}
	s.invalidate(ctx, e.PatientID)
	return nil
}
