package patient

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/invalidate"
	"github.com/clinic/clinic/pkg/apperr"
)

type Service struct {
	repo   Repository
	inv    invalidate.Invalidator
	logger zerolog.Logger
}

func NewService(repo Repository, inv invalidate.Invalidator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, inv: inv, logger: logger.With().Str("component", "patient").Logger()}
}

// All returns every patient in insertion order. A store failure is logged
// and yields an empty list.
func (s *Service) All(ctx context.Context) []*Patient {
	patients, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list patients")
		return []*Patient{}
	}
	return patients
}

// List returns the patients matching f.
func (s *Service) List(ctx context.Context, f Filter) []*Patient {
	return f.Apply(s.All(ctx))
}

func (s *Service) Counts(ctx context.Context) Counts {
	return CountOf(s.All(ctx))
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to load patient", err)
	}
	return p, nil
}

func validatePatient(p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.ParentName = strings.TrimSpace(p.ParentName)
	if p.Name == "" {
		return apperr.Validation("name is required")
	}
	if p.Phone == "" {
		return apperr.Validation("phone is required")
	}
	if p.BillingType == "" {
		return apperr.Validation("billing_type is required")
	}
	if !validBillingTypes[p.BillingType] {
		return apperr.Validation("invalid billing_type: %s", p.BillingType)
	}
	if p.Rate <= 0 {
		return apperr.Validation("rate must be greater than 0")
	}
	if p.Status != "" && !validStatuses[p.Status] {
		return apperr.Validation("invalid status: %s", p.Status)
	}
	return nil
}

// Create registers a new active patient with a fresh id.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validatePatient(p); err != nil {
		return err
	}
	p.ID = uuid.NewString()
	p.Status = StatusActive

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to add patient")
		return apperr.Wrap("failed to add patient", err)
	}
	s.inv.Invalidate(ctx, invalidate.PathPatients)
	return nil
}

// Update overwrites the whole patient record. An empty status keeps the
// stored one.
func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == "" {
		return apperr.Validation("id is required")
	}
	if err := validatePatient(p); err != nil {
		return err
	}
	if p.Status == "" {
		existing, err := s.repo.GetByID(ctx, p.ID)
		if err != nil {
			return apperr.Wrap("failed to update patient", err)
		}
		p.Status = existing.Status
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("patient_id", p.ID).Msg("failed to update patient")
		return apperr.Wrap("failed to update patient", err)
	}
	s.inv.Invalidate(ctx, invalidate.PathPatients, invalidate.PatientPath(p.ID))
	return nil
}

// Deactivate is the soft delete: the patient drops out of the active list
// while sessions and payments stay intact.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusInactive)
}

func (s *Service) Restore(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, StatusActive)
}

func (s *Service) setStatus(ctx context.Context, id, status string) error {
	if id == "" {
		return apperr.Validation("id is required")
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error().Err(err).Str("patient_id", id).Str("status", status).Msg("failed to change patient status")
		return apperr.Wrap("failed to change patient status", err)
	}
	s.inv.Invalidate(ctx, invalidate.PathPatients, invalidate.PatientPath(id))
	return nil
}
