package note

import (
	"context"

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
	return &Service{repo: repo, inv: inv, logger: logger.With().Str("component", "note").Logger()}
}

// All returns every note; a store failure is logged and yields an empty list.
func (s *Service) All(ctx context.Context) []*Note {
	notes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list clinical notes")
		return []*Note{}
	}
	return notes
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Note, error) {
	if sessionID == "" {
		return nil, apperr.Validation("session_id is required")
	}
	n, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, apperr.Wrap("failed to load clinical note", err)
	}
	return n, nil
}

// Upsert writes the note of n.SessionID. The session itself is not checked,
// matching the advisory references of the store.
func (s *Service) Upsert(ctx context.Context, n *Note) error {
	if n == nil || n.SessionID == "" {
		return apperr.Validation("session_id is required")
	}
	if err := s.repo.Upsert(ctx, n); err != nil {
		s.logger.Error().Err(err).Str("session_id", n.SessionID).Msg("failed to save clinical note")
		return apperr.Wrap("failed to save clinical note", err)
	}
	s.inv.Invalidate(ctx, invalidate.PathSessions)
	return nil
}

func (s *Service) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperr.Validation("session_id is required")
	}
	if err := s.repo.DeleteBySessionID(ctx, sessionID); err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete clinical note")
		}
		return apperr.Wrap("failed to delete clinical note", err)
	}
	s.inv.Invalidate(ctx, invalidate.PathSessions)
	return nil
}
