package session

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/platform/invalidate"
	"github.com/clinic/clinic/pkg/apperr"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service struct {
	repo     Repository
	notes    note.Repository
	patients patient.Repository
	tx       Transactor
	inv      invalidate.Invalidator
	logger   zerolog.Logger
}

func NewService(repo Repository, notes note.Repository, patients patient.Repository, tx Transactor, inv invalidate.Invalidator, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		notes:    notes,
		patients: patients,
		tx:       tx,
		inv:      inv,
		logger:   logger.With().Str("component", "session").Logger(),
	}
}

// All returns every live session in stored order. A store failure is logged
// and yields an empty list.
func (s *Service) All(ctx context.Context) []*Session {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list sessions")
		return []*Session{}
	}
	return sessions
}

// ListByPatient returns one patient's sessions, newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID string) []*Session {
	out := ForPatient(s.All(ctx), patientID)
	SortNewestFirst(out)
	return out
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to load session", err)
	}
	return sess, nil
}

func validateSession(sess *Session) error {
	sess.PatientID = strings.TrimSpace(sess.PatientID)
	sess.Duration = strings.TrimSpace(sess.Duration)
	if sess.PatientID == "" {
		return apperr.Validation("patient_id is required")
	}
	if sess.Date == "" {
		return apperr.Validation("date is required")
	}
	if _, err := time.Parse(dateLayout, sess.Date); err != nil {
		return apperr.Validation("date must be YYYY-MM-DD")
	}
	if sess.StartTime == "" {
		return apperr.Validation("start_time is required")
	}
	if _, err := time.Parse(timeLayout, sess.StartTime); err != nil {
		return apperr.Validation("start_time must be HH:MM")
	}
	if sess.Duration == "" {
		return apperr.Validation("duration is required")
	}
	if d, err := strconv.ParseFloat(sess.Duration, 64); err != nil || d <= 0 {
		return apperr.Validation("duration must be a positive number")
	}
	if sess.Status == "" {
		return apperr.Validation("status is required")
	}
	if !validStatuses[sess.Status] {
		return apperr.Validation("invalid status: %s", sess.Status)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, patientID string) {
	s.inv.Invalidate(ctx, invalidate.PathSessions, invalidate.PathCalendar, invalidate.PatientPath(patientID))
}

// Create stores a new session and its clinical note. A nil note stores an
// empty one so every session has exactly one note row. On a backend without
// transactions a failed note write leaves the session in place.
func (s *Service) Create(ctx context.Context, sess *Session, n *note.Note) error {
	if err := validateSession(sess); err != nil {
		return err
	}
	sess.ID = uuid.NewString()
	if n == nil {
		n = &note.Note{}
	}
	n.SessionID = sess.ID

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, sess); err != nil {
			return err
		}
		if err := s.notes.Upsert(ctx, n); err != nil {
			s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("session saved but clinical note failed")
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", sess.PatientID).Msg("failed to save session")
		return apperr.Wrap("failed to save session", err)
	}
	s.invalidate(ctx, sess.PatientID)
	return nil
}

// Update overwrites the session and, when n is non-nil, its note.
func (s *Service) Update(ctx context.Context, sess *Session, n *note.Note) error {
	if sess.ID == "" {
		return apperr.Validation("id is required")
	}
	if err := validateSession(sess); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, sess); err != nil {
			return err
		}
		if n == nil {
			return nil
		}
		n.SessionID = sess.ID
		return s.notes.Upsert(ctx, n)
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to update session")
		}
		return apperr.Wrap("failed to update session", err)
	}
	s.invalidate(ctx, sess.PatientID)
	return nil
}

// Delete removes the session and its note. A missing note is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.notes.DeleteBySessionID(ctx, id); err != nil && apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		return apperr.Wrap("failed to delete session", err)
	}
	s.invalidate(ctx, sess.PatientID)
	return nil
}

// History returns one page of sessions joined with patient and note.
func (s *Service) History(ctx context.Context, q HistoryQuery) HistoryPage {
	if q.Sort == "" {
		q.Sort = SortDateDesc
	}
	p := q.params()
	q.Page, q.PageSize = p.Page, p.PageSize

	var (
		items []*Session
		total int
	)
	if hs, ok := s.repo.(HistorySearcher); ok {
		var err error
		items, total, err = hs.SearchHistory(ctx, q)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to search session history")
			items, total = nil, 0
		}
	} else {
		items, total = searchHistory(s.All(ctx), q)
	}

	patients := patient.ByID(s.loadPatients(ctx))
	notes := note.BySession(s.loadNotes(ctx))

	page := HistoryPage{
		Items:      make([]HistoryItem, 0, len(items)),
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(total),
		HasMore:    p.HasNext(total),
		HasPrev:    p.HasPrevious(),
	}
	for _, sess := range items {
		page.Items = append(page.Items, HistoryItem{
			Session: sess,
			Patient: patients[sess.PatientID],
			Note:    notes[sess.ID],
		})
	}
	return page
}

// Calendar groups sessions by day. month is YYYY-MM or empty for all.
func (s *Service) Calendar(ctx context.Context, month string) ([]Day, error) {
	if month != "" && !monthPattern.MatchString(month) {
		return nil, apperr.Validation("month must be YYYY-MM")
	}
	return GroupByDay(s.All(ctx), month), nil
}

func (s *Service) loadPatients(ctx context.Context) []*patient.Patient {
	list, err := s.patients.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list patients")
		return nil
	}
	return list
}

func (s *Service) loadNotes(ctx context.Context) []*note.Note {
	list, err := s.notes.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list clinical notes")
		return nil
	}
	return list
}
