// Package overview serves the read models that join all four tables: a
// patient's full record, the dashboard and the debts page.
package overview

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/finance"
	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
	"github.com/clinic/clinic/pkg/apperr"
)

type Service struct {
	patients patient.Repository
	sessions session.Repository
	notes    note.Repository
	payments billing.Repository
	logger   zerolog.Logger
}

func NewService(patients patient.Repository, sessions session.Repository, notes note.Repository, payments billing.Repository, logger zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		sessions: sessions,
		notes:    notes,
		payments: payments,
		logger:   logger.With().Str("component", "overview").Logger(),
	}
}

// snapshot is one read of every table.
type snapshot struct {
	patients []*patient.Patient
	sessions []*session.Session
	notes    []*note.Note
	entries  []*billing.Entry
}

// load reads the four tables concurrently. Each table fails soft on its own:
// a failed read is logged and that table comes back empty.
func (s *Service) load(ctx context.Context) *snapshot {
	snap := &snapshot{
		patients: []*patient.Patient{},
		sessions: []*session.Session{},
		notes:    []*note.Note{},
		entries:  []*billing.Entry{},
	}
	var g errgroup.Group
	g.Go(func() error {
		if rows, err := s.patients.List(ctx); err != nil {
			s.logger.Error().Err(err).Str("table", patient.Schema.Name).Msg("failed to load table")
		} else {
			snap.patients = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := s.sessions.List(ctx); err != nil {
			s.logger.Error().Err(err).Str("table", session.Schema.Name).Msg("failed to load table")
		} else {
			snap.sessions = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := s.notes.List(ctx); err != nil {
			s.logger.Error().Err(err).Str("table", note.Schema.Name).Msg("failed to load table")
		} else {
			snap.notes = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := s.payments.List(ctx); err != nil {
			s.logger.Error().Err(err).Str("table", billing.Schema.Name).Msg("failed to load table")
		} else {
			snap.entries = rows
		}
		return nil
	})
	_ = g.Wait()
	return snap
}

// SessionWithNote is a session joined with its clinical note, if any.
type SessionWithNote struct {
	*session.Session
	Note *note.Note `json:"note,omitempty"`
}

// FullRecord is everything known about one patient.
type FullRecord struct {
	Patient  *patient.Patient  `json:"patient"`
	Sessions []SessionWithNote `json:"sessions"`
	Billing  []*billing.Entry  `json:"billing"`
	Balance  finance.Balance   `json:"balance"`
}

// GetPatientFullData returns the patient with their sessions and payments,
// both newest first, and their balance. An unknown id yields nil and no
// error.
func (s *Service) GetPatientFullData(ctx context.Context, id string) (*FullRecord, error) {
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	snap := s.load(ctx)

	p := patient.ByID(snap.patients)[id]
	if p == nil {
		return nil, nil
	}

	sessions := session.ForPatient(snap.sessions, id)
	session.SortNewestFirst(sessions)
	notes := note.BySession(snap.notes)
	joined := make([]SessionWithNote, 0, len(sessions))
	for _, sess := range sessions {
		joined = append(joined, SessionWithNote{Session: sess, Note: notes[sess.ID]})
	}

	entries := billing.ForPatient(snap.entries, id)
	billing.SortNewestFirst(entries)

	return &FullRecord{
		Patient:  p,
		Sessions: joined,
		Billing:  entries,
		Balance:  finance.ComputeBalance(p, snap.sessions, snap.entries),
	}, nil
}

// PatientBalance pairs a patient with their balance.
type PatientBalance struct {
	*patient.Patient
	Balance finance.Balance `json:"balance"`
}

// Dashboard is the landing page model.
type Dashboard struct {
	Counts        patient.Counts       `json:"counts"`
	TotalDebt     float64              `json:"total_debt"`
	TotalPaid     float64              `json:"total_paid"`
	Patients      []PatientBalance     `json:"patients"`
	Debtors       []PatientBalance     `json:"debtors"`
	MonthlyIncome []finance.MonthTotal `json:"monthly_income"`
}

// Payment is a billing entry with the payer's name. PatientName is empty
// when the patient id does not resolve.
type Payment struct {
	*billing.Entry
	PatientName string `json:"patient_name"`
}

// Debts is the billing page model. TotalOwed ignores patients in credit.
type Debts struct {
	Debtors        []PatientBalance `json:"debtors"`
	TotalOwed      float64          `json:"total_owed"`
	RecentPayments []Payment        `json:"recent_payments"`
}

func withPatients(byID map[string]*patient.Patient, balances []finance.Balance) []PatientBalance {
	out := make([]PatientBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, PatientBalance{Patient: byID[b.PatientID], Balance: b})
	}
	return out
}

// Dashboard returns every patient with their balance, the debtors largest
// first and the signed total debt.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	snap := s.load(ctx)
	sum := finance.Summarize(snap.patients, snap.sessions, snap.entries)
	byID := patient.ByID(snap.patients)

	return Dashboard{
		Counts:        patient.CountOf(snap.patients),
		TotalDebt:     sum.TotalDebt,
		TotalPaid:     sum.TotalPaid,
		Patients:      withPatients(byID, sum.Balances),
		Debtors:       withPatients(byID, sum.Debtors()),
		MonthlyIncome: finance.MonthlyIncome(snap.entries),
	}
}

// Debts returns the debtors, the clamped total owed and every payment
// newest first.
func (s *Service) Debts(ctx context.Context) Debts {
	snap := s.load(ctx)
	sum := finance.Summarize(snap.patients, snap.sessions, snap.entries)
	byID := patient.ByID(snap.patients)

	entries := append([]*billing.Entry(nil), snap.entries...)
	billing.SortNewestFirst(entries)
	payments := make([]Payment, 0, len(entries))
	for _, e := range entries {
		pay := Payment{Entry: e}
		if p := byID[e.PatientID]; p != nil {
			pay.PatientName = p.Name
		}
		payments = append(payments, pay)
	}

	return Debts{
		Debtors:        withPatients(byID, sum.Debtors()),
		TotalOwed:      sum.TotalOwed,
		RecentPayments: payments,
	}
}
