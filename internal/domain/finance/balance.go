// Package finance derives what each patient owes from their sessions and
// payments. Every function here is pure.
package finance

import (
	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
)

// Balance is a patient's account position. Debt is signed: a negative
// value means the patient paid ahead.
type Balance struct {
	PatientID   string  `json:"patient_id"`
	BillingType string  `json:"billing_type"`
	Rate        float64 `json:"rate"`
	Expected    float64 `json:"expected"`
	Paid        float64 `json:"paid"`
	Debt        float64 `json:"debt"`
}

// Owed is the debt clamped at zero.
func (b Balance) Owed() float64 {
	if b.Debt > 0 {
		return b.Debt
	}
	return 0
}

// Credit is the prepaid amount, zero when the patient owes money.
func (b Balance) Credit() float64 {
	if b.Debt < 0 {
		return -b.Debt
	}
	return 0
}

func (b Balance) InCredit() bool {
	return b.Debt < 0
}

// ComputeBalance works out p's balance. Sessions and entries of other
// patients are ignored, so callers may pass whole tables.
//
// Per-session patients are charged the rate for every attended session.
// Every other billing type, monthly or unknown, is charged the rate once for
// each calendar month that has any session, whatever its status. Payments
// count in full regardless of the month they reference.
func ComputeBalance(p *patient.Patient, sessions []*session.Session, entries []*billing.Entry) Balance {
	b := Balance{PatientID: p.ID, BillingType: p.BillingType, Rate: p.Rate}

	if p.BillingType == patient.BillingPerSession {
		attended := 0
		for _, s := range sessions {
			if s.PatientID == p.ID && s.Status == session.StatusAttended {
				attended++
			}
		}
		b.Expected = float64(attended) * p.Rate
	} else {
		months := make(map[string]struct{})
		for _, s := range sessions {
			if s.PatientID != p.ID {
				continue
			}
			if m := s.Month(); m != "" {
				months[m] = struct{}{}
			}
		}
		b.Expected = float64(len(months)) * p.Rate
	}

	b.Paid = billing.Total(billing.ForPatient(entries, p.ID))
	b.Debt = b.Expected - b.Paid
	return b
}
