package finance

import (
	"sort"

	"github.com/clinic/clinic/internal/domain/billing"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/session"
)

// Summary aggregates balances across all patients.
type Summary struct {
	Balances      []Balance `json:"balances"`
	TotalDebt     float64   `json:"total_debt"`
	TotalOwed     float64   `json:"total_owed"`
	TotalPaid     float64   `json:"total_paid"`
	TotalExpected float64   `json:"total_expected"`
	PatientCount  int       `json:"patient_count"`
	ActiveCount   int       `json:"active_count"`
	InactiveCount int       `json:"inactive_count"`
}

// Summarize computes a balance per patient in patient order. TotalDebt is
// the signed sum, so credits offset debts; TotalOwed only adds positive
// debts.
func Summarize(patients []*patient.Patient, sessions []*session.Session, entries []*billing.Entry) Summary {
	sessionsBy := make(map[string][]*session.Session)
	for _, s := range sessions {
		sessionsBy[s.PatientID] = append(sessionsBy[s.PatientID], s)
	}
	entriesBy := make(map[string][]*billing.Entry)
	for _, e := range entries {
		entriesBy[e.PatientID] = append(entriesBy[e.PatientID], e)
	}

	sum := Summary{Balances: make([]Balance, 0, len(patients))}
	for _, p := range patients {
		b := ComputeBalance(p, sessionsBy[p.ID], entriesBy[p.ID])
		sum.Balances = append(sum.Balances, b)
		sum.TotalDebt += b.Debt
		sum.TotalOwed += b.Owed()
		sum.TotalPaid += b.Paid
		sum.TotalExpected += b.Expected

		sum.PatientCount++
		if p.IsActive() {
			sum.ActiveCount++
		} else {
			sum.InactiveCount++
		}
	}
	return sum
}

// Debtors returns the balances with a positive debt, largest first.
func (s Summary) Debtors() []Balance {
	out := make([]Balance, 0)
	for _, b := range s.Balances {
		if b.Debt > 0 {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Debt > out[j].Debt
	})
	return out
}

// MonthTotal is the sum of payments referencing one month.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthlyIncome groups payments by their month reference, oldest month
// first. Payments without a month reference are grouped under "".
func MonthlyIncome(entries []*billing.Entry) []MonthTotal {
	idx := make(map[string]int)
	var out []MonthTotal
	for _, e := range entries {
		i, ok := idx[e.MonthRef]
		if !ok {
			i = len(out)
			idx[e.MonthRef] = i
			out = append(out, MonthTotal{Month: e.MonthRef})
		}
		out[i].Total += e.Amount
		out[i].Count++
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	if out == nil {
		out = []MonthTotal{}
	}
	return out
}
