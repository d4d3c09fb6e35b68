package billing

import "sort"

// Suggested payment methods. Method stays free text; these are what the
// payment form offers.
const (
	MethodCash         = "cash"
	MethodBit          = "Bit"
	MethodPayBox       = "PayBox"
	MethodBankTransfer = "bank transfer"
	MethodCreditCard   = "credit card"
	MethodOther        = "other"
)

// Methods returns the suggested payment methods in display order.
func Methods() []string {
	return []string{MethodCash, MethodBit, MethodPayBox, MethodBankTransfer, MethodCreditCard, MethodOther}
}

// Entry is one payment received from a patient. MonthRef is the YYYY-MM
// month the payment is meant for and does not affect the balance.
type Entry struct {
	ID        string  `json:"payment_id"`
	PatientID string  `json:"patient_id"`
	Date      string  `json:"date"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	MonthRef  string  `json:"month_ref"`
}

// SortNewestFirst orders entries by date descending. Entries on the same
// date keep their stored order.
func SortNewestFirst(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// ForPatient returns the entries belonging to patientID.
func ForPatient(entries []*Entry, patientID string) []*Entry {
	out := make([]*Entry, 0)
	for _, e := range entries {
		if e.PatientID == patientID {
			out = append(out, e)
		}
	}
	return out
}

// Total sums the amounts of entries.
func Total(entries []*Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}
