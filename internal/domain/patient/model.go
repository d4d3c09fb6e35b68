package patient

import "strings"

const (
	BillingPerSession = "per-session"
	BillingMonthly    = "monthly"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

var validBillingTypes = map[string]bool{BillingPerSession: true, BillingMonthly: true}

var validStatuses = map[string]bool{StatusActive: true, StatusInactive: true}

// Patient is a client of the clinic. Deactivated patients keep their
// sessions and payments.
type Patient struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	ParentName  string  `db:"parent_name" json:"parent_name,omitempty"`
	Phone       string  `db:"phone" json:"phone"`
	BillingType string  `db:"billing_type" json:"billing_type"`
	Rate        float64 `db:"rate" json:"rate"`
	Status      string  `db:"status" json:"status"`
}

func (p *Patient) IsActive() bool { return p.Status == StatusActive }

// Filter narrows a patient list. Zero values match everything.
type Filter struct {
	Status string
	// Query matches name and parent name case-insensitively, and phone as a
	// plain substring.
	Query string
}

func (f Filter) Match(p *Patient) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return true
	}
	lq := strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Name), lq) ||
		(p.ParentName != "" && strings.Contains(strings.ToLower(p.ParentName), lq)) ||
		strings.Contains(p.Phone, q)
}

// Apply returns the patients matching f, keeping their order.
func (f Filter) Apply(patients []*Patient) []*Patient {
	out := make([]*Patient, 0, len(patients))
	for _, p := range patients {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Counts backs the active/inactive tabs of the patient list.
type Counts struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Total    int `json:"total"`
}

func CountOf(patients []*Patient) Counts {
	var c Counts
	for _, p := range patients {
		switch p.Status {
		case StatusActive:
			c.Active++
		case StatusInactive:
			c.Inactive++
		}
	}
	c.Total = len(patients)
	return c
}

// ByID indexes patients by id. The first occurrence of a duplicate id wins.
func ByID(patients []*Patient) map[string]*Patient {
	m := make(map[string]*Patient, len(patients))
	for _, p := range patients {
		if _, ok := m[p.ID]; !ok {
			m[p.ID] = p
		}
	}
	return m
}
