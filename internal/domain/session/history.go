package session

import (
	"github.com/clinic/clinic/internal/domain/note"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/pkg/pagination"
)

const (
	SortDateDesc = "date_desc"
	SortDateAsc  = "date_asc"
)

// HistoryQuery filters the session history. Dates are inclusive
// YYYY-MM-DD bounds compared as strings.
type HistoryQuery struct {
	PatientID string
	Status    string
	StartDate string
	EndDate   string
	Sort      string
	Page      int
	PageSize  int
}

func (q HistoryQuery) params() pagination.Params {
	p := pagination.Params{Page: q.Page, PageSize: q.PageSize}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = pagination.DefaultPageSize
	}
	return p
}

func (q HistoryQuery) match(s *Session) bool {
	if q.PatientID != "" && s.PatientID != q.PatientID {
		return false
	}
	if q.Status != "" && s.Status != q.Status {
		return false
	}
	if q.StartDate != "" && s.Date < q.StartDate {
		return false
	}
	if q.EndDate != "" && s.Date > q.EndDate {
		return false
	}
	return true
}

// HistoryItem is a session joined with its patient and note. Either may be
// nil when the reference does not resolve.
type HistoryItem struct {
	*Session
	Patient *patient.Patient `json:"patient,omitempty"`
	Note    *note.Note       `json:"note,omitempty"`
}

// HistoryPage is one page of the history.
type HistoryPage struct {
	Items      []HistoryItem `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	HasMore    bool          `json:"has_more"`
	HasPrev    bool          `json:"has_previous"`
}

// searchHistory filters, sorts and pages sessions in memory. Unknown sort
// values keep the stored order.
func searchHistory(all []*Session, q HistoryQuery) ([]*Session, int) {
	filtered := make([]*Session, 0, len(all))
	for _, s := range all {
		if q.match(s) {
			filtered = append(filtered, s)
		}
	}
	switch q.Sort {
	case SortDateDesc:
		SortNewestFirst(filtered)
	case SortDateAsc:
		SortOldestFirst(filtered)
	}
	start, end := q.params().Window(len(filtered))
	return filtered[start:end], len(filtered)
}
