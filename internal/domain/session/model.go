package session

import "sort"

const (
	StatusAttended = "attended"
	StatusCanceled = "canceled"
	StatusMissed   = "missed"
)

var validStatuses = map[string]bool{StatusAttended: true, StatusCanceled: true, StatusMissed: true}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Session is one scheduled therapy meeting. PatientID is not enforced.
type Session struct {
	ID        string `db:"id" json:"session_id"`
	PatientID string `db:"patient_id" json:"patient_id"`
	Date      string `db:"date" json:"date"`
	StartTime string `db:"start_time" json:"start_time"`
	// Duration is in minutes, kept as entered.
	Duration string `db:"duration" json:"duration"`
	Status   string `db:"status" json:"status"`
}

// SortKey orders sessions chronologically; a missing start time counts as
// midnight.
func (s *Session) SortKey() string {
	start := s.StartTime
	if start == "" {
		start = "00:00"
	}
	return s.Date + "T" + start
}

// Month returns the YYYY-MM part of the date, or "" when the date is too
// short to have one.
func (s *Session) Month() string {
	if len(s.Date) < 7 {
		return ""
	}
	return s.Date[:7]
}

// SortNewestFirst sorts in place by SortKey, latest first. Ties keep their
// stored order.
func SortNewestFirst(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SortKey() > sessions[j].SortKey()
	})
}

// SortOldestFirst is the ascending counterpart of SortNewestFirst.
func SortOldestFirst(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SortKey() < sessions[j].SortKey()
	})
}

// ForPatient returns the sessions of one patient in stored order.
func ForPatient(sessions []*Session, patientID string) []*Session {
	out := make([]*Session, 0)
	for _, s := range sessions {
		if s.PatientID == patientID {
			out = append(out, s)
		}
	}
	return out
}
