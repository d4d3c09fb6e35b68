package session

import "sort"

// Day is one calendar date with its sessions ordered by start time.
type Day struct {
	Date     string     `json:"date"`
	Sessions []*Session `json:"sessions"`
}

// GroupByDay buckets sessions by date. Sessions without a date are left
// out; when month is non-empty only that YYYY-MM is kept.
func GroupByDay(sessions []*Session, month string) []Day {
	byDate := make(map[string][]*Session)
	for _, s := range sessions {
		if s.Date == "" {
			continue
		}
		if month != "" && s.Month() != month {
			continue
		}
		byDate[s.Date] = append(byDate[s.Date], s)
	}

	days := make([]Day, 0, len(byDate))
	for date, list := range byDate {
		SortOldestFirst(list)
		days = append(days, Day{Date: date, Sessions: list})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
