package domain

import "time"

const DaysInWeek = 7

type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days возвращает семь полуночей начиная со Start
func (w WeekRange) Days() []time.Time {
	days := make([]time.Time, 0, DaysInWeek)
	for i := 0; i < DaysInWeek; i++ {
		days = append(days, w.Start.AddDate(0, 0, i))
	}
	return days
}

func (w WeekRange) Includes(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
