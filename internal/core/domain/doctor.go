package domain

import (
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
)

type DayOfWeek string

const (
	DayOfWeekMon DayOfWeek = "mon"
	DayOfWeekTue DayOfWeek = "tue"
	DayOfWeekWed DayOfWeek = "wed"
	DayOfWeekThu DayOfWeek = "thu"
	DayOfWeekFri DayOfWeek = "fri"
	DayOfWeekSat DayOfWeek = "sat"
	DayOfWeekSun DayOfWeek = "sun"
)

var DaysOfWeekMap = map[time.Weekday]DayOfWeek{
	time.Monday:    DayOfWeekMon,
	time.Tuesday:   DayOfWeekTue,
	time.Wednesday: DayOfWeekWed,
	time.Thursday:  DayOfWeekThu,
	time.Friday:    DayOfWeekFri,
	time.Saturday:  DayOfWeekSat,
	time.Sunday:    DayOfWeekSun,
}

type WorkingHours struct {
	Start json_types.Time `json:"start"`
	End   json_types.Time `json:"end"`
}

type Doctor struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Specialty    string                     `json:"specialty"`
	WorkingHours map[DayOfWeek]WorkingHours `json:"workingHours,omitempty"`
}

// HoursOn возвращает рабочее окно врача в календарный день date.
// false, если в этот день недели врач не работает.
func (d Doctor) HoursOn(date time.Time) (TimeSlot, bool) {
	hours, ok := d.WorkingHours[DaysOfWeekMap[date.Weekday()]]
	if !ok {
		return TimeSlot{}, false
	}

	start := time.Date(date.Year(), date.Month(), date.Day(),
		hours.Start.Time.Hour(), hours.Start.Time.Minute(), 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(),
		hours.End.Time.Hour(), hours.End.Time.Minute(), 0, 0, date.Location())

	slot, err := NewTimeSlot(start, end)
	if err != nil {
		return TimeSlot{}, false
	}
	return slot, true
}
