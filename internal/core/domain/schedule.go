package domain

import (
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
)

// ScheduledAppointment — прием, размещенный в сетке, вместе со всем,
// что нужно для отрисовки
type ScheduledAppointment struct {
	Appointment     Appointment         `json:"appointment"`
	PatientName     string              `json:"patientName"`
	Category        AppointmentCategory `json:"category"`
	DurationMinutes int                 `json:"durationMinutes"`
	// Положение карточки внутри ячейки
	OffsetMinutes int `json:"offsetMinutes"`
	SpanMinutes   int `json:"spanMinutes"`
}

type SlotAppointments struct {
	Slot               TimeSlot               `json:"slot"`
	WithinWorkingHours bool                   `json:"withinWorkingHours"`
	Appointments       []ScheduledAppointment `json:"appointments"`
}

type DaySchedule struct {
	DoctorID string             `json:"doctorId"`
	Date     json_types.Date    `json:"date"`
	Slots    []SlotAppointments `json:"slots"`
	Error    string             `json:"error,omitempty"`
}

type DayBuckets struct {
	Day         json_types.Date    `json:"day"`
	HourBuckets []SlotAppointments `json:"hourBuckets"`
}

type WeekSchedule struct {
	DoctorID string       `json:"doctorId"`
	Range    WeekRange    `json:"range"`
	Label    string       `json:"label"`
	Days     []DayBuckets `json:"days"`
	Error    string       `json:"error,omitempty"`
}

// Appointments возвращает каждый прием недели один раз, в порядке ячеек
func (w WeekSchedule) Appointments() []ScheduledAppointment {
	seen := make(map[string]struct{})
	result := make([]ScheduledAppointment, 0)
	for _, day := range w.Days {
		for _, bucket := range day.HourBuckets {
			for _, item := range bucket.Appointments {
				if _, ok := seen[item.Appointment.ID]; ok {
					continue
				}
				seen[item.Appointment.ID] = struct{}{}
				result = append(result, item)
			}
		}
	}
	return result
}

type TimeIndicator struct {
	Visible bool    `json:"visible"`
	Percent float64 `json:"percent"`
}

type AppointmentDetails struct {
	Appointment Appointment         `json:"appointment"`
	Category    AppointmentCategory `json:"category"`
	Doctor      *Doctor             `json:"doctor,omitempty"`
	Patient     *Patient            `json:"patient,omitempty"`
	PatientName string              `json:"patientName"`
}
