package domain

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// AppointmentType — метка типа приема. Запись создает значения из набора ниже,
// но в импортированных данных может быть произвольный текст.
type AppointmentType string

const (
	AppointmentTypeCheckup      AppointmentType = "checkup"
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeProcedure    AppointmentType = "procedure"
	AppointmentTypeFollowUp     AppointmentType = "follow-up"
)

type Appointment struct {
	ID        string            `json:"id"`
	DoctorID  string            `json:"doctorId"`
	PatientID string            `json:"patientId"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Type      AppointmentType   `json:"type"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
}

func (a Appointment) Interval() TimeSlot {
	return TimeSlot{Start: a.StartTime, End: a.EndTime}
}

func (a Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

func (a Appointment) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidAppointment)
	}
	if !a.StartTime.Before(a.EndTime) {
		return fmt.Errorf("%w: %s start is not before end", ErrInvalidAppointment, a.ID)
	}
	return nil
}
