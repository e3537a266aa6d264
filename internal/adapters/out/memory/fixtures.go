package memory

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

type Fixtures struct {
	Doctors      []domain.Doctor      `json:"doctors"`
	Patients     []domain.Patient     `json:"patients"`
	Appointments []domain.Appointment `json:"appointments"`
}

// Validate проверяет ссылочную целостность: каждый прием ссылается на известного врача
// и корректен сам по себе. Пациент может отсутствовать.
func (f Fixtures) Validate() error {
	doctors := make(map[string]struct{}, len(f.Doctors))
	for _, doctor := range f.Doctors {
		if doctor.ID == "" {
			return fmt.Errorf("%w: doctor without id", domain.ErrInvalidResource)
		}
		doctors[doctor.ID] = struct{}{}
	}

	for _, appointment := range f.Appointments {
		if err := appointment.Validate(); err != nil {
			return err
		}
		if _, ok := doctors[appointment.DoctorID]; !ok {
			return fmt.Errorf("%w: appointment %s references unknown doctor %s",
				domain.ErrInvalidAppointment, appointment.ID, appointment.DoctorID)
		}
	}

	return nil
}

func ParseFixtures(data []byte) (Fixtures, error) {
	var fixtures Fixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return Fixtures{}, fmt.Errorf("memory.fixtures.decode_failed: %w", err)
	}
	if err := fixtures.Validate(); err != nil {
		return Fixtures{}, fmt.Errorf("memory.fixtures.invalid: %w", err)
	}
	return fixtures, nil
}

func ReadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("memory.fixtures.read_failed: %w", err)
	}
	return ParseFixtures(data)
}

// SeedFixtures — демонстрационные данные на неделю, содержащую date
func SeedFixtures(date time.Time) Fixtures {
	daysSinceMonday := (int(date.Weekday()) + 6) % 7
	monday := utils.StartCurrentDay(date).AddDate(0, 0, -daysSinceMonday)

	at := func(day, hour, minute int) time.Time {
		return utils.AtHour(monday.AddDate(0, 0, day), hour, minute)
	}
	appointment := func(id, doctorID, patientID string, start time.Time, minutes int, appointmentType domain.AppointmentType, notes string) domain.Appointment {
		return domain.Appointment{
			ID:        id,
			DoctorID:  doctorID,
			PatientID: patientID,
			StartTime: start,
			EndTime:   start.Add(time.Duration(minutes) * time.Minute),
			Type:      appointmentType,
			Status:    domain.AppointmentStatusScheduled,
			Notes:     notes,
		}
	}
	hours := func(start, end string) domain.WorkingHours {
		s, _ := json_types.ParseTime(start)
		e, _ := json_types.ParseTime(end)
		return domain.WorkingHours{Start: s, End: e}
	}
	weekdays := func(start, end string) map[domain.DayOfWeek]domain.WorkingHours {
		return map[domain.DayOfWeek]domain.WorkingHours{
			domain.DayOfWeekMon: hours(start, end),
			domain.DayOfWeekTue: hours(start, end),
			domain.DayOfWeekWed: hours(start, end),
			domain.DayOfWeekThu: hours(start, end),
			domain.DayOfWeekFri: hours(start, end),
		}
	}
	birthDate := func(year int, month time.Month, day int) json_types.Date {
		return json_types.NewDate(time.Date(year, month, day, 0, 0, 0, 0, date.Location()))
	}

	return Fixtures{
		Doctors: []domain.Doctor{
			{ID: "doctor-1", Name: "Dr. Sarah Johnson", Specialty: "Cardiology", WorkingHours: weekdays("08:00", "16:00")},
			{ID: "doctor-2", Name: "Dr. Michael Chen", Specialty: "Pediatrics", WorkingHours: weekdays("09:00", "17:00")},
			{ID: "doctor-3", Name: "Dr. Emily Rodriguez", Specialty: "Dermatology", WorkingHours: weekdays("10:00", "18:00")},
		},
		Patients: []domain.Patient{
			{ID: "patient-1", Name: "John Smith", DateOfBirth: birthDate(1980, time.May, 15), Phone: "555-0101", Email: "john.smith@example.com"},
			{ID: "patient-2", Name: "Emma Wilson", DateOfBirth: birthDate(1992, time.August, 22), Phone: "555-0102", Email: "emma.wilson@example.com"},
			{ID: "patient-3", Name: "Robert Brown", DateOfBirth: birthDate(1975, time.March, 3), Phone: "555-0103"},
			{ID: "patient-4", Name: "Olivia Davis", DateOfBirth: birthDate(2015, time.November, 9), Phone: "555-0104"},
		},
		Appointments: []domain.Appointment{
			appointment("appt-1", "doctor-1", "patient-1", at(0, 9, 0), 45, domain.AppointmentTypeCheckup, "Annual cardiac checkup"),
			appointment("appt-2", "doctor-1", "patient-2", at(0, 10, 15), 30, domain.AppointmentTypeConsultation, ""),
			appointment("appt-3", "doctor-1", "patient-3", at(0, 13, 30), 90, domain.AppointmentTypeProcedure, "Stress test"),
			appointment("appt-4", "doctor-1", "patient-1", at(2, 11, 0), 30, domain.AppointmentTypeFollowUp, "Review test results"),
			appointment("appt-5", "doctor-2", "patient-4", at(0, 9, 30), 30, domain.AppointmentTypeCheckup, ""),
			appointment("appt-6", "doctor-2", "patient-4", at(3, 14, 0), 60, "Vaccination", "Unknown type shows as default"),
			appointment("appt-7", "doctor-3", "patient-2", at(1, 10, 0), 30, domain.AppointmentTypeConsultation, ""),
			appointment("appt-8", "doctor-3", "patient-9", at(4, 15, 30), 45, domain.AppointmentTypeProcedure, "Patient record missing"),
		},
	}
}
