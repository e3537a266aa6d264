package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

// Repository хранит справочники и приемы в памяти процесса.
// Порядок вставки сохраняется: выборки отдают приемы в том же порядке.
type Repository struct {
	mu sync.RWMutex

	doctors      []domain.Doctor
	patients     []domain.Patient
	appointments []domain.Appointment

	logger out.LoggerPort
}

func NewRepository(logger out.LoggerPort) *Repository {
	return &Repository{
		doctors:      make([]domain.Doctor, 0),
		patients:     make([]domain.Patient, 0),
		appointments: make([]domain.Appointment, 0),
		logger:       logger.WithModule("MemoryRepository"),
	}
}

// Load заменяет содержимое репозитория данными фикстуры
func (r *Repository) Load(fixtures Fixtures) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.doctors = append(make([]domain.Doctor, 0, len(fixtures.Doctors)), fixtures.Doctors...)
	r.patients = append(make([]domain.Patient, 0, len(fixtures.Patients)), fixtures.Patients...)
	r.appointments = append(make([]domain.Appointment, 0, len(fixtures.Appointments)), fixtures.Appointments...)

	r.logger.Info("memory.fixtures.loaded", out.LogFields{
		"doctors":      len(r.doctors),
		"patients":     len(r.patients),
		"appointments": len(r.appointments),
	})
}

func (r *Repository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]domain.Doctor, 0, len(r.doctors)), r.doctors...), nil
}

func (r *Repository) GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doctor := range r.doctors {
		if doctor.ID == doctorID {
			found := doctor
			return &found, nil
		}
	}

	return nil, fmt.Errorf("doctor %s: %w", doctorID, domain.ErrNotFound)
}

func (r *Repository) GetPatientByID(ctx context.Context, patientID string) (*domain.Patient, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, patient := range r.patients {
		if patient.ID == patientID {
			found := patient
			return &found, true, nil
		}
	}

	return nil, false, nil
}

func (r *Repository) GetAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.appointmentIndex(appointmentID); i >= 0 {
		found := r.appointments[i]
		return &found, nil
	}

	return nil, fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
}

// GetAppointmentsByDoctorAndDate сравнивает календарный день в таймзоне date
func (r *Repository) GetAppointmentsByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]domain.Appointment, error) {
	return r.filterAppointments(func(appointment domain.Appointment) bool {
		return appointment.DoctorID == doctorID &&
			utils.SameDay(appointment.StartTime.In(date.Location()), date)
	}), nil
}

// GetAppointmentsByDoctorAndDateRange отбирает приемы, начинающиеся в [startDate, endDate]
func (r *Repository) GetAppointmentsByDoctorAndDateRange(ctx context.Context, doctorID string, startDate, endDate time.Time) ([]domain.Appointment, error) {
	return r.filterAppointments(func(appointment domain.Appointment) bool {
		return appointment.DoctorID == doctorID &&
			!appointment.StartTime.Before(startDate) &&
			!appointment.StartTime.After(endDate)
	}), nil
}

func (r *Repository) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return r.filterAppointments(func(domain.Appointment) bool { return true }), nil
}

func (r *Repository) UpsertAppointment(ctx context.Context, appointment domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.appointmentIndex(appointment.ID); i >= 0 {
		r.appointments[i] = appointment
		return nil
	}
	r.appointments = append(r.appointments, appointment)
	return nil
}

func (r *Repository) RemoveAppointment(ctx context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.appointmentIndex(appointmentID)
	if i < 0 {
		return fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
	}
	r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
	return nil
}

func (r *Repository) UpsertPatient(ctx context.Context, patient domain.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.patients {
		if r.patients[i].ID == patient.ID {
			r.patients[i] = patient
			return nil
		}
	}
	r.patients = append(r.patients, patient)
	return nil
}

func (r *Repository) UpsertDoctor(ctx context.Context, doctor domain.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.doctors {
		if r.doctors[i].ID == doctor.ID {
			r.doctors[i] = doctor
			return nil
		}
	}
	r.doctors = append(r.doctors, doctor)
	return nil
}

func (r *Repository) filterAppointments(match func(domain.Appointment) bool) []domain.Appointment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Appointment, 0)
	for _, appointment := range r.appointments {
		if match(appointment) {
			result = append(result, appointment)
		}
	}
	return result
}

// Вызывать под блокировкой
func (r *Repository) appointmentIndex(appointmentID string) int {
	for i, appointment := range r.appointments {
		if appointment.ID == appointmentID {
			return i
		}
	}
	return -1
}
