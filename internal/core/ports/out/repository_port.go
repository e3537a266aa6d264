package out

import (
	"context"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

type AppointmentRepositoryPort interface {
	// Врачи
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	// GetDoctorByID возвращает domain.ErrNotFound, если врача нет
	GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error)

	// Пациенты: отсутствие пациента не ошибка
	GetPatientByID(ctx context.Context, patientID string) (*domain.Patient, bool, error)

	// Приемы
	GetAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error)
	GetAppointmentsByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]domain.Appointment, error)
	GetAppointmentsByDoctorAndDateRange(ctx context.Context, doctorID string, startDate, endDate time.Time) ([]domain.Appointment, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
}

// AppointmentStorePort — изменение данных репозитория из внешних событий
type AppointmentStorePort interface {
	UpsertAppointment(ctx context.Context, appointment domain.Appointment) error
	RemoveAppointment(ctx context.Context, appointmentID string) error
	UpsertPatient(ctx context.Context, patient domain.Patient) error
	UpsertDoctor(ctx context.Context, doctor domain.Doctor) error
}
