package in

import (
	"context"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

type ScheduleUseCase interface {
	// Расписание врача на день и на неделю. Ошибки репозитория не возвращаются,
	// а попадают в поле Error результата.
	AssembleDay(ctx context.Context, doctorID string, date time.Time) domain.DaySchedule
	AssembleWeek(ctx context.Context, doctorID string, date time.Time) domain.WeekSchedule

	// Дневные расписания нескольких врачей в порядке запроса
	AssembleMultiDoctorDay(ctx context.Context, doctorIDs []string, date time.Time) []domain.DaySchedule

	// Положение "сейчас" в окне дневной сетки врача
	CurrentTimeIndicator(ctx context.Context, doctorID string, now, day time.Time) domain.TimeIndicator

	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error)

	SearchAppointments(ctx context.Context, filter domain.AppointmentFilter) ([]domain.AppointmentDetails, error)
	GetAppointmentDetails(ctx context.Context, appointmentID string) (*domain.AppointmentDetails, error)
}

// DirectorySyncUseCase применяет внешние изменения к репозиторию и кэшу
type DirectorySyncUseCase interface {
	ApplyAppointment(ctx context.Context, appointment domain.Appointment) error
	RemoveAppointment(ctx context.Context, appointmentID string) error
	ApplyPatient(ctx context.Context, patient domain.Patient) error
	ApplyDoctor(ctx context.Context, doctor domain.Doctor) error
	InvalidateDirectory(ctx context.Context)
}
