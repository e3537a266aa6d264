package schedule_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

var ErrReadOnlyRepository = errors.New("repository is read-only")

// Изменения справочников из очереди

func (s *ScheduleService) ApplyAppointment(ctx context.Context, appointment domain.Appointment) error {
	if s.storePort == nil {
		return ErrReadOnlyRepository
	}
	if err := appointment.Validate(); err != nil {
		return err
	}

	if err := s.storePort.UpsertAppointment(ctx, appointment); err != nil {
		return fmt.Errorf("appointments.store_failed: %w", repositoryError(err))
	}

	s.logger.Info("appointments.stored", out.LogFields{
		"appointmentId": appointment.ID,
		"doctorId":      appointment.DoctorID,
	})
	return nil
}

func (s *ScheduleService) RemoveAppointment(ctx context.Context, appointmentID string) error {
	if s.storePort == nil {
		return ErrReadOnlyRepository
	}

	if err := s.storePort.RemoveAppointment(ctx, appointmentID); err != nil {
		return fmt.Errorf("appointments.remove_failed: %w", repositoryError(err))
	}

	s.logger.Info("appointments.removed", out.LogFields{
		"appointmentId": appointmentID,
	})
	return nil
}

func (s *ScheduleService) ApplyPatient(ctx context.Context, patient domain.Patient) error {
	if s.storePort == nil {
		return ErrReadOnlyRepository
	}
	if patient.ID == "" {
		return fmt.Errorf("%w: patient id is empty", domain.ErrInvalidResource)
	}

	if err := s.storePort.UpsertPatient(ctx, patient); err != nil {
		return fmt.Errorf("patients.store_failed: %w", repositoryError(err))
	}
	if s.cachePort != nil {
		s.cachePort.InvalidatePatient(ctx, patient.ID)
	}

	s.logger.Info("patients.stored", out.LogFields{
		"patientId": patient.ID,
	})
	return nil
}

func (s *ScheduleService) ApplyDoctor(ctx context.Context, doctor domain.Doctor) error {
	if s.storePort == nil {
		return ErrReadOnlyRepository
	}
	if doctor.ID == "" {
		return fmt.Errorf("%w: doctor id is empty", domain.ErrInvalidResource)
	}

	if err := s.storePort.UpsertDoctor(ctx, doctor); err != nil {
		return fmt.Errorf("doctors.store_failed: %w", repositoryError(err))
	}
	if s.cachePort != nil {
		s.cachePort.InvalidateDoctor(ctx, doctor.ID)
	}

	s.logger.Info("doctors.stored", out.LogFields{
		"doctorId": doctor.ID,
	})
	return nil
}

func (s *ScheduleService) InvalidateDirectory(ctx context.Context) {
	if s.cachePort != nil {
		s.cachePort.InvalidateAll(ctx)
	}
	s.logger.Info("directory.cache.invalidated", out.LogFields{})
}
