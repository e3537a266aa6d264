package schedule_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

func (s *ScheduleService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	doctors, err := s.repositoryPort.ListDoctors(ctx)
	if err != nil {
		s.logger.Error("doctors.list.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("doctors.list.fetch_failed: %w", repositoryError(err))
	}
	return doctors, nil
}

func (s *ScheduleService) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return s.lookupDoctor(ctx, doctorID)
}

func (s *ScheduleService) lookupDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	// Проверяем кэш только если он включен
	if s.cachePort != nil {
		if doctor, exists := s.cachePort.GetDoctor(ctx, doctorID); exists {
			return doctor, nil
		}
	}

	doctor, err := s.repositoryPort.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, repositoryError(err)
	}

	if s.cachePort != nil {
		s.cachePort.StoreDoctor(ctx, *doctor)
	}

	return doctor, nil
}

// lookupPatient не возвращает ошибку: отсутствующий пациент отображается заглушкой
func (s *ScheduleService) lookupPatient(ctx context.Context, patientID string) (*domain.Patient, bool) {
	if s.cachePort != nil {
		if patient, exists := s.cachePort.GetPatient(ctx, patientID); exists {
			return patient, true
		}
	}

	patient, found, err := s.repositoryPort.GetPatientByID(ctx, patientID)
	if err != nil {
		s.logger.Warn("patients.fetch_failed", out.LogFields{
			"patientId": patientID,
			"error":     err.Error(),
		})
		return nil, false
	}
	if !found {
		s.logger.Debug("patients.not_found", out.LogFields{
			"patientId": patientID,
		})
		return nil, false
	}

	if s.cachePort != nil {
		s.cachePort.StorePatient(ctx, *patient)
	}

	return patient, true
}

// repositoryError помечает сбой репозитория, не трогая NotFound
func repositoryError(err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrRepository) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrRepository, err)
}
