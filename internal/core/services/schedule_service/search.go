package schedule_service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

func (s *ScheduleService) SearchAppointments(ctx context.Context, filter domain.AppointmentFilter) ([]domain.AppointmentDetails, error) {
	s.logger.Info("appointments.search.started", out.LogFields{
		"doctorId":    filter.DoctorID,
		"patientName": filter.PatientName,
		"category":    filter.Category,
	})

	appointments, err := s.repositoryPort.ListAppointments(ctx)
	if err != nil {
		s.logger.Error("appointments.search.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("appointments.search.fetch_failed: %w", repositoryError(err))
	}

	patientNeedle := strings.TrimSpace(filter.PatientName)
	enricher := s.newEnricher(ctx)
	results := make(DetailsSlice, 0)

	for _, appointment := range appointments {
		item := enricher.enrich(appointment)
		details := domain.AppointmentDetails{
			Appointment: appointment,
			Category:    item.Category,
			PatientName: item.PatientName,
		}
		if !matchesFilter(details, filter, patientNeedle) {
			continue
		}
		results = append(results, details)
	}

	results = results.quickSort()

	s.logger.Debug("appointments.search.finished", out.LogFields{
		"count": len(results),
	})

	return results, nil
}

func (s *ScheduleService) GetAppointmentDetails(ctx context.Context, appointmentID string) (*domain.AppointmentDetails, error) {
	appointment, err := s.repositoryPort.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		s.logger.Warn("appointments.details.fetch_failed", out.LogFields{
			"appointmentId": appointmentID,
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("appointments.details.fetch_failed: %w", repositoryError(err))
	}

	details := &domain.AppointmentDetails{
		Appointment: *appointment,
		Category:    s.classify(*appointment),
		PatientName: domain.UnknownPatientName,
	}

	// Врача может уже не быть в справочнике: карточку все равно показываем
	doctor, err := s.lookupDoctor(ctx, appointment.DoctorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("appointments.details.doctor.fetch_failed: %w", err)
	}
	details.Doctor = doctor

	if patient, ok := s.lookupPatient(ctx, appointment.PatientID); ok {
		details.Patient = patient
		if patient.Name != "" {
			details.PatientName = patient.Name
		}
	}

	return details, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
