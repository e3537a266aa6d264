package schedule_service

import (
	"context"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// appointmentEnricher дополняет приемы данными для отрисовки.
// Живет в пределах одной сборки: прием, попавший в несколько ячеек недели,
// классифицируется и ищется в справочнике пациентов один раз.
type appointmentEnricher struct {
	ctx     context.Context
	service *ScheduleService
	items   map[string]domain.ScheduledAppointment
}

func (s *ScheduleService) newEnricher(ctx context.Context) *appointmentEnricher {
	return &appointmentEnricher{
		ctx:     ctx,
		service: s,
		items:   make(map[string]domain.ScheduledAppointment),
	}
}

func (e *appointmentEnricher) enrich(appointment domain.Appointment) domain.ScheduledAppointment {
	if item, ok := e.items[appointment.ID]; ok {
		return item
	}

	item := domain.ScheduledAppointment{
		Appointment:     appointment,
		PatientName:     e.service.patientName(e.ctx, appointment.PatientID),
		Category:        e.service.classify(appointment),
		DurationMinutes: appointment.DurationMinutes(),
	}
	e.items[appointment.ID] = item

	return item
}

func (s *ScheduleService) classify(appointment domain.Appointment) domain.AppointmentCategory {
	category, known := ClassifyAppointmentType(appointment.Type)
	if !known {
		s.logger.Warn("schedule.appointment_type.unknown", out.LogFields{
			"appointmentId": appointment.ID,
			"type":          appointment.Type,
		})
		if s.metricsPort != nil {
			s.metricsPort.ObserveUnknownAppointmentType()
		}
	}
	return category
}

func (s *ScheduleService) patientName(ctx context.Context, patientID string) string {
	patient, ok := s.lookupPatient(ctx, patientID)
	if !ok || patient.Name == "" {
		return domain.UnknownPatientName
	}
	return patient.Name
}
