package schedule_service

import (
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

// Функция для проверки попадания слота в рабочие часы врача.
// Если у врача часы не заданы вовсе, ограничений нет.
func isWithinWorkingHours(doctor *domain.Doctor, slot domain.TimeSlot) bool {
	if doctor == nil || len(doctor.WorkingHours) == 0 {
		return true
	}

	hours, ok := doctor.HoursOn(slot.Start)
	if !ok {
		return false
	}

	return !slot.Start.Before(hours.Start) && !slot.End.After(hours.End)
}

// Видимая часть приема внутри ячейки: смещение от начала ячейки и длина, в минутах
func placementWithin(appointment domain.Appointment, bucket domain.TimeSlot) (int, int) {
	visibleStart := appointment.StartTime
	if visibleStart.Before(bucket.Start) {
		visibleStart = bucket.Start
	}

	visibleEnd := appointment.EndTime
	if visibleEnd.After(bucket.End) {
		visibleEnd = bucket.End
	}

	offset := int(visibleStart.Sub(bucket.Start) / time.Minute)
	span := int(visibleEnd.Sub(visibleStart) / time.Minute)

	return offset, span
}

// Функция для проверки совпадения приема с фильтром поиска
func matchesFilter(details domain.AppointmentDetails, filter domain.AppointmentFilter, patientNeedle string) bool {
	appointment := details.Appointment

	if filter.DoctorID != "" && appointment.DoctorID != filter.DoctorID {
		return false
	}
	if filter.Category != "" && details.Category != filter.Category {
		return false
	}
	if !filter.From.IsZero() && appointment.StartTime.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && appointment.StartTime.After(filter.To) {
		return false
	}
	if patientNeedle != "" && !containsFold(details.PatientName, patientNeedle) {
		return false
	}

	return true
}
