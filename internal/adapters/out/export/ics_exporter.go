package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

const icsProductID = "-//hospital-schedule-viewer//schedule//EN"

var icsStatuses = map[domain.AppointmentStatus]string{
	domain.AppointmentStatusScheduled: "CONFIRMED",
	domain.AppointmentStatusCompleted: "CONFIRMED",
	domain.AppointmentStatusCancelled: "CANCELLED",
	domain.AppointmentStatusNoShow:    "CANCELLED",
}

// ICSExporter выгружает неделю врача в iCalendar: одно событие на прием
type ICSExporter struct {
	now func() time.Time
}

func NewICSExporter() *ICSExporter {
	return &ICSExporter{now: time.Now}
}

func (e *ICSExporter) ContentType() string {
	return "text/calendar; charset=utf-8"
}

func (e *ICSExporter) FileExtension() string {
	return "ics"
}

func (e *ICSExporter) ExportWeek(week domain.WeekSchedule, doctor domain.Doctor) ([]byte, error) {
	if week.Error != "" {
		return nil, fmt.Errorf("export.ics.week_failed: %s", week.Error)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s, %s", doctor.Name, week.Label))

	stamp := e.now().UTC()
	// Прием на несколько часовых ячеек попадает в календарь один раз
	for _, item := range week.Appointments() {
		appointment := item.Appointment

		event := cal.AddEvent(appointment.ID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(appointment.StartTime)
		event.SetEndAt(appointment.EndTime)
		event.SetSummary(fmt.Sprintf("%s - %s", item.PatientName, appointment.Type))
		if appointment.Notes != "" {
			event.SetDescription(appointment.Notes)
		}
		event.SetProperty(ics.ComponentPropertyCategories, string(item.Category))
		if status, ok := icsStatuses[appointment.Status]; ok {
			event.SetProperty(ics.ComponentPropertyStatus, status)
		}
	}

	return []byte(cal.Serialize()), nil
}
