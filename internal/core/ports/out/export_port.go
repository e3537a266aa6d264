package out

import "github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"

type ScheduleExporterPort interface {
	ContentType() string
	FileExtension() string
	ExportWeek(week domain.WeekSchedule, doctor domain.Doctor) ([]byte, error)
}
