package schedule_service

import (
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
)

// CurrentTimeIndicator вычисляет положение линии "сейчас" в окне сетки дня.
// now передается явно, ядро не читает часы само.
func CurrentTimeIndicator(now time.Time, window domain.TimeSlot) domain.TimeIndicator {
	if !window.StartsWithin(now) {
		return domain.TimeIndicator{}
	}

	elapsed := now.Sub(window.Start).Minutes()
	total := window.Duration().Minutes()

	return domain.TimeIndicator{
		Visible: true,
		Percent: elapsed / total * 100,
	}
}
