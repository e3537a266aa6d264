package schedule_service

import (
	"fmt"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

// WeekRangeFor возвращает неделю, содержащую date: с понедельника 00:00:00.000
// по воскресенье 23:59:59.999. Воскресенье относится к текущей неделе, а не к следующей.
func WeekRangeFor(date time.Time) domain.WeekRange {
	// Sunday=0 ... Saturday=6 -> сколько дней назад был понедельник
	daysSinceMonday := (int(date.Weekday()) + 6) % 7

	start := utils.StartCurrentDay(date).AddDate(0, 0, -daysSinceMonday)
	end := utils.EndCurrentDay(start.AddDate(0, 0, domain.DaysInWeek-1))

	return domain.WeekRange{Start: start, End: end}
}

// WeekDays — семь дней недели, содержащей date, каждый на полночь
func WeekDays(date time.Time) []time.Time {
	return WeekRangeFor(date).Days()
}

// FormatWeekRange форматирует неделю для заголовка: "Jan 1 - Jan 7, 2024"
func FormatWeekRange(week domain.WeekRange) string {
	return fmt.Sprintf("%s - %s", week.Start.Format("Jan 2"), week.End.Format("Jan 2, 2006"))
}
