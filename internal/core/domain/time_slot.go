package domain

import (
	"fmt"
	"time"
)

// TimeSlot — полуоткрытый интервал [Start, End) сетки расписания
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidTimeSlot, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeSlot{Start: start, End: end}, nil
}

// Overlaps — есть ли у интервалов общий момент времени.
// Соприкасающиеся интервалы (a.End == b.Start) не пересекаются.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return !(!s.End.After(other.Start) || !other.End.After(s.Start))
}

// Contains включает обе границы: слот содержит и Start, и End
func (s TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// StartsWithin — попадает ли t в [Start, End)
func (s TimeSlot) StartsWithin(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

func (s TimeSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s-%s", s.Start.Format("15:04"), s.End.Format("15:04"))
}
