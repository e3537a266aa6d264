package domain

import "time"

// AppointmentFilter — фильтр поиска приемов. Пустые поля не ограничивают выборку.
type AppointmentFilter struct {
	DoctorID    string
	PatientName string
	Category    AppointmentCategory
	From        time.Time
	To          time.Time
}
