package schedule_service

import "github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"

type DetailsSlice []domain.AppointmentDetails

// quickSort — сортировка по началу приема. Разбиение на три части
// сохраняет исходный порядок равных элементов.
func (s DetailsSlice) quickSort() DetailsSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := s[len(s)/2].Appointment.StartTime

	// Разделяем слайс на три части
	less := DetailsSlice{}
	equal := DetailsSlice{}
	greater := DetailsSlice{}

	for _, item := range s {
		start := item.Appointment.StartTime
		if start.Before(pivot) {
			less = append(less, item)
		} else if start.Equal(pivot) {
			equal = append(equal, item)
		} else {
			greater = append(greater, item)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}
