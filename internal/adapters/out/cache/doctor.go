package cache

import (
	"context"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// Кэширование врачей

func (c *CacheAdapter) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, bool) {
	entry, exists := c.doctorCache.Get(doctorID)
	if !exists {
		c.logger.Debug("cache.doctors.get.miss", out.LogFields{
			"doctorId": doctorID,
		})
		return nil, false
	}

	// Карта рабочих часов общая у всех копий, поэтому копируем и ее
	doctor := entry
	if entry.WorkingHours != nil {
		doctor.WorkingHours = make(map[domain.DayOfWeek]domain.WorkingHours, len(entry.WorkingHours))
		for day, hours := range entry.WorkingHours {
			doctor.WorkingHours[day] = hours
		}
	}

	return &doctor, true
}

func (c *CacheAdapter) StoreDoctor(ctx context.Context, doctor domain.Doctor) {
	c.doctorCache.Add(doctor.ID, doctor)
}

func (c *CacheAdapter) InvalidateDoctor(ctx context.Context, doctorID string) {
	c.doctorCache.Remove(doctorID)
}
