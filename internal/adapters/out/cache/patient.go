package cache

import (
	"context"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// Кэширование пациентов

func (c *CacheAdapter) GetPatient(ctx context.Context, patientID string) (*domain.Patient, bool) {
	entry, exists := c.patientCache.Get(patientID)
	if !exists {
		c.logger.Debug("cache.patients.get.miss", out.LogFields{
			"patientId": patientID,
		})
		return nil, false
	}

	return &entry, true
}

func (c *CacheAdapter) StorePatient(ctx context.Context, patient domain.Patient) {
	c.patientCache.Add(patient.ID, patient)
}

func (c *CacheAdapter) InvalidatePatient(ctx context.Context, patientID string) {
	c.patientCache.Remove(patientID)
}
