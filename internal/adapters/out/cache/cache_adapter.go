package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// CacheAdapter кэширует справочники врачей и пациентов в LRU.
// Значения хранятся копиями: вызывающий не может изменить запись в кэше.
type CacheAdapter struct {
	patientCache *lru.Cache[string, domain.Patient]
	doctorCache  *lru.Cache[string, domain.Doctor]
	logger       out.LoggerPort
}

// NewCacheAdapter возвращает nil, если кэш выключен в конфиге
func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	patientCache, err := lru.New[string, domain.Patient](cfg.Cache.DirectorySize)
	if err != nil {
		logger.Error("cache.patients.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DirectorySize,
		})
		return nil, err
	}

	doctorCache, err := lru.New[string, domain.Doctor](cfg.Cache.DirectorySize)
	if err != nil {
		logger.Error("cache.doctors.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DirectorySize,
		})
		return nil, err
	}

	return &CacheAdapter{
		patientCache: patientCache,
		doctorCache:  doctorCache,
		logger:       logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.patientCache.Purge()
	c.doctorCache.Purge()

	c.logger.Debug("cache.purged", out.LogFields{})
}
