package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/in/http"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/out/cache"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/out/export"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/out/logger"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/out/memory"
	"github.com/suchimauz/hospital-schedule-viewer/internal/adapters/out/metrics"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/services/schedule_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	json_types.DefaultLocation = config.TimeZone

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewZapLogger(logger.Config{
		Local:    cfg.IsLocal(),
		Level:    cfg.App.LogLevel,
		Location: config.TimeZone,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer mainLogger.Sync()
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
		"metricsEnabled":  cfg.Metrics.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Репозиторий: фикстура из файла или демо-данные на текущую неделю
	repository := memory.NewRepository(mainLogger)
	if cfg.Fixtures.Path != "" {
		fixtures, err := memory.ReadFixtures(cfg.Fixtures.Path)
		if err != nil {
			logger.Error("app.fixtures.load_failed", out.LogFields{
				"path":  cfg.Fixtures.Path,
				"error": err.Error(),
			})
			os.Exit(1)
		}
		repository.Load(fixtures)
	} else {
		repository.Load(memory.SeedFixtures(time.Now().In(config.TimeZone)))
	}

	// nil-интерфейс, а не nil-указатель: сервис проверяет cachePort != nil
	var cachePort out.DirectoryCachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewCacheAdapter(cfg, mainLogger)
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cachePort = cacheAdapter
	}

	var (
		scheduleMetrics *metrics.ScheduleMetrics
		gatherer        prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		scheduleMetrics = metrics.NewScheduleMetrics(registry)
		gatherer = registry
	}

	// Инициализация сервиса
	scheduleService, err := schedule_service.NewScheduleService(
		repository,
		repository,
		cachePort,
		scheduleMetrics,
		mainLogger,
		schedule_service.Options{
			Slots: schedule_service.SlotGeneratorConfig{
				DayStartHour: cfg.Schedule.DayStartHour,
				DayEndHour:   cfg.Schedule.DayEndHour,
				SlotMinutes:  cfg.Schedule.SlotMinutes,
			},
			WeekBucketMinutes: cfg.Schedule.WeekBucketMinutes,
			UseDoctorHours:    cfg.Schedule.UseDoctorHours,
		},
	)
	if err != nil {
		logger.Error("app.service.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Настройка HTTP сервера
	controller := http.NewScheduleController(
		scheduleService,
		[]out.ScheduleExporterPort{export.NewICSExporter(), export.NewXLSXExporter()},
		cfg,
		mainLogger,
	)
	router := http.NewRouter(cfg, mainLogger, scheduleMetrics, gatherer, controller)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewDirectoryListener(scheduleService, cfg, mainLogger, scheduleMetrics)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		// Добавляем остановку RabbitMQ в defer
		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"schedule": map[string]interface{}{
					"dayStartHour":      cfg.Schedule.DayStartHour,
					"dayEndHour":        cfg.Schedule.DayEndHour,
					"slotMinutes":       cfg.Schedule.SlotMinutes,
					"weekBucketMinutes": cfg.Schedule.WeekBucketMinutes,
					"useDoctorHours":    cfg.Schedule.UseDoctorHours,
				},
				"rabbitmq": map[string]interface{}{
					"enabled":  cfg.RabbitMQ.Enabled,
					"exchange": cfg.RabbitMQ.Exchange,
					"queue":    cfg.RabbitMQ.Queue,
				},
				"cache": map[string]interface{}{
					"enabled":       cfg.Cache.Enabled,
					"directorySize": cfg.Cache.DirectorySize,
				},
			},
		})
	}
}
