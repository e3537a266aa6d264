package schedule_service

import (
	"context"
	"fmt"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

const (
	viewDay  = "day"
	viewWeek = "week"
)

type Options struct {
	Slots             SlotGeneratorConfig
	WeekBucketMinutes int
	UseDoctorHours    bool
}

func DefaultOptions() Options {
	return Options{
		Slots:             DefaultSlotGeneratorConfig(),
		WeekBucketMinutes: 60,
	}
}

type ScheduleService struct {
	repositoryPort out.AppointmentRepositoryPort
	storePort      out.AppointmentStorePort
	cachePort      out.DirectoryCachePort
	metricsPort    out.MetricsPort
	logger         out.LoggerPort

	slotGenerator   *SlotGenerator
	bucketGenerator *SlotGenerator
	useDoctorHours  bool
}

// NewScheduleService собирает сервис. cachePort, storePort и metricsPort могут быть nil.
func NewScheduleService(
	repositoryPort out.AppointmentRepositoryPort,
	storePort out.AppointmentStorePort,
	cachePort out.DirectoryCachePort,
	metricsPort out.MetricsPort,
	logger out.LoggerPort,
	opts Options,
) (*ScheduleService, error) {
	slotGenerator, err := NewSlotGenerator(opts.Slots)
	if err != nil {
		return nil, fmt.Errorf("schedule.slots.config_invalid: %w", err)
	}

	// Недельная сетка: то же рабочее окно, но ячейки крупнее
	bucketGenerator, err := NewSlotGenerator(SlotGeneratorConfig{
		DayStartHour: opts.Slots.DayStartHour,
		DayEndHour:   opts.Slots.DayEndHour,
		SlotMinutes:  opts.WeekBucketMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("schedule.week_buckets.config_invalid: %w", err)
	}

	return &ScheduleService{
		repositoryPort:  repositoryPort,
		storePort:       storePort,
		cachePort:       cachePort,
		metricsPort:     metricsPort,
		logger:          logger.WithModule("ScheduleService"),
		slotGenerator:   slotGenerator,
		bucketGenerator: bucketGenerator,
		useDoctorHours:  opts.UseDoctorHours,
	}, nil
}

func (s *ScheduleService) AssembleDay(ctx context.Context, doctorID string, date time.Time) domain.DaySchedule {
	day := utils.StartCurrentDay(date)
	result := domain.DaySchedule{
		DoctorID: doctorID,
		Date:     json_types.NewDate(day),
		Slots:    []domain.SlotAppointments{},
	}

	s.logger.Debug("schedule.day.assemble.started", out.LogFields{
		"doctorId": doctorID,
		"date":     result.Date.String(),
	})

	doctor, err := s.lookupDoctor(ctx, doctorID)
	if err != nil {
		return s.failDay(result, "schedule.day.doctor.fetch_failed", "Failed to load doctor", err)
	}

	appointments, err := s.repositoryPort.GetAppointmentsByDoctorAndDate(ctx, doctorID, day)
	if err != nil {
		return s.failDay(result, "schedule.day.appointments.fetch_failed", "Failed to load appointments", err)
	}

	// Репозиторий мог привести даты к другой таймзоне: сверяем календарный день еще раз
	dayAppointments := make([]domain.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		if utils.SameDay(appointment.StartTime.In(day.Location()), day) {
			dayAppointments = append(dayAppointments, appointment)
		}
	}

	enricher := s.newEnricher(ctx)
	for _, slot := range s.slotGenerator.GenerateWithin(s.dayWindow(doctor, day)) {
		bucket := domain.SlotAppointments{
			Slot:               slot,
			WithinWorkingHours: isWithinWorkingHours(doctor, slot),
			Appointments:       []domain.ScheduledAppointment{},
		}

		// Прием принадлежит ровно одному слоту — тому, в котором он начинается
		for _, appointment := range dayAppointments {
			if !slot.StartsWithin(appointment.StartTime) {
				continue
			}
			item := enricher.enrich(appointment)
			item.OffsetMinutes = int(appointment.StartTime.Sub(slot.Start) / time.Minute)
			item.SpanMinutes = item.DurationMinutes
			bucket.Appointments = append(bucket.Appointments, item)
		}

		result.Slots = append(result.Slots, bucket)
	}

	s.observeAssembly(viewDay, false)
	s.logger.Debug("schedule.day.assemble.finished", out.LogFields{
		"doctorId":     doctorID,
		"date":         result.Date.String(),
		"slotsCount":   len(result.Slots),
		"appointments": len(dayAppointments),
	})

	return result
}

func (s *ScheduleService) AssembleWeek(ctx context.Context, doctorID string, date time.Time) domain.WeekSchedule {
	week := WeekRangeFor(date)
	result := domain.WeekSchedule{
		DoctorID: doctorID,
		Range:    week,
		Label:    FormatWeekRange(week),
		Days:     []domain.DayBuckets{},
	}

	s.logger.Debug("schedule.week.assemble.started", out.LogFields{
		"doctorId": doctorID,
		"start":    week.Start,
		"end":      week.End,
	})

	doctor, err := s.lookupDoctor(ctx, doctorID)
	if err != nil {
		return s.failWeek(result, "schedule.week.doctor.fetch_failed", "Failed to load doctor", err)
	}

	appointments, err := s.repositoryPort.GetAppointmentsByDoctorAndDateRange(ctx, doctorID, week.Start, week.End)
	if err != nil {
		return s.failWeek(result, "schedule.week.appointments.fetch_failed", "Failed to load appointments", err)
	}

	enricher := s.newEnricher(ctx)
	for _, day := range week.Days() {
		dayBuckets := domain.DayBuckets{
			Day:         json_types.NewDate(day),
			HourBuckets: []domain.SlotAppointments{},
		}

		for _, hour := range s.bucketGenerator.Generate(day) {
			bucket := domain.SlotAppointments{
				Slot:               hour,
				WithinWorkingHours: isWithinWorkingHours(doctor, hour),
				Appointments:       []domain.ScheduledAppointment{},
			}

			// В неделе прием попадает в каждую ячейку, с которой пересекается
			for _, appointment := range appointments {
				if !utils.SameDay(appointment.StartTime.In(day.Location()), day) {
					continue
				}
				if !appointment.Interval().Overlaps(hour) {
					continue
				}
				item := enricher.enrich(appointment)
				item.OffsetMinutes, item.SpanMinutes = placementWithin(appointment, hour)
				bucket.Appointments = append(bucket.Appointments, item)
			}

			dayBuckets.HourBuckets = append(dayBuckets.HourBuckets, bucket)
		}

		result.Days = append(result.Days, dayBuckets)
	}

	s.observeAssembly(viewWeek, false)
	s.logger.Debug("schedule.week.assemble.finished", out.LogFields{
		"doctorId":     doctorID,
		"label":        result.Label,
		"appointments": len(appointments),
	})

	return result
}

func (s *ScheduleService) AssembleMultiDoctorDay(ctx context.Context, doctorIDs []string, date time.Time) []domain.DaySchedule {
	schedules := make([]domain.DaySchedule, 0, len(doctorIDs))
	for _, doctorID := range doctorIDs {
		schedules = append(schedules, s.AssembleDay(ctx, doctorID, date))
	}
	return schedules
}

// CurrentTimeIndicator считает положение "сейчас" в том же окне, что и AssembleDay.
// Если врача загрузить не удалось, берется стандартное окно.
func (s *ScheduleService) CurrentTimeIndicator(ctx context.Context, doctorID string, now, day time.Time) domain.TimeIndicator {
	day = utils.StartCurrentDay(day)

	doctor, err := s.lookupDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Warn("schedule.indicator.doctor.fetch_failed", out.LogFields{
			"doctorId": doctorID,
			"error":    err.Error(),
		})
		return CurrentTimeIndicator(now, s.slotGenerator.Config().Window(day))
	}

	return CurrentTimeIndicator(now, s.dayWindow(doctor, day))
}

// dayWindow — окно сетки дня: стандартное или часы врача при UseDoctorHours
func (s *ScheduleService) dayWindow(doctor *domain.Doctor, day time.Time) domain.TimeSlot {
	window := s.slotGenerator.Config().Window(day)
	if s.useDoctorHours {
		if hours, ok := doctor.HoursOn(day); ok {
			window = hours
		}
	}
	return window
}

func (s *ScheduleService) failDay(result domain.DaySchedule, event, message string, err error) domain.DaySchedule {
	s.logger.Error(event, out.LogFields{
		"doctorId": result.DoctorID,
		"date":     result.Date.String(),
		"error":    err.Error(),
	})
	s.observeAssembly(viewDay, true)

	result.Slots = []domain.SlotAppointments{}
	result.Error = fmt.Sprintf("%s: %v", message, err)
	return result
}

func (s *ScheduleService) failWeek(result domain.WeekSchedule, event, message string, err error) domain.WeekSchedule {
	s.logger.Error(event, out.LogFields{
		"doctorId": result.DoctorID,
		"label":    result.Label,
		"error":    err.Error(),
	})
	s.observeAssembly(viewWeek, true)

	result.Days = []domain.DayBuckets{}
	result.Error = fmt.Sprintf("%s: %v", message, err)
	return result
}

func (s *ScheduleService) observeAssembly(view string, softFailed bool) {
	if s.metricsPort == nil {
		return
	}
	s.metricsPort.ObserveAssembly(view, softFailed)
}
