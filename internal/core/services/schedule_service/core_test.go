package schedule_service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

func TestNewScheduleService_InvalidOptions(t *testing.T) {
	repo := seedRepository()

	opts := DefaultOptions()
	opts.Slots.SlotMinutes = 0
	_, err := NewScheduleService(repo, repo, nil, nil, newRecordingLogger(), opts)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	opts = DefaultOptions()
	opts.WeekBucketMinutes = 0
	_, err = NewScheduleService(repo, repo, nil, nil, newRecordingLogger(), opts)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestAssembleDay_PlacesAppointmentInStartSlot(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 45, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(14, 0))

	assert.Empty(t, schedule.Error)
	assert.Equal(t, "D1", schedule.DoctorID)
	assert.Equal(t, "2024-01-15", schedule.Date.String())
	require.Len(t, schedule.Slots, 20)

	slot, ok := slotAt(schedule, monday(9, 0))
	require.True(t, ok)
	require.Len(t, slot.Appointments, 1)

	item := slot.Appointments[0]
	assert.Equal(t, "A1", item.Appointment.ID)
	assert.Equal(t, "John Smith", item.PatientName)
	assert.Equal(t, domain.AppointmentCategoryCheckup, item.Category)
	assert.Equal(t, 45, item.DurationMinutes)
	assert.Equal(t, 0, item.OffsetMinutes)
	assert.Equal(t, 45, item.SpanMinutes)

	// Прием продолжается в следующем слоте, но принадлежит только первому
	next, ok := slotAt(schedule, monday(9, 30))
	require.True(t, ok)
	assert.Empty(t, next.Appointments)

	total := 0
	for _, s := range schedule.Slots {
		total += len(s.Appointments)
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, svc.metrics.assemblies[viewDay])
	assert.Zero(t, svc.metrics.softFailures[viewDay])
}

func TestAssembleDay_OffsetWithinSlot(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P2", monday(10, 15), 30, domain.AppointmentTypeConsultation),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	slot, ok := slotAt(schedule, monday(10, 0))
	require.True(t, ok)
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, 15, slot.Appointments[0].OffsetMinutes)
	assert.Equal(t, 30, slot.Appointments[0].SpanMinutes)
}

func TestAssembleDay_DoubleBookingKeepsRepositoryOrder(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A2", "D1", "P2", monday(9, 0), 30, domain.AppointmentTypeFollowUp),
		appointmentAt("A1", "D1", "P1", monday(9, 10), 15, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	slot, ok := slotAt(schedule, monday(9, 0))
	require.True(t, ok)
	require.Len(t, slot.Appointments, 2)
	assert.Equal(t, "A2", slot.Appointments[0].Appointment.ID)
	assert.Equal(t, "A1", slot.Appointments[1].Appointment.ID)
}

func TestAssembleDay_IgnoresOtherDaysAndOutOfWindow(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 30, domain.AppointmentTypeCheckup),
		appointmentAt("A2", "D1", "P1", monday(9, 0).AddDate(0, 0, 1), 30, domain.AppointmentTypeCheckup),
		appointmentAt("A3", "D1", "P1", monday(7, 0), 30, domain.AppointmentTypeCheckup),
		appointmentAt("A4", "D1", "P1", monday(18, 0), 30, domain.AppointmentTypeCheckup),
		appointmentAt("A5", "D2", "P1", monday(9, 0), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	ids := make([]string, 0)
	for _, slot := range schedule.Slots {
		for _, item := range slot.Appointments {
			ids = append(ids, item.Appointment.ID)
		}
	}
	assert.Equal(t, []string{"A1"}, ids)
}

func TestAssembleDay_EmptyDayIsNotAnError(t *testing.T) {
	svc := newTestService(t, seedRepository(), DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D2", monday(0, 0))

	assert.Empty(t, schedule.Error)
	require.Len(t, schedule.Slots, 20)
	for _, slot := range schedule.Slots {
		assert.NotNil(t, slot.Appointments)
		assert.Empty(t, slot.Appointments)
	}
}

func TestAssembleDay_UnknownTypeFallsBackToDefault(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(11, 0), 30, "Xray"),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	slot, ok := slotAt(schedule, monday(11, 0))
	require.True(t, ok)
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, domain.AppointmentCategoryDefault, slot.Appointments[0].Category)
	assert.Contains(t, svc.logger.events(out.LogLevelWarn), "schedule.appointment_type.unknown")
	assert.Equal(t, 1, svc.metrics.unknownTypes)
}

func TestAssembleDay_UnknownPatient(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P404", monday(9, 0), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	slot, _ := slotAt(schedule, monday(9, 0))
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, domain.UnknownPatientName, slot.Appointments[0].PatientName)
}

func TestAssembleDay_PatientLookupFailureDegrades(t *testing.T) {
	repo := seedRepository()
	repo.patientErr = errors.New("patients table locked")
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

	assert.Empty(t, schedule.Error)
	slot, _ := slotAt(schedule, monday(9, 0))
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, domain.UnknownPatientName, slot.Appointments[0].PatientName)
	assert.Contains(t, svc.logger.events(out.LogLevelWarn), "patients.fetch_failed")
}

func TestAssembleDay_SoftFailures(t *testing.T) {
	t.Run("unknown doctor", func(t *testing.T) {
		svc := newTestService(t, seedRepository(), DefaultOptions())

		schedule := svc.AssembleDay(context.Background(), "D404", monday(0, 0))

		assert.True(t, strings.HasPrefix(schedule.Error, "Failed to load doctor"))
		assert.NotNil(t, schedule.Slots)
		assert.Empty(t, schedule.Slots)
		assert.Equal(t, "D404", schedule.DoctorID)
		assert.Contains(t, svc.logger.events(out.LogLevelError), "schedule.day.doctor.fetch_failed")
		assert.Equal(t, 1, svc.metrics.softFailures[viewDay])
	})

	t.Run("repository down", func(t *testing.T) {
		repo := seedRepository()
		svc := newTestService(t, repo, DefaultOptions())
		// Врач уже в кэше, падает только выборка приемов
		svc.cache.StoreDoctor(context.Background(), repo.doctors[0])
		repo.err = errors.New("connection refused")

		schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))

		assert.True(t, strings.HasPrefix(schedule.Error, "Failed to load appointments"))
		assert.Contains(t, schedule.Error, "connection refused")
		assert.Empty(t, schedule.Slots)
		assert.Contains(t, svc.logger.events(out.LogLevelError), "schedule.day.appointments.fetch_failed")
	})
}

func TestAssembleDay_Idempotent(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 45, domain.AppointmentTypeCheckup),
		appointmentAt("A2", "D1", "P2", monday(13, 30), 60, "Minor Surgery"),
	}
	svc := newTestService(t, repo, DefaultOptions())

	first, err := json.Marshal(svc.AssembleDay(context.Background(), "D1", monday(10, 0)))
	require.NoError(t, err)
	second, err := json.Marshal(svc.AssembleDay(context.Background(), "D1", monday(17, 0)))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestAssembleDay_UsesDirectoryCache(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	svc.AssembleDay(context.Background(), "D1", monday(0, 0))
	assert.Equal(t, 1, repo.patientLookups)
	assert.Contains(t, svc.cache.doctors, "D1")
	assert.Contains(t, svc.cache.patients, "P1")

	svc.AssembleDay(context.Background(), "D1", monday(0, 0))
	assert.Equal(t, 1, repo.patientLookups)
}

func TestAssembleDay_WorkingHours(t *testing.T) {
	repo := seedRepository()
	repo.doctors[0].WorkingHours = map[domain.DayOfWeek]domain.WorkingHours{
		domain.DayOfWeekMon: workingHours(t, "09:00", "12:00"),
	}

	t.Run("fixed window annotated", func(t *testing.T) {
		svc := newTestService(t, repo, DefaultOptions())

		schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))
		require.Len(t, schedule.Slots, 20)

		early, _ := slotAt(schedule, monday(8, 30))
		assert.False(t, early.WithinWorkingHours)
		first, _ := slotAt(schedule, monday(9, 0))
		assert.True(t, first.WithinWorkingHours)
		last, _ := slotAt(schedule, monday(11, 30))
		assert.True(t, last.WithinWorkingHours)
		after, _ := slotAt(schedule, monday(12, 0))
		assert.False(t, after.WithinWorkingHours)
	})

	t.Run("day off", func(t *testing.T) {
		svc := newTestService(t, repo, DefaultOptions())

		schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0).AddDate(0, 0, 1))
		require.Len(t, schedule.Slots, 20)
		for _, slot := range schedule.Slots {
			assert.False(t, slot.WithinWorkingHours)
		}
	})

	t.Run("doctor without hours", func(t *testing.T) {
		svc := newTestService(t, repo, DefaultOptions())

		schedule := svc.AssembleDay(context.Background(), "D2", monday(0, 0))
		for _, slot := range schedule.Slots {
			assert.True(t, slot.WithinWorkingHours)
		}
	})

	t.Run("doctor hours as window", func(t *testing.T) {
		opts := DefaultOptions()
		opts.UseDoctorHours = true
		svc := newTestService(t, repo, opts)

		schedule := svc.AssembleDay(context.Background(), "D1", monday(0, 0))
		require.Len(t, schedule.Slots, 6)
		assert.Equal(t, monday(9, 0), schedule.Slots[0].Slot.Start)
		assert.Equal(t, monday(12, 0), schedule.Slots[5].Slot.End)

		// В выходной остается стандартное окно
		dayOff := svc.AssembleDay(context.Background(), "D1", monday(0, 0).AddDate(0, 0, 1))
		assert.Len(t, dayOff.Slots, 20)
	})
}

func TestAssembleWeek_BucketsByOverlap(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 30), 60, domain.AppointmentTypeCheckup),
		appointmentAt("A2", "D1", "P2", monday(11, 0), 60, domain.AppointmentTypeConsultation),
		appointmentAt("A3", "D1", "P1", monday(14, 0).AddDate(0, 0, 3), 30, "Xray"),
		appointmentAt("A4", "D1", "P1", monday(9, 0).AddDate(0, 0, 7), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	week := svc.AssembleWeek(context.Background(), "D1", monday(0, 0).AddDate(0, 0, 2))

	assert.Empty(t, week.Error)
	assert.Equal(t, "Jan 15 - Jan 21, 2024", week.Label)
	assert.Equal(t, monday(0, 0), repo.rangeStart)
	assert.Equal(t, time.Date(2024, 1, 21, 23, 59, 59, 999000000, time.UTC), repo.rangeEnd)
	require.Len(t, week.Days, 7)
	for i, day := range week.Days {
		assert.Equal(t, monday(0, 0).AddDate(0, 0, i), day.Day.Date)
		assert.Len(t, day.HourBuckets, 10)
	}

	monBuckets := week.Days[0]

	nine, _ := bucketAt(monBuckets, 9)
	require.Len(t, nine.Appointments, 1)
	assert.Equal(t, "A1", nine.Appointments[0].Appointment.ID)
	assert.Equal(t, 30, nine.Appointments[0].OffsetMinutes)
	assert.Equal(t, 30, nine.Appointments[0].SpanMinutes)
	assert.Equal(t, 60, nine.Appointments[0].DurationMinutes)

	ten, _ := bucketAt(monBuckets, 10)
	require.Len(t, ten.Appointments, 1)
	assert.Equal(t, "A1", ten.Appointments[0].Appointment.ID)
	assert.Equal(t, 0, ten.Appointments[0].OffsetMinutes)
	assert.Equal(t, 30, ten.Appointments[0].SpanMinutes)

	// Конец ровно на границе ячейки не переносит прием в следующую
	eleven, _ := bucketAt(monBuckets, 11)
	require.Len(t, eleven.Appointments, 1)
	assert.Equal(t, "A2", eleven.Appointments[0].Appointment.ID)
	twelve, _ := bucketAt(monBuckets, 12)
	assert.Empty(t, twelve.Appointments)

	thu, _ := bucketAt(week.Days[3], 14)
	require.Len(t, thu.Appointments, 1)
	assert.Equal(t, domain.AppointmentCategoryDefault, thu.Appointments[0].Category)

	ids := make([]string, 0)
	for _, item := range week.Appointments() {
		ids = append(ids, item.Appointment.ID)
	}
	assert.Equal(t, []string{"A1", "A2", "A3"}, ids)
	assert.Equal(t, 1, svc.metrics.assemblies[viewWeek])
}

func TestAssembleWeek_EnrichesEachAppointmentOnce(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P404", monday(9, 0), 180, "Xray"),
	}
	svc := newTestService(t, repo, DefaultOptions())

	week := svc.AssembleWeek(context.Background(), "D1", monday(0, 0))

	occurrences := 0
	for _, bucket := range week.Days[0].HourBuckets {
		occurrences += len(bucket.Appointments)
	}
	assert.Equal(t, 3, occurrences)
	assert.Equal(t, 1, svc.metrics.unknownTypes)
	assert.Equal(t, 1, repo.patientLookups)
	assert.Len(t, svc.logger.events(out.LogLevelWarn), 1)
}

func TestAssembleWeek_SundayBelongsToCurrentWeek(t *testing.T) {
	svc := newTestService(t, seedRepository(), DefaultOptions())

	week := svc.AssembleWeek(context.Background(), "D1", time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, monday(0, 0), week.Range.Start)
}

func TestAssembleWeek_SoftFailure(t *testing.T) {
	repo := seedRepository()
	svc := newTestService(t, repo, DefaultOptions())
	repo.err = errors.New("connection refused")

	week := svc.AssembleWeek(context.Background(), "D1", monday(0, 0))

	assert.True(t, strings.HasPrefix(week.Error, "Failed to load doctor"))
	assert.NotNil(t, week.Days)
	assert.Empty(t, week.Days)
	assert.Equal(t, "Jan 15 - Jan 21, 2024", week.Label)
	assert.Equal(t, 1, svc.metrics.softFailures[viewWeek])
}

func TestAssembleMultiDoctorDay(t *testing.T) {
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", monday(9, 0), 30, domain.AppointmentTypeCheckup),
		appointmentAt("A2", "D2", "P2", monday(9, 0), 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())

	schedules := svc.AssembleMultiDoctorDay(context.Background(), []string{"D2", "D404", "D1"}, monday(0, 0))

	require.Len(t, schedules, 3)
	assert.Equal(t, "D2", schedules[0].DoctorID)
	assert.Empty(t, schedules[0].Error)
	assert.NotEmpty(t, schedules[1].Error)
	assert.Equal(t, "D1", schedules[2].DoctorID)

	slot, _ := slotAt(schedules[2], monday(9, 0))
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, "A1", slot.Appointments[0].Appointment.ID)
}

func TestScheduleService_CurrentTimeIndicator(t *testing.T) {
	svc := newTestService(t, seedRepository(), DefaultOptions())

	indicator := svc.CurrentTimeIndicator(context.Background(), "D1", monday(13, 0), monday(0, 0))
	assert.True(t, indicator.Visible)
	assert.InDelta(t, 50, indicator.Percent, 0.0001)

	// Неизвестный врач: стандартное окно
	indicator = svc.CurrentTimeIndicator(context.Background(), "D404", monday(13, 0), monday(0, 0))
	assert.True(t, indicator.Visible)
	assert.InDelta(t, 50, indicator.Percent, 0.0001)
}

func TestScheduleService_CurrentTimeIndicatorFollowsDoctorHours(t *testing.T) {
	repo := seedRepository()
	repo.doctors[0].WorkingHours = map[domain.DayOfWeek]domain.WorkingHours{
		domain.DayOfWeekMon: workingHours(t, "09:00", "12:00"),
	}
	opts := DefaultOptions()
	opts.UseDoctorHours = true
	svc := newTestService(t, repo, opts)

	// Окно 09:00–12:00, 10:30 — середина
	indicator := svc.CurrentTimeIndicator(context.Background(), "D1", monday(10, 30), monday(0, 0))
	assert.True(t, indicator.Visible)
	assert.InDelta(t, 50, indicator.Percent, 0.0001)

	// 13:00 вне окна врача, хотя внутри стандартного
	indicator = svc.CurrentTimeIndicator(context.Background(), "D1", monday(13, 0), monday(0, 0))
	assert.False(t, indicator.Visible)

	// Без UseDoctorHours окно стандартное
	plain := newTestService(t, repo, DefaultOptions())
	indicator = plain.CurrentTimeIndicator(context.Background(), "D1", monday(13, 0), monday(0, 0))
	assert.True(t, indicator.Visible)
	assert.InDelta(t, 50, indicator.Percent, 0.0001)
}

func TestAssembleDay_MatchesDayInRequestLocation(t *testing.T) {
	losAngeles, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	// 2024-01-16T01:00Z — 17:00 понедельника в Лос-Анджелесе
	start := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	repo := seedRepository()
	repo.appointments = []domain.Appointment{
		appointmentAt("A1", "D1", "P1", start, 30, domain.AppointmentTypeCheckup),
	}
	svc := newTestService(t, repo, DefaultOptions())
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, losAngeles)

	schedule := svc.AssembleDay(context.Background(), "D1", date)
	require.Empty(t, schedule.Error)
	slot, ok := slotAt(schedule, time.Date(2024, 1, 15, 17, 0, 0, 0, losAngeles))
	require.True(t, ok)
	require.Len(t, slot.Appointments, 1)
	assert.Equal(t, "A1", slot.Appointments[0].Appointment.ID)

	week := svc.AssembleWeek(context.Background(), "D1", date)
	require.Empty(t, week.Error)
	require.NotEmpty(t, week.Days)
	bucket, ok := bucketAt(week.Days[0], 17)
	require.True(t, ok)
	require.Len(t, bucket.Appointments, 1)
	assert.Equal(t, "A1", bucket.Appointments[0].Appointment.ID)
}
