package schedule_service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/json_types"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

// ---------- Repository ----------

type fakeRepository struct {
	doctors      []domain.Doctor
	patients     []domain.Patient
	appointments []domain.Appointment

	err        error
	patientErr error

	rangeStart, rangeEnd time.Time
	patientLookups       int
}

func (r *fakeRepository) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.doctors, nil
}

func (r *fakeRepository) GetDoctorByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, doctor := range r.doctors {
		if doctor.ID == doctorID {
			d := doctor
			return &d, nil
		}
	}
	return nil, fmt.Errorf("doctor %s: %w", doctorID, domain.ErrNotFound)
}

func (r *fakeRepository) GetPatientByID(ctx context.Context, patientID string) (*domain.Patient, bool, error) {
	r.patientLookups++
	if r.patientErr != nil {
		return nil, false, r.patientErr
	}
	for _, patient := range r.patients {
		if patient.ID == patientID {
			p := patient
			return &p, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeRepository) GetAppointmentByID(ctx context.Context, appointmentID string) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, appointment := range r.appointments {
		if appointment.ID == appointmentID {
			a := appointment
			return &a, nil
		}
	}
	return nil, fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
}

// Намеренно возвращает все приемы врача без фильтра по дню,
// чтобы проверить, что сервис сам сверяет календарный день.
func (r *fakeRepository) GetAppointmentsByDoctorAndDate(ctx context.Context, doctorID string, date time.Time) ([]domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]domain.Appointment, 0)
	for _, appointment := range r.appointments {
		if appointment.DoctorID == doctorID {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (r *fakeRepository) GetAppointmentsByDoctorAndDateRange(ctx context.Context, doctorID string, startDate, endDate time.Time) ([]domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rangeStart, r.rangeEnd = startDate, endDate
	result := make([]domain.Appointment, 0)
	for _, appointment := range r.appointments {
		if appointment.DoctorID != doctorID {
			continue
		}
		if appointment.StartTime.Before(startDate) || appointment.StartTime.After(endDate) {
			continue
		}
		result = append(result, appointment)
	}
	return result, nil
}

func (r *fakeRepository) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.appointments, nil
}

func (r *fakeRepository) UpsertAppointment(ctx context.Context, appointment domain.Appointment) error {
	r.appointments = append(r.appointments, appointment)
	return nil
}

func (r *fakeRepository) RemoveAppointment(ctx context.Context, appointmentID string) error {
	for i, appointment := range r.appointments {
		if appointment.ID == appointmentID {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("appointment %s: %w", appointmentID, domain.ErrNotFound)
}

func (r *fakeRepository) UpsertPatient(ctx context.Context, patient domain.Patient) error {
	r.patients = append(r.patients, patient)
	return nil
}

func (r *fakeRepository) UpsertDoctor(ctx context.Context, doctor domain.Doctor) error {
	r.doctors = append(r.doctors, doctor)
	return nil
}

// ---------- Cache ----------

type fakeCache struct {
	patients    map[string]domain.Patient
	doctors     map[string]domain.Doctor
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		patients: make(map[string]domain.Patient),
		doctors:  make(map[string]domain.Doctor),
	}
}

func (c *fakeCache) GetPatient(ctx context.Context, patientID string) (*domain.Patient, bool) {
	p, ok := c.patients[patientID]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *fakeCache) StorePatient(ctx context.Context, patient domain.Patient) {
	c.patients[patient.ID] = patient
}

func (c *fakeCache) InvalidatePatient(ctx context.Context, patientID string) {
	delete(c.patients, patientID)
	c.invalidated = append(c.invalidated, "patient:"+patientID)
}

func (c *fakeCache) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, bool) {
	d, ok := c.doctors[doctorID]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (c *fakeCache) StoreDoctor(ctx context.Context, doctor domain.Doctor) {
	c.doctors[doctor.ID] = doctor
}

func (c *fakeCache) InvalidateDoctor(ctx context.Context, doctorID string) {
	delete(c.doctors, doctorID)
	c.invalidated = append(c.invalidated, "doctor:"+doctorID)
}

func (c *fakeCache) InvalidateAll(ctx context.Context) {
	c.patients = make(map[string]domain.Patient)
	c.doctors = make(map[string]domain.Doctor)
	c.invalidated = append(c.invalidated, "all")
}

// ---------- Metrics ----------

type fakeMetrics struct {
	assemblies   map[string]int
	softFailures map[string]int
	unknownTypes int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		assemblies:   make(map[string]int),
		softFailures: make(map[string]int),
	}
}

func (m *fakeMetrics) ObserveAssembly(view string, softFailed bool) {
	m.assemblies[view]++
	if softFailed {
		m.softFailures[view]++
	}
}

func (m *fakeMetrics) ObserveUnknownAppointmentType() {
	m.unknownTypes++
}

// ---------- Logger ----------

type logEntry struct {
	level  out.LogLevel
	event  string
	fields out.LogFields
}

type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level out.LogLevel, event string, fields out.LogFields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, event: event, fields: fields})
}

func (l *recordingLogger) Debug(event string, fields out.LogFields) { l.record(out.LogLevelDebug, event, fields) }
func (l *recordingLogger) Info(event string, fields out.LogFields)  { l.record(out.LogLevelInfo, event, fields) }
func (l *recordingLogger) Warn(event string, fields out.LogFields)  { l.record(out.LogLevelWarn, event, fields) }
func (l *recordingLogger) Error(event string, fields out.LogFields) { l.record(out.LogLevelError, event, fields) }
func (l *recordingLogger) WithFields(out.LogFields) out.LoggerPort  { return l }
func (l *recordingLogger) WithModule(string) out.LoggerPort         { return l }

func (l *recordingLogger) events(level out.LogLevel) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := make([]string, 0)
	for _, entry := range *l.entries {
		if entry.level == level {
			events = append(events, entry.event)
		}
	}
	return events
}

// ---------- Fixtures ----------

// 2024-01-15 — понедельник
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.UTC)
}

func appointmentAt(id, doctorID, patientID string, start time.Time, minutes int, appointmentType domain.AppointmentType) domain.Appointment {
	return domain.Appointment{
		ID:        id,
		DoctorID:  doctorID,
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Type:      appointmentType,
		Status:    domain.AppointmentStatusScheduled,
	}
}

func seedRepository() *fakeRepository {
	return &fakeRepository{
		doctors: []domain.Doctor{
			{ID: "D1", Name: "Sarah Johnson", Specialty: "Cardiology"},
			{ID: "D2", Name: "Michael Chen", Specialty: "Pediatrics"},
		},
		patients: []domain.Patient{
			{ID: "P1", Name: "John Smith", DateOfBirth: json_types.NewDate(time.Date(1980, 5, 15, 0, 0, 0, 0, time.UTC))},
			{ID: "P2", Name: "Emily Davis"},
		},
	}
}

type testService struct {
	*ScheduleService
	repo    *fakeRepository
	cache   *fakeCache
	metrics *fakeMetrics
	logger  *recordingLogger
}

func newTestService(t *testing.T, repo *fakeRepository, opts Options) testService {
	t.Helper()
	cache := newFakeCache()
	metrics := newFakeMetrics()
	logger := newRecordingLogger()

	service, err := NewScheduleService(repo, repo, cache, metrics, logger, opts)
	require.NoError(t, err)

	return testService{ScheduleService: service, repo: repo, cache: cache, metrics: metrics, logger: logger}
}

func workingHours(t *testing.T, start, end string) domain.WorkingHours {
	t.Helper()
	s, err := json_types.ParseTime(start)
	require.NoError(t, err)
	e, err := json_types.ParseTime(end)
	require.NoError(t, err)
	return domain.WorkingHours{Start: s, End: e}
}

func slotAt(schedule domain.DaySchedule, start time.Time) (domain.SlotAppointments, bool) {
	for _, slot := range schedule.Slots {
		if slot.Slot.Start.Equal(start) {
			return slot, true
		}
	}
	return domain.SlotAppointments{}, false
}

func bucketAt(day domain.DayBuckets, hour int) (domain.SlotAppointments, bool) {
	for _, bucket := range day.HourBuckets {
		if bucket.Slot.Start.Equal(utils.AtHour(day.Day.Date, hour, 0)) {
			return bucket, true
		}
	}
	return domain.SlotAppointments{}, false
}
