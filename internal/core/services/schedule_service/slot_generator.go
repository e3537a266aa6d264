package schedule_service

import (
	"fmt"
	"time"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/utils"
)

type SlotGeneratorConfig struct {
	DayStartHour int
	DayEndHour   int
	SlotMinutes  int
}

func DefaultSlotGeneratorConfig() SlotGeneratorConfig {
	return SlotGeneratorConfig{
		DayStartHour: 8,
		DayEndHour:   18,
		SlotMinutes:  30,
	}
}

func (c SlotGeneratorConfig) Validate() error {
	if c.DayStartHour < 0 || c.DayEndHour > 24 {
		return fmt.Errorf("%w: working hours %d-%d are outside of a day", domain.ErrConfiguration, c.DayStartHour, c.DayEndHour)
	}
	if c.DayEndHour <= c.DayStartHour {
		return fmt.Errorf("%w: day end hour %d is not after start hour %d", domain.ErrConfiguration, c.DayEndHour, c.DayStartHour)
	}
	if c.SlotMinutes <= 0 {
		return fmt.Errorf("%w: slot minutes must be positive, got %d", domain.ErrConfiguration, c.SlotMinutes)
	}
	return nil
}

func (c SlotGeneratorConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

// Window возвращает рабочее окно [DayStartHour:00, DayEndHour:00) в календарный день date
func (c SlotGeneratorConfig) Window(date time.Time) domain.TimeSlot {
	return domain.TimeSlot{
		Start: utils.AtHour(date, c.DayStartHour, 0),
		End:   utils.AtHour(date, c.DayEndHour, 0),
	}
}

type SlotGenerator struct {
	cfg SlotGeneratorConfig
}

func NewSlotGenerator(cfg SlotGeneratorConfig) (*SlotGenerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SlotGenerator{cfg: cfg}, nil
}

func (g *SlotGenerator) Config() SlotGeneratorConfig {
	return g.cfg
}

// Generate нарезает рабочее окно дня на слоты. Время суток в date игнорируется.
func (g *SlotGenerator) Generate(date time.Time) []domain.TimeSlot {
	return g.GenerateWithin(g.cfg.Window(date))
}

// GenerateWithin нарезает произвольное окно на слоты подряд, без пропусков.
// Неполный хвост окна слотом не становится.
func (g *SlotGenerator) GenerateWithin(window domain.TimeSlot) []domain.TimeSlot {
	slotDuration := g.cfg.SlotDuration()
	slots := make([]domain.TimeSlot, 0)

	for slotStart := window.Start; !slotStart.Add(slotDuration).After(window.End); slotStart = slotStart.Add(slotDuration) {
		slots = append(slots, domain.TimeSlot{
			Start: slotStart,
			End:   slotStart.Add(slotDuration),
		})
	}

	return slots
}
