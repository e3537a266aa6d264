package rabbitmq

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// Для invalidate достаточно идентификатора
type AppointmentRefMessage struct {
	ID string `json:"id"`
}

func (l *DirectoryListener) processAppointmentMessage(ctx context.Context, key EventRoutingKey, body []byte) (bool, error) {
	switch key.Action {
	case EventActionStore:
		var appointment domain.Appointment
		if err := json.Unmarshal(body, &appointment); err != nil {
			return true, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}

		if err := l.useCase.ApplyAppointment(ctx, appointment); err != nil {
			return true, err
		}

		l.logger.Info("appointment.message.stored", out.LogFields{
			"appointmentId": appointment.ID,
		})
		return true, nil

	case EventActionInvalidate:
		var ref AppointmentRefMessage
		if err := json.Unmarshal(body, &ref); err != nil {
			return true, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if ref.ID == "" {
			return true, fmt.Errorf("%w: appointment id is empty", ErrMalformedMessage)
		}

		// Уже удаленный прием — не ошибка, повтор ничего не изменит
		if err := l.useCase.RemoveAppointment(ctx, ref.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return true, err
		}

		l.logger.Info("appointment.message.invalidated", out.LogFields{
			"appointmentId": ref.ID,
		})
		return true, nil
	}

	return false, nil
}
