package rabbitmq

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

func (l *DirectoryListener) processPatientMessage(ctx context.Context, key EventRoutingKey, body []byte) (bool, error) {
	switch key.Action {
	case EventActionStore:
		var patient domain.Patient
		if err := json.Unmarshal(body, &patient); err != nil {
			return true, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if err := l.useCase.ApplyPatient(ctx, patient); err != nil {
			return true, err
		}

		l.logger.Info("patient.message.stored", out.LogFields{
			"patientId": patient.ID,
		})
		return true, nil

	case EventActionInvalidate:
		// Точечной инвалидации справочника нет: сбрасываем кэш целиком
		l.useCase.InvalidateDirectory(ctx)
		return true, nil
	}

	return false, nil
}

func (l *DirectoryListener) processDoctorMessage(ctx context.Context, key EventRoutingKey, body []byte) (bool, error) {
	switch key.Action {
	case EventActionStore:
		var doctor domain.Doctor
		if err := json.Unmarshal(body, &doctor); err != nil {
			return true, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if err := l.useCase.ApplyDoctor(ctx, doctor); err != nil {
			return true, err
		}

		l.logger.Info("doctor.message.stored", out.LogFields{
			"doctorId": doctor.ID,
		})
		return true, nil

	case EventActionInvalidate:
		l.useCase.InvalidateDirectory(ctx)
		return true, nil
	}

	return false, nil
}
