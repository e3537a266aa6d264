package rabbitmq

import (
	"context"

	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

func (l *DirectoryListener) processAllMessage(ctx context.Context, key EventRoutingKey) (bool, error) {
	if key.Action != EventActionInvalidate {
		return false, nil
	}

	// Поменялось что-то глобальное: сбрасываем кэш справочников целиком
	l.useCase.InvalidateDirectory(ctx)

	l.logger.Info("_all_.message.invalidated", out.LogFields{
		"directory_cache": true,
	})
	return true, nil
}
