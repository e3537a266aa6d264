package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/domain"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/in"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

// ErrMalformedMessage — сообщение нельзя обработать ни сейчас, ни после повтора
var ErrMalformedMessage = errors.New("malformed message")

// EventObserver — метрики обработанных событий, может быть nil
type EventObserver interface {
	ObserveDirectoryEvent(resource, action, outcome string)
}

type DirectoryListener struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	useCase  in.DirectorySyncUseCase
	cfg      *config.Config
	logger   out.LoggerPort
	observer EventObserver
}

type (
	EventAction       string
	EventResourceType string
)

type EventRoutingKey struct {
	Source       string
	Receiver     string
	ResourceType EventResourceType
	Action       EventAction
}

const (
	EventResourceTypeAll         EventResourceType = "_all_"
	EventResourceTypeAppointment EventResourceType = "appointment"
	EventResourceTypePatient     EventResourceType = "patient"
	EventResourceTypeDoctor      EventResourceType = "doctor"
)

const (
	EventActionStore      EventAction = "store"
	EventActionInvalidate EventAction = "invalidate"
)

const (
	outcomeAck     = "ack"
	outcomeIgnored = "ignored"
	outcomeRequeue = "requeue"
	outcomeDropped = "dropped"
)

// NewDirectoryListener возвращает nil, если RabbitMQ выключен в конфиге
func NewDirectoryListener(useCase in.DirectorySyncUseCase, cfg *config.Config, logger out.LoggerPort, observer EventObserver) (*DirectoryListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	listener := newDirectoryListener(useCase, cfg, logger, observer)
	listener.conn = conn
	listener.channel = channel
	return listener, nil
}

func newDirectoryListener(useCase in.DirectorySyncUseCase, cfg *config.Config, logger out.LoggerPort, observer EventObserver) *DirectoryListener {
	return &DirectoryListener{
		useCase:  useCase,
		cfg:      cfg,
		logger:   logger.WithModule("DirectoryListener"),
		observer: observer,
	}
}

func (l *DirectoryListener) Start(ctx context.Context) error {
	err := l.channel.ExchangeDeclare(
		l.cfg.RabbitMQ.Exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq.exchange.declare_failed: %w", err)
	}

	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("rabbitmq.queue.declare_failed: %w", err)
	}

	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMQ.Bind,
		l.cfg.RabbitMQ.Exchange,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("rabbitmq.queue.bind_failed: %w", err)
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("rabbitmq.consume_failed: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					l.logger.Warn("rabbitmq.deliveries.closed", out.LogFields{})
					return
				}
				l.handleDelivery(ctx, msg)
			}
		}
	}()

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue":    queue.Name,
		"exchange": l.cfg.RabbitMQ.Exchange,
		"bind":     l.cfg.RabbitMQ.Bind,
	})

	return nil
}

func (l *DirectoryListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

// handleDelivery обрабатывает сообщение и подтверждает его.
// Битые сообщения отбрасываются, сбои хранилища возвращаются в очередь.
func (l *DirectoryListener) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	correlationID := msg.CorrelationId
	if correlationID == "" {
		correlationID = msg.MessageId
	}
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	logger := l.logger.WithFields(out.LogFields{
		"correlationId": correlationID,
		"routingKey":    msg.RoutingKey,
	})

	key, err := parseEventRoutingKey(msg.RoutingKey)
	if err == nil {
		var handled bool
		handled, err = l.processMessage(ctx, key, msg.Body)
		if err == nil && !handled {
			logger.Debug("rabbitmq.message.ignored", out.LogFields{})
			l.observe(key, outcomeIgnored)
			msg.Ack(false)
			return
		}
	}

	switch {
	case err == nil:
		l.observe(key, outcomeAck)
		msg.Ack(false)
	case errors.Is(err, ErrMalformedMessage),
		errors.Is(err, domain.ErrInvalidAppointment),
		errors.Is(err, domain.ErrInvalidResource):
		logger.Error("rabbitmq.message.dropped", out.LogFields{
			"error": err.Error(),
		})
		l.observe(key, outcomeDropped)
		msg.Nack(false, false)
	default:
		logger.Error("rabbitmq.message.failed", out.LogFields{
			"error": err.Error(),
		})
		l.observe(key, outcomeRequeue)
		msg.Nack(false, true)
	}
}

// processMessage возвращает false, если ресурс или действие этому сервису не интересны
func (l *DirectoryListener) processMessage(ctx context.Context, key EventRoutingKey, body []byte) (bool, error) {
	switch key.ResourceType {
	case EventResourceTypeAppointment:
		return l.processAppointmentMessage(ctx, key, body)
	case EventResourceTypePatient:
		return l.processPatientMessage(ctx, key, body)
	case EventResourceTypeDoctor:
		return l.processDoctorMessage(ctx, key, body)
	case EventResourceTypeAll:
		return l.processAllMessage(ctx, key)
	}
	return false, nil
}

func (l *DirectoryListener) observe(key EventRoutingKey, outcome string) {
	if l.observer == nil {
		return
	}
	resource, action := string(key.ResourceType), string(key.Action)
	if resource == "" {
		resource, action = "unknown", "unknown"
	}
	l.observer.ObserveDirectoryEvent(resource, action, outcome)
}

// Пример routingKey:
// his.schedule-viewer.appointment.store
// his.schedule-viewer.patient.invalidate
// his.schedule-viewer._all_.invalidate
// Действие всегда последний сегмент, промежуточные сегменты допускаются.
func parseEventRoutingKey(routingKey string) (EventRoutingKey, error) {
	parts := strings.Split(routingKey, ".")

	if len(parts) < 4 {
		return EventRoutingKey{}, fmt.Errorf("%w: invalid routing key: %s", ErrMalformedMessage, routingKey)
	}

	return EventRoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: EventResourceType(parts[2]),
		Action:       EventAction(parts[len(parts)-1]),
	}, nil
}
