// Package events publishes reservation events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher keeps one connection and channel and redials after a failure.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ ports.EventPublisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher dials the broker and declares the durable queue.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, fmt.Errorf("amqp url is empty")
	}
	p := &AMQPPublisher{url: url, queue: queue}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connectLocked() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// PublishReservationEvent sends evt as a persistent JSON message. The event type
// travels as the message type so consumers can route without decoding.
func (p *AMQPPublisher) PublishReservationEvent(ctx context.Context, evt domain.ReservationEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		p.resetLocked()
		if err := p.connectLocked(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(evt.Type),
		MessageId:    evt.ReservationID + ":" + string(evt.Type),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Reservation event published",
		slog.String("event", string(evt.Type)),
		slog.String("calendar_id", evt.ReservationID))
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = LogPublisher{}

func NewLogPublisher(logger *slog.Logger) LogPublisher {
	return LogPublisher{logger: logger}
}

func (p LogPublisher) PublishReservationEvent(ctx context.Context, evt domain.ReservationEvent) error {
	p.logger.InfoContext(ctx, "Reservation event",
		slog.String("event", string(evt.Type)),
		slog.String("calendar_id", evt.ReservationID),
		slog.String("field_id", evt.FieldID),
		slog.String("date", evt.Date.String()))
	return nil
}
