package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"transaction_api/internal/metrics"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes JSON events to a durable topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	appID    string

	// a channel must not be shared by concurrent publishers
	mu sync.Mutex
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange, appID string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange, appID: appID}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", msg.RoutingKey, err)
	}

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx, p.exchange, msg.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		AppId:        p.appID,
		Timestamp:    time.Now(),
		Body:         body,
	})
	p.mu.Unlock()

	metrics.EventsPublished.WithLabelValues(msg.RoutingKey, metrics.Outcome(err)).Inc()
	return err
}

// Healthy reports whether the connection is still open.
func (p *AMQPPublisher) Healthy() bool {
	return !p.conn.IsClosed()
}

func (p *AMQPPublisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
