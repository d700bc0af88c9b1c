package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gosimple/slug"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange = "orders_topic"
	statusExchange = "order_status_fanout"
)

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends created orders to a topic exchange keyed by order
// type and status changes to a fanout exchange.
type AMQPPublisher struct {
	mu sync.Mutex
	ch Channel
}

// NewAMQPPublisher declares both exchanges on ch.
func NewAMQPPublisher(ch Channel) (*AMQPPublisher, error) {
	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", ordersExchange, err)
	}
	if err := ch.ExchangeDeclare(statusExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", statusExchange, err)
	}
	return &AMQPPublisher{ch: ch}, nil
}

// DialAMQP connects and opens the channel used for publishing.
func DialAMQP(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return conn, ch, nil
}

// RoutingKey is "orders.<type>" for created orders, e.g. orders.entrega.
func RoutingKey(ev Event) string {
	return "orders." + slug.Make(string(ev.Order.OrderType))
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		MessageId:   ev.Order.ID,
		Type:        string(ev.Type),
		Timestamp:   time.Now(),
		Body:        body,
	}
	exchange, key := statusExchange, ""
	if ev.Type == OrderCreated {
		exchange, key = ordersExchange, RoutingKey(ev)
		msg.DeliveryMode = amqp.Persistent
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", ev.Type, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}
