package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/ws"
)

type published struct {
	topic string
	event ws.Event
}

type fakeHub struct{ got []published }

func (f *fakeHub) Publish(topic string, event ws.Event) {
	f.got = append(f.got, published{topic, event})
}

func TestHubPublisher_DeliveryReachesCourier(t *testing.T) {
	hub := &fakeHub{}
	p := NewHubPublisher(hub)
	ev := Event{Type: OrderStatusChanged, Order: model.Order{ID: "o1", OrderType: enum.OrderTypeDelivery, Status: enum.OrderStatusOutForDelivery}}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(hub.got) != 2 {
		t.Fatalf("published: got %d, want 2", len(hub.got))
	}
	if hub.got[0].topic != "order:o1" || hub.got[1].topic != ws.TopicCourier {
		t.Errorf("topics: %s, %s", hub.got[0].topic, hub.got[1].topic)
	}

	var decoded Event
	if err := json.Unmarshal(hub.got[0].event.Payload, &decoded); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if decoded.Order.Status != enum.OrderStatusOutForDelivery {
		t.Errorf("status: got %q", decoded.Order.Status)
	}
}

func TestHubPublisher_PickupSkipsCourier(t *testing.T) {
	hub := &fakeHub{}
	NewHubPublisher(hub).Publish(context.Background(), Event{Type: OrderCreated, Order: model.Order{ID: "o2", OrderType: enum.OrderTypePickup}})
	if len(hub.got) != 1 || hub.got[0].topic != "order:o2" {
		t.Errorf("published: %+v", hub.got)
	}
}

type fakeChannel struct {
	declared  []string
	exchanges []string
	keys      []string
	msgs      []amqp.Publishing
	err       error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchanges = append(f.exchanges, exchange)
	f.keys = append(f.keys, key)
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if len(ch.declared) != 2 || ch.declared[0] != "orders_topic:topic" || ch.declared[1] != "order_status_fanout:fanout" {
		t.Errorf("declared: %v", ch.declared)
	}

	order := model.Order{ID: "o3", OrderType: enum.OrderTypeDelivery}
	if err := p.Publish(context.Background(), Event{Type: OrderCreated, Order: order}); err != nil {
		t.Fatalf("publish created: %v", err)
	}
	if err := p.Publish(context.Background(), Event{Type: OrderStatusChanged, Order: order}); err != nil {
		t.Fatalf("publish status: %v", err)
	}

	if ch.exchanges[0] != "orders_topic" || ch.keys[0] != "orders.entrega" {
		t.Errorf("created routed to %s/%s", ch.exchanges[0], ch.keys[0])
	}
	if ch.msgs[0].DeliveryMode != amqp.Persistent {
		t.Error("created orders should be persistent")
	}
	if ch.exchanges[1] != "order_status_fanout" || ch.keys[1] != "" {
		t.Errorf("status routed to %s/%q", ch.exchanges[1], ch.keys[1])
	}
	if ch.msgs[1].Type != string(OrderStatusChanged) || ch.msgs[1].MessageId != "o3" {
		t.Errorf("status message: %+v", ch.msgs[1])
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, Event) error { return f.err }

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("broker down")
	hub := &fakeHub{}
	m := Multi{failingPublisher{boom}, NewHubPublisher(hub)}

	err := m.Publish(context.Background(), Event{Type: OrderCreated, Order: model.Order{ID: "o4"}})
	if !errors.Is(err, boom) {
		t.Errorf("err: got %v, want broker error", err)
	}
	if len(hub.got) != 1 {
		t.Error("later publishers should still run")
	}
}
