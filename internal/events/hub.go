package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/ws"
)

// Broadcaster is satisfied by *ws.Hub.
type Broadcaster interface {
	Publish(topic string, event ws.Event)
}

// HubPublisher pushes every event to the order's own room and delivery
// events to the courier room.
type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	msg := ws.Event{Type: string(ev.Type), Payload: payload}

	p.hub.Publish(ws.OrderTopic(ev.Order.ID), msg)
	if ev.Order.OrderType == enum.OrderTypeDelivery {
		p.hub.Publish(ws.TopicCourier, msg)
	}
	return nil
}
