// Package events fans order changes out to live subscribers and, when
// configured, to a message broker.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
)

// Sources of a status change.
const (
	SourceCheckout = "checkout"
	SourceCourier  = "courier"
	SourceOperator = "operator"
	SourceOverride = "override"
)

type Event struct {
	Type           Type             `json:"type"`
	Order          model.Order      `json:"order"`
	PreviousStatus enum.OrderStatus `json:"previous_status,omitempty"`
	Source         string           `json:"source"`
	At             time.Time        `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Multi publishes to every publisher, joining their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
