package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/lifecycle"
	"github.com/KaduPegasus/Frango-supremo/internal/metrics"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

// OrderService owns every write to an order after checkout. Each change
// lands in history first, then in the sessions holding the order as
// active, then goes out to subscribers.
type OrderService struct {
	history   *History
	sessions  *Sessions
	publisher events.Publisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewOrderService(history *History, sessions *Sessions, publisher events.Publisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{history: history, sessions: sessions, publisher: publisher, log: log, now: time.Now}
}

func (s *OrderService) Get(id string) (OrderView, error) {
	o, err := s.history.Get(id)
	if err != nil {
		return OrderView{}, err
	}
	return NewOrderView(o), nil
}

// List returns orders newest first, optionally only those placed with
// phone.
func (s *OrderService) List(phone string) []OrderView {
	var orders []model.Order
	if phone != "" {
		orders = s.history.ListByPhone(phone)
	} else {
		orders = s.history.List()
	}
	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = NewOrderView(o)
	}
	return views
}

// Apply moves an order forward with an operator event, rejecting any
// event the order's type does not allow from its current status.
func (s *OrderService) Apply(ctx context.Context, id string, event enum.OrderEvent, source string) (OrderView, error) {
	if !event.Valid() {
		return OrderView{}, fmt.Errorf("%w: %q", ErrInvalidEvent, event)
	}
	before, after, err := s.history.Update(ctx, id, func(o *model.Order) error {
		next, err := lifecycle.Next(o.OrderType, o.Status, event)
		if err != nil {
			return err
		}
		o.Status = next
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}
	s.changed(ctx, before, after, source)
	return NewOrderView(after), nil
}

// Override writes any known status, bypassing the transition table.
func (s *OrderService) Override(ctx context.Context, id string, status enum.OrderStatus) (OrderView, error) {
	if !status.Valid() {
		return OrderView{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	before, after, err := s.history.Update(ctx, id, func(o *model.Order) error {
		o.Status = status
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}
	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"from":     before.Status,
		"to":       after.Status,
	}).Warn("order status overridden")
	s.changed(ctx, before, after, events.SourceOverride)
	return NewOrderView(after), nil
}

// record appends a freshly materialized order and announces it.
func (s *OrderService) record(ctx context.Context, o model.Order) {
	s.history.Append(ctx, o)
	metrics.OrdersCreated.WithLabelValues(string(o.OrderType), string(o.PaymentMethod)).Inc()
	metrics.OrderAmount.Observe(o.Total.InexactFloat64())
	s.log.WithFields(logrus.Fields{
		"order_id":       o.ID,
		"order_type":     o.OrderType,
		"payment_method": o.PaymentMethod,
		"total":          o.Total.StringFixed(2),
	}).Info("order created")
	s.publish(ctx, events.Event{Type: events.OrderCreated, Order: o, Source: events.SourceCheckout, At: s.now()})
}

func (s *OrderService) changed(ctx context.Context, before, after model.Order, source string) {
	synced := s.sessions.SyncActive(after)
	metrics.OrderStatusChanges.WithLabelValues(string(after.Status), source).Inc()
	s.log.WithFields(logrus.Fields{
		"order_id": after.ID,
		"from":     before.Status,
		"to":       after.Status,
		"source":   source,
		"sessions": synced,
	}).Info("order status changed")
	s.publish(ctx, events.Event{
		Type:           events.OrderStatusChanged,
		Order:          after,
		PreviousStatus: before.Status,
		Source:         source,
		At:             s.now(),
	})
}

// publish never fails the caller; subscribers are best effort.
func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithField("order_id", ev.Order.ID).Error("publish order event")
	}
}
