package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/links"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

// QueueEntry is one delivery on the courier dashboard.
type QueueEntry struct {
	OrderView
	MapsURL  string `json:"maps_url"`
	PhoneURL string `json:"phone_url"`
}

type CourierView struct {
	Queue    []QueueEntry `json:"queue"`
	Selected *QueueEntry  `json:"selected"`
}

type dashboard struct {
	selected string
	lastSeen time.Time
}

// CourierService drives the delivery dashboards. Each dashboard (one per
// signed-in operator session) remembers which order it has open.
type CourierService struct {
	mu         sync.Mutex
	history    *History
	orders     *OrderService
	dashboards map[string]*dashboard
	now        func() time.Time
}

func NewCourierService(history *History, orders *OrderService) *CourierService {
	return &CourierService{
		history:    history,
		orders:     orders,
		dashboards: make(map[string]*dashboard),
		now:        time.Now,
	}
}

// Queue is every delivery order not yet delivered, oldest first.
func (s *CourierService) Queue() []model.Order {
	var queue []model.Order
	for _, o := range s.history.List() {
		if o.OrderType != enum.OrderTypeDelivery {
			continue
		}
		if o.Status == enum.OrderStatusDelivered || o.Status == enum.OrderStatusCompleted {
			continue
		}
		queue = append(queue, o)
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].Date.Before(queue[j].Date) })
	return queue
}

func (s *CourierService) View(dashboardID string) CourierView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render(s.dashboard(dashboardID), s.Queue())
}

// Select opens orderID on the dashboard.
func (s *CourierService) Select(dashboardID, orderID string) (CourierView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.Queue()
	if indexOfOrder(queue, orderID) < 0 {
		return CourierView{}, ErrNotInQueue
	}
	d := s.dashboard(dashboardID)
	d.selected = orderID
	return s.render(d, queue), nil
}

func (s *CourierService) StartDelivery(ctx context.Context, dashboardID, orderID string) (CourierView, error) {
	return s.act(ctx, dashboardID, orderID, enum.EventStartDelivery)
}

func (s *CourierService) ConfirmDelivery(ctx context.Context, dashboardID, orderID string) (CourierView, error) {
	return s.act(ctx, dashboardID, orderID, enum.EventConfirmDelivery)
}

// act applies event and, when the selected order drops out of the queue,
// moves the selection to the entry that followed it.
func (s *CourierService) act(ctx context.Context, dashboardID, orderID string, event enum.OrderEvent) (CourierView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.Queue()
	idx := indexOfOrder(prev, orderID)
	if idx < 0 {
		return CourierView{}, ErrNotInQueue
	}
	if _, err := s.orders.Apply(ctx, orderID, event, events.SourceCourier); err != nil {
		return CourierView{}, err
	}

	queue := s.Queue()
	d := s.dashboard(dashboardID)
	if d.selected == orderID && indexOfOrder(queue, orderID) < 0 {
		d.selected = ""
		if idx+1 < len(prev) {
			d.selected = prev[idx+1].ID
		}
	}
	return s.render(d, queue), nil
}

// SweepIdle forgets dashboards unused for longer than ttl.
func (s *CourierService) SweepIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	n := 0
	for id, d := range s.dashboards {
		if d.lastSeen.Before(cutoff) {
			delete(s.dashboards, id)
			n++
		}
	}
	return n
}

// dashboard must be called with s.mu held.
func (s *CourierService) dashboard(id string) *dashboard {
	d, ok := s.dashboards[id]
	if !ok {
		d = &dashboard{}
		s.dashboards[id] = d
	}
	d.lastSeen = s.now()
	return d
}

// render reconciles the selection with queue: a selection that left the
// queue (or none at all) falls back to the oldest entry, or nothing when
// the queue is empty.
func (s *CourierService) render(d *dashboard, queue []model.Order) CourierView {
	if indexOfOrder(queue, d.selected) < 0 {
		d.selected = ""
		if len(queue) > 0 {
			d.selected = queue[0].ID
		}
	}

	v := CourierView{Queue: make([]QueueEntry, 0, len(queue))}
	for i, o := range queue {
		v.Queue = append(v.Queue, QueueEntry{
			OrderView: NewOrderView(o),
			MapsURL:   links.MapsSearch(o.Address),
			PhoneURL:  links.Tel(o.Phone),
		})
		if o.ID == d.selected {
			v.Selected = &v.Queue[i]
		}
	}
	return v
}

func indexOfOrder(orders []model.Order, id string) int {
	if id == "" {
		return -1
	}
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
