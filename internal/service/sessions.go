package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaduPegasus/Frango-supremo/internal/cart"
	"github.com/KaduPegasus/Frango-supremo/internal/metrics"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

// session is one customer's storefront state: a cart, at most one order
// waiting on payment and at most one active order.
type session struct {
	id       string
	cart     *cart.Cart
	pending  *model.PendingOrder
	paying   bool
	active   *model.Order
	lastSeen time.Time
}

// Sessions holds every customer session in memory.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	now  func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*session), now: time.Now}
}

// Create starts an empty session and returns its id.
func (s *Sessions) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.byID[id] = &session{id: id, cart: &cart.Cart{}, lastSeen: s.now()}
	s.updateGauges()
	return id
}

// with runs fn on the session under the store lock, touching it first.
func (s *Sessions) with(id string, fn func(*session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	err := fn(sess)
	s.updateGauges()
	return err
}

// SyncActive copies o into every session whose active order has its id.
// It returns the number of sessions updated.
func (s *Sessions) SyncActive(o model.Order) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.byID {
		if sess.active != nil && sess.active.ID == o.ID {
			synced := o.Clone()
			sess.active = &synced
			n++
		}
	}
	return n
}

// SweepIdle drops sessions unseen for longer than ttl. Sessions with a
// payment attempt in flight are kept.
func (s *Sessions) SweepIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	n := 0
	for id, sess := range s.byID {
		if !sess.paying && sess.lastSeen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	s.updateGauges()
	return n
}

// SweepPending discards pending orders older than ttl that have no
// payment attempt in flight.
func (s *Sessions) SweepPending(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	n := 0
	for _, sess := range s.byID {
		if sess.pending != nil && !sess.paying && sess.pending.CreatedAt.Before(cutoff) {
			sess.pending = nil
			n++
		}
	}
	s.updateGauges()
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// updateGauges must be called with s.mu held.
func (s *Sessions) updateGauges() {
	pending := 0
	for _, sess := range s.byID {
		if sess.pending != nil {
			pending++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.byID)))
	metrics.PendingCheckouts.Set(float64(pending))
}
