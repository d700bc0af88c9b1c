package service

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

// DocumentStore is the persistence the stores need.
// Satisfied by *storage.Documents; narrow interface for testability.
type DocumentStore interface {
	Load(ctx context.Context, name string, dst any) bool
	Save(ctx context.Context, name string, v any)
}

// History is the append-only order log, newest first. Orders are never
// removed; only their status changes.
type History struct {
	mu     sync.RWMutex
	docs   DocumentStore
	orders []model.Order
}

func NewHistory(ctx context.Context, docs DocumentStore) *History {
	var orders []model.Order
	if !docs.Load(ctx, storage.DocOrderHistory, &orders) {
		orders = nil
	}
	return &History{docs: docs, orders: orders}
}

// Append records o as the newest order.
func (h *History) Append(ctx context.Context, o model.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append([]model.Order{o.Clone()}, h.orders...)
	h.save(ctx)
}

func (h *History) Get(id string) (model.Order, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i := h.index(id); i >= 0 {
		return h.orders[i].Clone(), nil
	}
	return model.Order{}, ErrOrderNotFound
}

// List returns every order, newest first.
func (h *History) List() []model.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.Order, len(h.orders))
	for i, o := range h.orders {
		out[i] = o.Clone()
	}
	return out
}

// ListByPhone matches on the digits of the phone number only.
func (h *History) ListByPhone(phone string) []model.Order {
	want := phoneDigits(phone)
	out := []model.Order{}
	if want == "" {
		return out
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.orders {
		if phoneDigits(o.Phone) == want {
			out = append(out, o.Clone())
		}
	}
	return out
}

// Update applies fn to the stored order under the history lock and
// persists the result. fn returning an error leaves the order untouched.
func (h *History) Update(ctx context.Context, id string, fn func(o *model.Order) error) (before, after model.Order, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := h.index(id)
	if i < 0 {
		return model.Order{}, model.Order{}, ErrOrderNotFound
	}
	before = h.orders[i].Clone()
	next := h.orders[i].Clone()
	if err := fn(&next); err != nil {
		return model.Order{}, model.Order{}, err
	}
	h.orders[i] = next
	h.save(ctx)
	return before, next.Clone(), nil
}

func (h *History) index(id string) int {
	for i, o := range h.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// save writes the full history. Caller must hold h.mu.
func (h *History) save(ctx context.Context) {
	orders := h.orders
	if orders == nil {
		orders = []model.Order{}
	}
	h.docs.Save(ctx, storage.DocOrderHistory, orders)
}

func phoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
