package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/service"
	"github.com/KaduPegasus/Frango-supremo/internal/ws"
)

// OrderGetter is satisfied by *service.OrderService.
type OrderGetter interface {
	Get(id string) (service.OrderView, error)
}

// WSHandler upgrades live status subscriptions.
type WSHandler struct {
	hub    *ws.Hub
	orders OrderGetter
	log    logrus.FieldLogger
}

func NewWSHandler(hub *ws.Hub, orders OrderGetter, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{hub: hub, orders: orders, log: log}
}

// RegisterRoutes registers the public order feed.
func (h *WSHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/orders/{id}", h.Order)
}

// RegisterCourierRoutes registers the courier feed. Expected behind
// AuthenticateUpgrade, which accepts the token query parameter.
func (h *WSHandler) RegisterCourierRoutes(r chi.Router) {
	r.Get("/ws/courier", h.Courier)
}

// Order streams status changes of one order, starting with nothing; the
// client fetches the current state over REST.
func (h *WSHandler) Order(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.orders.Get(id); err != nil {
		writeError(w, h.log, "subscribe order", err)
		return
	}
	ws.Serve(h.hub, ws.OrderTopic(id), h.log, w, r)
}

func (h *WSHandler) Courier(w http.ResponseWriter, r *http.Request) {
	ws.Serve(h.hub, ws.TopicCourier, h.log, w, r)
}
