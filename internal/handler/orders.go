package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/middleware"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Get(id string) (service.OrderView, error)
	List(phone string) []service.OrderView
	Apply(ctx context.Context, id string, event enum.OrderEvent, source string) (service.OrderView, error)
	Override(ctx context.Context, id string, status enum.OrderStatus) (service.OrderView, error)
}

// OrderHandler handles order history and status endpoints.
type OrderHandler struct {
	svc OrderServicer
	log logrus.FieldLogger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// RegisterRoutes registers the customer-facing order endpoints.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListByPhone)
	r.Get("/{id}", h.Get)
}

// RegisterAdminRoutes registers operator order endpoints.
// Expected to be mounted at /admin/orders.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.ListAll)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/events/{event}", h.ApplyEvent)
}

// --- Request types ---

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Handlers ---

// ListByPhone returns a customer's orders, newest first. The phone query
// parameter is required here; operators list everything via the admin route.
func (h *OrderHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}
	writeJSON(w, http.StatusOK, h.svc.List(phone))
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.List(""))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "get order", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// UpdateStatus writes any known status, bypassing the transition table.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	v, err := h.svc.Override(r.Context(), chi.URLParam(r, "id"), enum.OrderStatus(req.Status))
	if err != nil {
		writeError(w, h.log, "override order status", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// ApplyEvent moves an order forward through its lifecycle.
func (h *OrderHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	event := enum.OrderEvent(chi.URLParam(r, "event"))
	v, err := h.svc.Apply(r.Context(), chi.URLParam(r, "id"), event, events.SourceOperator)
	if err != nil {
		writeError(w, h.log, "apply order event", err)
		return
	}

	fields := logrus.Fields{"order_id": v.ID, "event": event}
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		fields["operator_session"] = claims.SessionID
	}
	h.log.WithFields(fields).Debug("order event applied")
	writeJSON(w, http.StatusOK, v)
}
