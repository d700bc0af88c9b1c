package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/middleware"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

// CourierServicer defines the delivery dashboard operations.
// Satisfied by *service.CourierService; narrow interface for testability.
type CourierServicer interface {
	View(dashboardID string) service.CourierView
	Select(dashboardID, orderID string) (service.CourierView, error)
	StartDelivery(ctx context.Context, dashboardID, orderID string) (service.CourierView, error)
	ConfirmDelivery(ctx context.Context, dashboardID, orderID string) (service.CourierView, error)
}

// CourierHandler serves the delivery dashboard. Each operator session
// (the token's session id) has its own selection.
type CourierHandler struct {
	svc CourierServicer
	log logrus.FieldLogger
}

func NewCourierHandler(svc CourierServicer, log logrus.FieldLogger) *CourierHandler {
	return &CourierHandler{svc: svc, log: log}
}

// RegisterRoutes is expected to be mounted at /courier behind
// Authenticate and RequireRole.
func (h *CourierHandler) RegisterRoutes(r chi.Router) {
	r.Get("/queue", h.Queue)
	r.Put("/selection/{id}", h.Select)
	r.Post("/orders/{id}/start-delivery", h.StartDelivery)
	r.Post("/orders/{id}/confirm-delivery", h.ConfirmDelivery)
}

func (h *CourierHandler) Queue(w http.ResponseWriter, r *http.Request) {
	dash, ok := dashboardID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.View(dash))
}

func (h *CourierHandler) Select(w http.ResponseWriter, r *http.Request) {
	dash, ok := dashboardID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Select(dash, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "select delivery", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CourierHandler) StartDelivery(w http.ResponseWriter, r *http.Request) {
	dash, ok := dashboardID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.StartDelivery(r.Context(), dash, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "start delivery", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CourierHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	dash, ok := dashboardID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.ConfirmDelivery(r.Context(), dash, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "confirm delivery", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func dashboardID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.SessionID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return "", false
	}
	return claims.SessionID, true
}
