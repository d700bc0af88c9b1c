package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

// FeedbackStore is satisfied by *service.FeedbackStore.
type FeedbackStore interface {
	Submit(ctx context.Context, rating int, message string) (model.Feedback, error)
	List() []model.Feedback
}

type FeedbackHandler struct {
	store FeedbackStore
	log   logrus.FieldLogger
}

func NewFeedbackHandler(store FeedbackStore, log logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{store: store, log: log}
}

func (h *FeedbackHandler) RegisterRoutes(r chi.Router) {
	r.Post("/feedback", h.Submit)
}

// RegisterAdminRoutes is mounted under /admin.
func (h *FeedbackHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/feedback", h.List)
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"min=0,max=5"`
	Message string `json:"message" validate:"max=2000"`
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	fb, err := h.store.Submit(r.Context(), req.Rating, req.Message)
	if err != nil {
		writeError(w, h.log, "submit feedback", err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.List())
}
