package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// ComboHandler handles combo endpoints.
type ComboHandler struct {
	store CatalogStore
	log   logrus.FieldLogger
}

func NewComboHandler(store CatalogStore, log logrus.FieldLogger) *ComboHandler {
	return &ComboHandler{store: store, log: log}
}

func (h *ComboHandler) RegisterRoutes(r chi.Router) {
	r.Get("/combos", h.List)
	r.Get("/combos/{id}", h.Get)
}

// RegisterAdminRoutes is mounted under /admin.
func (h *ComboHandler) RegisterAdminRoutes(r chi.Router) {
	r.Delete("/combos/{id}", h.Delete)
}

func (h *ComboHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Combos())
}

func (h *ComboHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Combo(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "get combo", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a combo. Products are untouched.
func (h *ComboHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCombo(r.Context(), id); err != nil {
		writeError(w, h.log, "delete combo", err)
		return
	}
	h.log.WithField("id", id).Info("combo deleted")
	w.WriteHeader(http.StatusNoContent)
}
