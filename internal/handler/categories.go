package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
)

// CategoryHandler serves the category-grouped menu.
type CategoryHandler struct {
	store CatalogStore
}

func NewCategoryHandler(store CatalogStore) *CategoryHandler {
	return &CategoryHandler{store: store}
}

func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/categories", h.List)
}

// --- Response types ---

type categoryResponse struct {
	Name         enum.Category `json:"name"`
	ProductCount int           `json:"product_count"`
}

// --- Handlers ---

func (h *CategoryHandler) Menu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Menu())
}

// List returns the categories in menu order with their product counts.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	menu := h.store.Menu()
	resp := make([]categoryResponse, len(menu.Sections))
	for i, s := range menu.Sections {
		resp[i] = categoryResponse{Name: s.Category, ProductCount: len(s.Products)}
	}
	writeJSON(w, http.StatusOK, resp)
}
