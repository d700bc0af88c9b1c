package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/catalog"
	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/links"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

// CatalogStore defines the catalog methods needed by catalog handlers.
// Satisfied by *catalog.Store; narrow interface for testability.
type CatalogStore interface {
	Products() []model.Product
	Product(id string) (model.Product, error)
	Combos() []model.Combo
	Combo(id string) (model.Combo, error)
	Search(q string) catalog.SearchResult
	Menu() catalog.Menu
	Save(ctx context.Context, entry model.CatalogEntry) (model.CatalogEntry, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteCombo(ctx context.Context, id string) error
}

// ProductHandler handles product, search and catalog admin endpoints.
type ProductHandler struct {
	store   CatalogStore
	baseURL string
	log     logrus.FieldLogger
}

func NewProductHandler(store CatalogStore, baseURL string, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{store: store, baseURL: baseURL, log: log}
}

// RegisterRoutes registers the public product endpoints.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{id}", h.Get)
	r.Get("/products/{id}/share", h.Share)
	r.Get("/search", h.Search)
}

// RegisterAdminRoutes registers catalog writes. Expected to be mounted
// under /admin behind RequireRole.
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/catalog", h.Save)
	r.Delete("/products/{id}", h.Delete)
}

// --- Request types ---

type productRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	ImageURL    string          `json:"image_url"`
}

type comboItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type comboRequest struct {
	ID          string             `json:"id"`
	Name        string             `json:"name" validate:"required"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Items       []comboItemRequest `json:"items" validate:"dive"`
	ImageURL    string             `json:"image_url"`
}

// catalogRequest carries exactly one of Product or Combo, selected by Kind.
type catalogRequest struct {
	Kind    string          `json:"kind" validate:"required,oneof=product combo"`
	Product *productRequest `json:"product"`
	Combo   *comboRequest   `json:"combo"`
}

// --- Handlers ---

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Products())
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "get product", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Share returns the share links for a product.
func (h *ProductHandler) Share(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, "share product", err)
		return
	}
	writeJSON(w, http.StatusOK, links.ShareProduct(h.baseURL, p.ID, p.Name))
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Search(r.URL.Query().Get("q")))
}

// Save creates or replaces a product or combo.
func (h *ProductHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entry := model.CatalogEntry{Kind: enum.CatalogKind(req.Kind)}
	if req.Product != nil {
		entry.Product = &model.Product{}
		if err := copier.Copy(entry.Product, req.Product); err != nil {
			writeError(w, h.log, "map product request", err)
			return
		}
	}
	if req.Combo != nil {
		entry.Combo = &model.Combo{}
		if err := copier.Copy(entry.Combo, req.Combo); err != nil {
			writeError(w, h.log, "map combo request", err)
			return
		}
	}

	saved, err := h.store.Save(r.Context(), entry)
	if err != nil {
		writeError(w, h.log, "save catalog entry", err)
		return
	}

	h.log.WithFields(logrus.Fields{"kind": saved.Kind, "id": savedID(saved)}).Info("catalog entry saved")
	writeJSON(w, http.StatusOK, saved)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, h.log, "delete product", err)
		return
	}
	h.log.WithField("id", id).Info("product deleted")
	w.WriteHeader(http.StatusNoContent)
}

func savedID(e model.CatalogEntry) string {
	switch {
	case e.Product != nil:
		return e.Product.ID
	case e.Combo != nil:
		return e.Combo.ID
	}
	return ""
}
