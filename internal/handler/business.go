package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/links"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

const (
	defaultQRSize = 250
	maxQRSize     = 1024
)

// BusinessInfoStore defines the business info methods.
// Satisfied by *service.BusinessInfoStore; narrow interface for testability.
type BusinessInfoStore interface {
	Get() model.BusinessInfo
	Save(ctx context.Context, info model.BusinessInfo) (model.BusinessInfo, error)
}

// BusinessHandler serves the business info record and the Pix QR image.
type BusinessHandler struct {
	store BusinessInfoStore
	log   logrus.FieldLogger
}

func NewBusinessHandler(store BusinessInfoStore, log logrus.FieldLogger) *BusinessHandler {
	return &BusinessHandler{store: store, log: log}
}

func (h *BusinessHandler) RegisterRoutes(r chi.Router) {
	r.Get("/business-info", h.Get)
	r.Get("/pix/qrcode.png", h.PixQRCode)
}

// RegisterAdminRoutes is mounted under /admin.
func (h *BusinessHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/business-info", h.Update)
}

// --- Request types ---

type businessInfoRequest struct {
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	WhatsApp     string `json:"whatsapp"`
	Instagram    string `json:"instagram" validate:"omitempty,url"`
	Facebook     string `json:"facebook" validate:"omitempty,url"`
	TikTok       string `json:"tiktok" validate:"omitempty,url"`
	Twitter      string `json:"twitter" validate:"omitempty,url"`
	YouTube      string `json:"youtube" validate:"omitempty,url"`
	OpeningHours string `json:"opening_hours"`
	PixKey       string `json:"pix_key"`
}

// --- Handlers ---

func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, service.NewBusinessInfoView(h.store.Get()))
}

// Update replaces the whole record.
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req businessInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var info model.BusinessInfo
	if err := copier.Copy(&info, &req); err != nil {
		writeError(w, h.log, "map business info", err)
		return
	}

	saved, err := h.store.Save(r.Context(), info)
	if err != nil {
		writeError(w, h.log, "save business info", err)
		return
	}
	h.log.WithField("name", saved.Name).Info("business info updated")
	writeJSON(w, http.StatusOK, service.NewBusinessInfoView(saved))
}

// PixQRCode renders the Pix payload for the configured key as a PNG.
// amount and size are optional.
func (h *BusinessHandler) PixQRCode(w http.ResponseWriter, r *http.Request) {
	info := h.store.Get()
	if info.PixKey == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pix key not configured"})
		return
	}

	amount := decimal.Zero
	if s := r.URL.Query().Get("amount"); s != "" {
		v, err := decimal.NewFromString(s)
		if err != nil || v.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
			return
		}
		amount = v
	}

	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			size = v
		}
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	png, err := links.QRCodePNG(links.PixPayload(info.PixKey, amount), size)
	if err != nil {
		writeError(w, h.log, "render pix qr", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
