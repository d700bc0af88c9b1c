package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

// CheckoutServicer defines the checkout and payment operations.
// Satisfied by *service.CheckoutService; narrow interface for testability.
type CheckoutServicer interface {
	Checkout(ctx context.Context, sid string, d model.CheckoutDetails) (service.CheckoutResult, error)
	Payment(sid string) (service.PaymentView, error)
	PayWithCard(ctx context.Context, sid string, in service.CardInput) (service.OrderView, error)
	ConfirmPix(ctx context.Context, sid string) (service.OrderView, error)
	CancelPayment(sid string) error
}

// PaymentHandler handles checkout and the online payment step.
type PaymentHandler struct {
	svc CheckoutServicer
	log logrus.FieldLogger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc CheckoutServicer, log logrus.FieldLogger) *PaymentHandler {
	return &PaymentHandler{svc: svc, log: log}
}

// RegisterRoutes registers checkout and payment endpoints.
// Expected to be mounted at /sessions.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{sid}/checkout", h.Checkout)
	r.Get("/{sid}/payment", h.Get)
	r.Delete("/{sid}/payment", h.Cancel)
	r.Post("/{sid}/payment/card", h.PayWithCard)
	r.Post("/{sid}/payment/pix", h.ConfirmPix)
}

// --- Request types ---

type checkoutRequest struct {
	CustomerName  string           `json:"customer_name" validate:"required"`
	Phone         string           `json:"phone" validate:"required"`
	OrderType     string           `json:"order_type" validate:"required"`
	Address       string           `json:"address"`
	Notes         string           `json:"notes"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	ChangeFor     *decimal.Decimal `json:"change_for"`
}

// cardRequest fields are checked by the card processor so that missing
// fields come back as a decline with the processor's message.
type cardRequest struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVC            string `json:"cvc"`
}

// --- Handlers ---

// Checkout places the order for cash or card-on-delivery, or parks it
// waiting on payment for Pix and online card.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := h.svc.Checkout(r.Context(), chi.URLParam(r, "sid"), model.CheckoutDetails{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		OrderType:     enum.OrderType(req.OrderType),
		Address:       req.Address,
		Notes:         req.Notes,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		ChangeFor:     req.ChangeFor,
	})
	if err != nil {
		writeError(w, h.log, "checkout", err)
		return
	}

	if res.Order != nil {
		writeJSON(w, http.StatusCreated, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Payment(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.log, "get payment", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelPayment(chi.URLParam(r, "sid")); err != nil {
		writeError(w, h.log, "cancel payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PayWithCard runs one card attempt. A decline answers 402 with the
// processor's message and keeps the pending payment for a retry.
func (h *PaymentHandler) PayWithCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	v, err := h.svc.PayWithCard(r.Context(), chi.URLParam(r, "sid"), service.CardInput{
		CardholderName: req.CardholderName,
		CardNumber:     req.CardNumber,
		ExpiryDate:     req.ExpiryDate,
		CVC:            req.CVC,
	})
	if err != nil {
		writeError(w, h.log, "card payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// ConfirmPix records the customer's confirmation that the Pix was sent.
func (h *PaymentHandler) ConfirmPix(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ConfirmPix(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.log, "confirm pix", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}
