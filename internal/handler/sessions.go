package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/cart"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

// CartServicer defines the session and cart operations.
// Satisfied by *service.CartService; narrow interface for testability.
type CartServicer interface {
	CreateSession() service.SessionView
	Session(id string) (service.SessionView, error)
	Cart(id string) (cart.Summary, error)
	AddItem(id, productID string, quantity int) (cart.Summary, error)
	UpdateItem(id, productID string, quantity int) (cart.Summary, error)
	AddCombo(id, comboID string) (cart.Summary, error)
	ClearCart(id string) (cart.Summary, error)
	Reorder(id, orderID string) (cart.Summary, error)
	StartNewOrder(id string) (service.SessionView, error)
	ActiveOrder(id string) (service.OrderView, error)
}

// SessionHandler handles customer sessions and their carts.
type SessionHandler struct {
	svc CartServicer
	log logrus.FieldLogger
}

func NewSessionHandler(svc CartServicer, log logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{svc: svc, log: log}
}

// RegisterRoutes registers session endpoints.
// Expected to be mounted at /sessions.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{sid}", h.Get)
	r.Get("/{sid}/cart", h.Cart)
	r.Delete("/{sid}/cart", h.ClearCart)
	r.Post("/{sid}/cart/items", h.AddItem)
	r.Patch("/{sid}/cart/items/{pid}", h.UpdateItem)
	r.Post("/{sid}/cart/combos/{cid}", h.AddCombo)
	r.Get("/{sid}/order", h.ActiveOrder)
	r.Post("/{sid}/order/new", h.StartNewOrder)
	r.Post("/{sid}/reorder/{oid}", h.Reorder)
}

// --- Request types ---

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

// updateItemRequest allows zero or negative quantities; those remove the line.
type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// --- Handlers ---

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.svc.CreateSession())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Session(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.log, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) Cart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, "get cart")(h.svc.Cart(chi.URLParam(r, "sid")))
}

// AddItem adds a product to the cart. Quantity defaults to 1.
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	h.respondCart(w, "add cart item")(h.svc.AddItem(chi.URLParam(r, "sid"), req.ProductID, qty))
}

func (h *SessionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.respondCart(w, "update cart item")(h.svc.UpdateItem(chi.URLParam(r, "sid"), chi.URLParam(r, "pid"), *req.Quantity))
}

func (h *SessionHandler) AddCombo(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, "add combo")(h.svc.AddCombo(chi.URLParam(r, "sid"), chi.URLParam(r, "cid")))
}

func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, "clear cart")(h.svc.ClearCart(chi.URLParam(r, "sid")))
}

// Reorder replaces the cart with a past order's items.
func (h *SessionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, "reorder")(h.svc.Reorder(chi.URLParam(r, "sid"), chi.URLParam(r, "oid")))
}

func (h *SessionHandler) ActiveOrder(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.ActiveOrder(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.log, "get active order", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) StartNewOrder(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.StartNewOrder(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, h.log, "start new order", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// --- Helpers ---

func (h *SessionHandler) respondCart(w http.ResponseWriter, op string) func(cart.Summary, error) {
	return func(sum cart.Summary, err error) {
		if err != nil {
			writeError(w, h.log, op, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	}
}
