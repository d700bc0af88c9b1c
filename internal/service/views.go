package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaduPegasus/Frango-supremo/internal/cart"
	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/lifecycle"
	"github.com/KaduPegasus/Frango-supremo/internal/links"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

const pixQRSize = 250

// OrderView is an order plus what clients need to render its status.
type OrderView struct {
	model.Order
	ShortID  string             `json:"short_id"`
	Progress lifecycle.Progress `json:"progress"`
	Actions  []enum.OrderEvent  `json:"actions"`
}

func NewOrderView(o model.Order) OrderView {
	return OrderView{
		Order:    o,
		ShortID:  o.ShortID(),
		Progress: lifecycle.ProgressOf(o.OrderType, o.Status),
		Actions:  lifecycle.Actions(o.OrderType, o.Status),
	}
}

// PaymentView describes a checkout waiting on online payment.
type PaymentView struct {
	Method     enum.PaymentMethod    `json:"payment_method"`
	Total      decimal.Decimal       `json:"total"`
	Items      []model.CartItem      `json:"items"`
	Details    model.CheckoutDetails `json:"details"`
	CreatedAt  time.Time             `json:"created_at"`
	InProgress bool                  `json:"in_progress"`

	PixKey       string `json:"pix_key,omitempty"`
	PixPayload   string `json:"pix_payload,omitempty"`
	PixQRCodeURL string `json:"pix_qrcode_url,omitempty"`
}

func newPaymentView(p *model.PendingOrder, paying bool, info model.BusinessInfo) *PaymentView {
	v := &PaymentView{
		Method:     p.Details.PaymentMethod,
		Total:      p.Total,
		Items:      model.CloneItems(p.Items),
		Details:    p.Details,
		CreatedAt:  p.CreatedAt,
		InProgress: paying,
	}
	if v.Method == enum.PaymentMethodPix {
		v.PixKey = info.PixKey
		v.PixPayload = links.PixPayload(info.PixKey, p.Total)
		v.PixQRCodeURL = links.QRImageURL(v.PixPayload, pixQRSize)
	}
	return v
}

type SessionView struct {
	ID          string       `json:"id"`
	Cart        cart.Summary `json:"cart"`
	Payment     *PaymentView `json:"pending_payment,omitempty"`
	ActiveOrder *OrderView   `json:"active_order,omitempty"`
}

// view must be called with the session store lock held.
func (sess *session) view(info model.BusinessInfo) SessionView {
	v := SessionView{ID: sess.id, Cart: sess.cart.Summary()}
	if sess.pending != nil {
		v.Payment = newPaymentView(sess.pending, sess.paying, info)
	}
	if sess.active != nil {
		ov := NewOrderView(sess.active.Clone())
		v.ActiveOrder = &ov
	}
	return v
}
