package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/metrics"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/payment"
)

// PaymentGateway is satisfied by *payment.Gateway.
type PaymentGateway interface {
	ProcessCard(ctx context.Context, d payment.CardDetails) (payment.Result, error)
	ConfirmPix(ctx context.Context) (payment.Result, error)
}

// CardInput is what the customer types on the card form.
type CardInput struct {
	CardholderName string
	CardNumber     string
	ExpiryDate     string
	CVC            string
}

// CheckoutResult holds either the created order (offline payment) or
// the payment the customer still has to make (online payment).
type CheckoutResult struct {
	Order   *OrderView   `json:"order,omitempty"`
	Payment *PaymentView `json:"payment,omitempty"`
}

// CheckoutService turns a session's cart into an order.
type CheckoutService struct {
	sessions *Sessions
	orders   *OrderService
	gateway  PaymentGateway
	info     InfoReader
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewCheckoutService(sessions *Sessions, orders *OrderService, gateway PaymentGateway, info InfoReader, log logrus.FieldLogger) *CheckoutService {
	return &CheckoutService{
		sessions: sessions,
		orders:   orders,
		gateway:  gateway,
		info:     info,
		log:      log,
		now:      time.Now,
	}
}

// Checkout validates details against the session's cart. Offline
// methods create the order at once; online methods park the cart as a
// pending order until payment is confirmed. The cart is emptied either
// way and is not restored if the payment is cancelled.
func (s *CheckoutService) Checkout(ctx context.Context, sid string, d model.CheckoutDetails) (CheckoutResult, error) {
	info := s.info.Get()
	var (
		res     CheckoutResult
		created *model.Order
	)
	err := s.sessions.with(sid, func(sess *session) error {
		if sess.paying {
			return ErrPaymentInProgress
		}
		if sess.cart.Empty() {
			return ErrEmptyCart
		}
		total := sess.cart.Total()
		details, err := normalizeDetails(d, total)
		if err != nil {
			return err
		}

		pending := &model.PendingOrder{
			Details:   details,
			Items:     sess.cart.Items(),
			Total:     total,
			CreatedAt: s.now(),
		}
		sess.cart.Clear()

		if details.PaymentMethod.Online() {
			sess.pending = pending
			res.Payment = newPaymentView(pending, false, info)
			return nil
		}

		// --- Offline payment: the order exists from now on ---
		sess.pending = nil
		o := materialize(pending, s.now())
		active := o.Clone()
		sess.active = &active
		created = &o
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	if created != nil {
		s.orders.record(ctx, *created)
		v := NewOrderView(*created)
		res.Order = &v
	}
	return res, nil
}

// Payment returns the session's pending payment.
func (s *CheckoutService) Payment(sid string) (PaymentView, error) {
	info := s.info.Get()
	var v PaymentView
	err := s.sessions.with(sid, func(sess *session) error {
		if sess.pending == nil {
			return ErrNoPendingOrder
		}
		v = *newPaymentView(sess.pending, sess.paying, info)
		return nil
	})
	return v, err
}

// PayWithCard runs one card attempt for the pending order. A decline
// keeps the pending order for another try.
func (s *CheckoutService) PayWithCard(ctx context.Context, sid string, in CardInput) (OrderView, error) {
	pending, err := s.beginPayment(sid, enum.PaymentMethodCardOnline)
	if err != nil {
		return OrderView{}, err
	}

	res, callErr := s.gateway.ProcessCard(ctx, payment.CardDetails{
		CardholderName: in.CardholderName,
		CardNumber:     in.CardNumber,
		ExpiryDate:     in.ExpiryDate,
		CVC:            in.CVC,
		Amount:         pending.Total,
	})
	if callErr == nil && !res.Success {
		s.log.WithFields(logrus.Fields{
			"session_id": sid,
			"card":       payment.MaskCard(in.CardNumber),
			"amount":     pending.Total.StringFixed(2),
		}).Info("card payment declined")
	}
	return s.finishPayment(ctx, sid, enum.PaymentMethodCardOnline, res, callErr)
}

// ConfirmPix takes the customer's word that the Pix transfer was made.
func (s *CheckoutService) ConfirmPix(ctx context.Context, sid string) (OrderView, error) {
	if _, err := s.beginPayment(sid, enum.PaymentMethodPix); err != nil {
		return OrderView{}, err
	}
	res, callErr := s.gateway.ConfirmPix(ctx)
	return s.finishPayment(ctx, sid, enum.PaymentMethodPix, res, callErr)
}

// CancelPayment discards the pending order. The cart stays empty.
func (s *CheckoutService) CancelPayment(sid string) error {
	return s.sessions.with(sid, func(sess *session) error {
		if sess.pending == nil {
			return ErrNoPendingOrder
		}
		if sess.paying {
			return ErrPaymentInProgress
		}
		sess.pending = nil
		return nil
	})
}

// beginPayment marks the session as paying so a second attempt is
// refused until this one resolves.
func (s *CheckoutService) beginPayment(sid string, method enum.PaymentMethod) (model.PendingOrder, error) {
	var pending model.PendingOrder
	err := s.sessions.with(sid, func(sess *session) error {
		if sess.pending == nil {
			return ErrNoPendingOrder
		}
		if sess.pending.Details.PaymentMethod != method {
			return ErrWrongPaymentMethod
		}
		if sess.paying {
			return ErrPaymentInProgress
		}
		sess.paying = true
		pending = *sess.pending
		pending.Items = model.CloneItems(sess.pending.Items)
		return nil
	})
	return pending, err
}

func (s *CheckoutService) finishPayment(ctx context.Context, sid string, method enum.PaymentMethod, res payment.Result, callErr error) (OrderView, error) {
	var created model.Order
	err := s.sessions.with(sid, func(sess *session) error {
		sess.paying = false
		if callErr != nil {
			return callErr
		}
		if !res.Success {
			return &DeclineError{Message: res.Error}
		}
		if sess.pending == nil {
			return ErrNoPendingOrder
		}

		created = materialize(sess.pending, s.now())
		created.TransactionID = res.TransactionID
		sess.pending = nil
		active := created.Clone()
		sess.active = &active
		return nil
	})

	result := "approved"
	switch {
	case callErr != nil:
		result = "error"
		s.log.WithError(callErr).WithField("session_id", sid).Error("payment attempt failed")
	case !res.Success:
		result = "declined"
	}
	metrics.PaymentAttempts.WithLabelValues(string(method), result).Inc()

	if err != nil {
		return OrderView{}, err
	}
	s.orders.record(ctx, created)
	return NewOrderView(created), nil
}

// materialize assigns the id, date and initial status. It runs at
// confirmation time, never at form submission.
func materialize(p *model.PendingOrder, now time.Time) model.Order {
	d := p.Details
	return model.Order{
		ID:            uuid.NewString(),
		Date:          now,
		CustomerName:  d.CustomerName,
		Phone:         d.Phone,
		OrderType:     d.OrderType,
		Address:       d.Address,
		Notes:         d.Notes,
		Items:         model.CloneItems(p.Items),
		Total:         p.Total,
		Status:        enum.OrderStatusReceived,
		PaymentMethod: d.PaymentMethod,
		ChangeFor:     cloneDecimal(d.ChangeFor),
	}
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func normalizeDetails(d model.CheckoutDetails, total decimal.Decimal) (model.CheckoutDetails, error) {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.Notes = strings.TrimSpace(d.Notes)

	if d.CustomerName == "" {
		return d, ErrCustomerNameRequired
	}
	if d.Phone == "" {
		return d, ErrPhoneRequired
	}
	if !d.OrderType.Valid() {
		return d, ErrInvalidOrderType
	}
	if d.OrderType == enum.OrderTypeDelivery && d.Address == "" {
		return d, ErrAddressRequired
	}
	if d.OrderType == enum.OrderTypePickup {
		d.Address = ""
	}
	if !d.PaymentMethod.Valid() {
		return d, ErrInvalidPaymentMethod
	}
	if d.ChangeFor != nil {
		if d.PaymentMethod != enum.PaymentMethodCash {
			return d, ErrChangeNotAllowed
		}
		if d.ChangeFor.LessThan(total) {
			return d, ErrChangeTooLow
		}
		d.ChangeFor = cloneDecimal(d.ChangeFor)
	}
	return d, nil
}
