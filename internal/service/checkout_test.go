package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/payment"
)

var approvedCard = CardInput{
	CardholderName: "ANA SILVA",
	CardNumber:     "4242 4242 4242 4242",
	ExpiryDate:     "12/30",
	CVC:            "123",
}

func TestCheckout_CashCreatesOrderImmediately(t *testing.T) {
	f := newFixture(t)
	sid := f.sessionWithCart(t)

	d := details(enum.OrderTypePickup, enum.PaymentMethodCash)
	d.ChangeFor = decPtr("150")
	res, err := f.checkout.Checkout(context.Background(), sid, d)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Payment != nil {
		t.Error("cash checkout should not leave a pending payment")
	}
	if res.Order == nil {
		t.Fatal("expected order")
	}
	o := res.Order
	if o.Status != enum.OrderStatusReceived {
		t.Errorf("status: got %q", o.Status)
	}
	if !o.Total.Equal(dec("108")) {
		t.Errorf("total: got %s, want 108", o.Total)
	}
	if o.ChangeFor == nil || !o.ChangeFor.Equal(dec("150")) {
		t.Errorf("change_for: got %v", o.ChangeFor)
	}
	if o.TransactionID != "" {
		t.Errorf("cash order should have no transaction id, got %q", o.TransactionID)
	}
	if len(o.ShortID) != 5 || !strings.HasSuffix(o.ID, o.ShortID) {
		t.Errorf("short id %q does not suffix %q", o.ShortID, o.ID)
	}

	sess, _ := f.carts.Session(sid)
	if sess.Cart.Count != 0 {
		t.Errorf("cart should be empty after checkout, count=%d", sess.Cart.Count)
	}
	if sess.ActiveOrder == nil || sess.ActiveOrder.ID != o.ID {
		t.Error("order should be the session's active order")
	}
	if got := f.history.List(); len(got) != 1 || got[0].ID != o.ID {
		t.Errorf("history: got %d orders", len(got))
	}
	if got := f.pub.types(); len(got) != 1 || got[0] != events.OrderCreated {
		t.Errorf("events: got %v", got)
	}
}

func TestCheckout_PickupDropsAddress(t *testing.T) {
	f := newFixture(t)
	sid := f.sessionWithCart(t)
	d := details(enum.OrderTypePickup, enum.PaymentMethodCardDelivery)
	d.Address = "Rua X"

	res, err := f.checkout.Checkout(context.Background(), sid, d)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Order.Address != "" {
		t.Errorf("pickup order kept address %q", res.Order.Address)
	}
}

func TestCheckout_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.CheckoutDetails)
		want   error
	}{
		{"missing name", func(d *model.CheckoutDetails) { d.CustomerName = "  " }, ErrCustomerNameRequired},
		{"missing phone", func(d *model.CheckoutDetails) { d.Phone = "" }, ErrPhoneRequired},
		{"bad order type", func(d *model.CheckoutDetails) { d.OrderType = "Drive-thru" }, ErrInvalidOrderType},
		{"delivery without address", func(d *model.CheckoutDetails) {
			d.OrderType = enum.OrderTypeDelivery
			d.Address = ""
		}, ErrAddressRequired},
		{"bad payment method", func(d *model.CheckoutDetails) { d.PaymentMethod = "Boleto" }, ErrInvalidPaymentMethod},
		{"change with card", func(d *model.CheckoutDetails) {
			d.PaymentMethod = enum.PaymentMethodCardDelivery
			d.ChangeFor = decPtr("200")
		}, ErrChangeNotAllowed},
		{"change below total", func(d *model.CheckoutDetails) { d.ChangeFor = decPtr("100") }, ErrChangeTooLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sid := f.sessionWithCart(t)
			d := details(enum.OrderTypePickup, enum.PaymentMethodCash)
			tt.modify(&d)

			_, err := f.checkout.Checkout(context.Background(), sid, d)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !IsValidationError(err) {
				t.Errorf("%v should be a validation error", err)
			}
			sess, _ := f.carts.Session(sid)
			if sess.Cart.Count != 3 {
				t.Errorf("cart should be untouched on rejection, count=%d", sess.Cart.Count)
			}
		})
	}
}

func TestCheckout_ChangeEqualToTotalAccepted(t *testing.T) {
	f := newFixture(t)
	sid := f.sessionWithCart(t)
	d := details(enum.OrderTypePickup, enum.PaymentMethodCash)
	d.ChangeFor = decPtr("108.00")
	if _, err := f.checkout.Checkout(context.Background(), sid, d); err != nil {
		t.Fatalf("checkout: %v", err)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	sid := f.carts.CreateSession().ID
	_, err := f.checkout.Checkout(context.Background(), sid, details(enum.OrderTypePickup, enum.PaymentMethodCash))
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestCheckout_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.Checkout(context.Background(), "nope", details(enum.OrderTypePickup, enum.PaymentMethodCash))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestCardPayment_Approved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)

	res, err := f.checkout.Checkout(ctx, sid, details(enum.OrderTypeDelivery, enum.PaymentMethodCardOnline))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Order != nil || res.Payment == nil {
		t.Fatal("online checkout should return a pending payment and no order")
	}
	if len(f.history.List()) != 0 {
		t.Fatal("no order may exist before payment")
	}

	o, err := f.checkout.PayWithCard(ctx, sid, approvedCard)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if o.Status != enum.OrderStatusReceived {
		t.Errorf("status: got %q", o.Status)
	}
	if !strings.HasPrefix(o.TransactionID, "txn_") {
		t.Errorf("transaction id: got %q", o.TransactionID)
	}
	if o.PaymentMethod != enum.PaymentMethodCardOnline {
		t.Errorf("payment method: got %q", o.PaymentMethod)
	}
	if _, err := f.checkout.Payment(sid); !errors.Is(err, ErrNoPendingOrder) {
		t.Errorf("pending payment should be gone, got %v", err)
	}
	if len(f.history.List()) != 1 {
		t.Error("order should be in history")
	}
}

func TestCardPayment_DeclineKeepsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)
	if _, err := f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodCardOnline)); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	declined := approvedCard
	declined.CardNumber = "1111 1111 1111 1111"
	_, err := f.checkout.PayWithCard(ctx, sid, declined)
	var de *DeclineError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want DeclineError", err)
	}
	if de.Message != payment.MsgDeclined {
		t.Errorf("message: got %q", de.Message)
	}
	if !errors.Is(err, ErrPaymentDeclined) {
		t.Error("decline should match ErrPaymentDeclined")
	}
	if len(f.history.List()) != 0 {
		t.Fatal("declined payment must not create an order")
	}

	p, err := f.checkout.Payment(sid)
	if err != nil {
		t.Fatalf("pending payment should survive a decline: %v", err)
	}
	if p.InProgress {
		t.Error("payment should no longer be in progress")
	}

	if _, err := f.checkout.PayWithCard(ctx, sid, approvedCard); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestCardPayment_ShortNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)
	f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodCardOnline))

	in := approvedCard
	in.CardNumber = "4242"
	_, err := f.checkout.PayWithCard(ctx, sid, in)
	var de *DeclineError
	if !errors.As(err, &de) || de.Message != payment.MsgInvalidNumber {
		t.Fatalf("got %v, want invalid number decline", err)
	}
}

func TestPayment_WrongMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)
	f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodPix))

	if _, err := f.checkout.PayWithCard(ctx, sid, approvedCard); !errors.Is(err, ErrWrongPaymentMethod) {
		t.Fatalf("got %v, want ErrWrongPaymentMethod", err)
	}
}

func TestPixPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)

	res, err := f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodPix))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	p := res.Payment
	if p.PixKey != "seu-email-pix-aqui" {
		t.Errorf("pix key: got %q", p.PixKey)
	}
	if p.PixPayload == "" || p.PixQRCodeURL == "" {
		t.Error("pix payload and QR url should be set")
	}

	o, err := f.checkout.ConfirmPix(ctx, sid)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !strings.HasPrefix(o.TransactionID, "pix_") {
		t.Errorf("transaction id: got %q", o.TransactionID)
	}
}

func TestPayment_OneAttemptInFlight(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWithGateway(t, gw)
	ctx := context.Background()
	sid := f.sessionWithCart(t)
	f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodCardOnline))

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.PayWithCard(ctx, sid, approvedCard)
		done <- err
	}()

	select {
	case <-gw.entered:
	case <-time.After(time.Second):
		t.Fatal("first attempt never reached the gateway")
	}

	if _, err := f.checkout.PayWithCard(ctx, sid, approvedCard); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("second attempt: got %v, want ErrPaymentInProgress", err)
	}
	if err := f.checkout.CancelPayment(sid); !errors.Is(err, ErrPaymentInProgress) {
		t.Errorf("cancel during attempt: got %v, want ErrPaymentInProgress", err)
	}
	f.clock.Advance(time.Hour)
	if n := f.sessions.SweepPending(time.Minute); n != 0 {
		t.Errorf("sweep should skip in-flight payments, swept %d", n)
	}

	close(gw.release)
	if err := <-done; err != nil {
		t.Fatalf("first attempt: %v", err)
	}
	if len(f.history.List()) != 1 {
		t.Errorf("expected exactly one order, got %d", len(f.history.List()))
	}
}

func TestCancelPayment_CartStaysEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sid := f.sessionWithCart(t)
	f.checkout.Checkout(ctx, sid, details(enum.OrderTypePickup, enum.PaymentMethodPix))

	if err := f.checkout.CancelPayment(sid); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	sess, _ := f.carts.Session(sid)
	if sess.Payment != nil {
		t.Error("pending payment should be discarded")
	}
	if sess.Cart.Count != 0 {
		t.Errorf("cart is not restored on cancel, count=%d", sess.Cart.Count)
	}
	if err := f.checkout.CancelPayment(sid); !errors.Is(err, ErrNoPendingOrder) {
		t.Errorf("second cancel: got %v", err)
	}
	if len(f.history.List()) != 0 {
		t.Error("cancelled payment must not create an order")
	}
}

func TestSweepPending_DropsStale(t *testing.T) {
	f := newFixture(t)
	sid := f.sessionWithCart(t)
	f.checkout.Checkout(context.Background(), sid, details(enum.OrderTypePickup, enum.PaymentMethodPix))

	if n := f.sessions.SweepPending(time.Hour); n != 0 {
		t.Fatalf("fresh pending swept: %d", n)
	}
	f.clock.Advance(2 * time.Hour)
	if n := f.sessions.SweepPending(time.Hour); n != 1 {
		t.Fatalf("swept: got %d, want 1", n)
	}
	if _, err := f.checkout.Payment(sid); !errors.Is(err, ErrNoPendingOrder) {
		t.Errorf("got %v, want ErrNoPendingOrder", err)
	}
}

func TestSweepIdleSessions(t *testing.T) {
	f := newFixture(t)
	old := f.carts.CreateSession().ID
	f.clock.Advance(3 * time.Hour)
	fresh := f.carts.CreateSession().ID

	if n := f.sessions.SweepIdle(2 * time.Hour); n != 1 {
		t.Fatalf("swept: got %d, want 1", n)
	}
	if _, err := f.carts.Session(old); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("old session: got %v", err)
	}
	if _, err := f.carts.Session(fresh); err != nil {
		t.Errorf("fresh session: %v", err)
	}
}
