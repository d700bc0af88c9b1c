package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/catalog"
	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/events"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/payment"
	"github.com/KaduPegasus/Frango-supremo/internal/seed"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

// --- Test doubles ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// blockingGateway holds every call until release is closed.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) ProcessCard(ctx context.Context, d payment.CardDetails) (payment.Result, error) {
	g.entered <- struct{}{}
	<-g.release
	return payment.Result{Success: true, TransactionID: "txn_blocked"}, nil
}

func (g *blockingGateway) ConfirmPix(ctx context.Context) (payment.Result, error) {
	g.entered <- struct{}{}
	<-g.release
	return payment.Result{Success: true, TransactionID: "pix_blocked"}, nil
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// --- Fixture ---

type fixture struct {
	docs     *storage.Documents
	mem      *storage.Memory
	catalog  *catalog.Store
	info     *BusinessInfoStore
	history  *History
	sessions *Sessions
	orders   *OrderService
	carts    *CartService
	checkout *CheckoutService
	courier  *CourierService
	pub      *recordingPublisher
	clock    *clock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithGateway(t, nil)
}

func newFixtureWithGateway(t *testing.T, gw PaymentGateway) *fixture {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()
	if gw == nil {
		gw = payment.NewGateway("test", payment.NewSimulatedCard(0), payment.NewSimulatedPix(0), log)
	}

	f := &fixture{mem: storage.NewMemory(), pub: &recordingPublisher{}}
	f.clock = &clock{t: time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)}
	f.docs = storage.NewDocuments(f.mem, "test", log)
	d := seed.Defaults()
	f.catalog = catalog.NewStore(ctx, f.docs, d.Products, d.Combos)
	f.info = NewBusinessInfoStore(ctx, f.docs, d.BusinessInfo)
	f.history = NewHistory(ctx, f.docs)
	f.sessions = NewSessions()
	f.sessions.now = f.clock.Now
	f.orders = NewOrderService(f.history, f.sessions, f.pub, log)
	f.orders.now = f.clock.Now
	f.carts = NewCartService(f.sessions, f.catalog, f.history, f.info)
	f.checkout = NewCheckoutService(f.sessions, f.orders, gw, f.info, log)
	f.checkout.now = f.clock.Now
	f.courier = NewCourierService(f.history, f.orders)
	f.courier.now = f.clock.Now
	return f
}

// sessionWithCart creates a session holding 2 whole chickens and one
// Coca-Cola: 2×48 + 12 = 108.
func (f *fixture) sessionWithCart(t *testing.T) string {
	t.Helper()
	sid := f.carts.CreateSession().ID
	if _, err := f.carts.AddItem(sid, "frango_assado_inteiro", 2); err != nil {
		t.Fatalf("add chicken: %v", err)
	}
	if _, err := f.carts.AddItem(sid, "coca_cola_2l", 1); err != nil {
		t.Fatalf("add coke: %v", err)
	}
	return sid
}

// placeOrder checks out an offline order and returns it.
func (f *fixture) placeOrder(t *testing.T, orderType enum.OrderType) model.Order {
	t.Helper()
	sid := f.sessionWithCart(t)
	d := details(orderType, enum.PaymentMethodCash)
	res, err := f.checkout.Checkout(context.Background(), sid, d)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.Order == nil {
		t.Fatal("expected an order for cash checkout")
	}
	f.clock.Advance(time.Minute)
	return res.Order.Order
}

func details(orderType enum.OrderType, method enum.PaymentMethod) model.CheckoutDetails {
	d := model.CheckoutDetails{
		CustomerName:  "Ana",
		Phone:         "(11) 98765-4321",
		OrderType:     orderType,
		PaymentMethod: method,
	}
	if orderType == enum.OrderTypeDelivery {
		d.Address = "Rua das Flores, 123"
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
