package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

type PaymentMethodTotal struct {
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	OrderCount    int                `json:"order_count"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
}

type OrderTypeTotal struct {
	OrderType   enum.OrderType  `json:"order_type"`
	OrderCount  int             `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type StatusCount struct {
	Status     enum.OrderStatus `json:"status"`
	OrderCount int              `json:"order_count"`
}

type ProductSales struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// Summary aggregates order history over [From, To). Zero bounds are open.
type Summary struct {
	From            *time.Time           `json:"from,omitempty"`
	To              *time.Time           `json:"to,omitempty"`
	OrderCount      int                  `json:"order_count"`
	TotalRevenue    decimal.Decimal      `json:"total_revenue"`
	AverageTicket   decimal.Decimal      `json:"average_ticket"`
	ByPaymentMethod []PaymentMethodTotal `json:"by_payment_method"`
	ByOrderType     []OrderTypeTotal     `json:"by_order_type"`
	ByStatus        []StatusCount        `json:"by_status"`
	TopProducts     []ProductSales       `json:"top_products"`
}

// Reports computes summaries from the order history.
type Reports struct {
	history *History
}

func NewReports(history *History) *Reports {
	return &Reports{history: history}
}

func (r *Reports) Summary(from, to time.Time, limit int) (Summary, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return Summary{}, ErrInvalidDateRange
	}
	return Summarize(r.history.List(), from, to, limit), nil
}

// Summarize is the pure aggregation behind Reports.Summary. Groups come
// out in enum order; top products by quantity, then revenue, then name.
func Summarize(orders []model.Order, from, to time.Time, limit int) Summary {
	s := Summary{TotalRevenue: decimal.Zero, AverageTicket: decimal.Zero}
	if !from.IsZero() {
		f := from
		s.From = &f
	}
	if !to.IsZero() {
		t := to
		s.To = &t
	}

	byMethod := map[enum.PaymentMethod]*PaymentMethodTotal{}
	byType := map[enum.OrderType]*OrderTypeTotal{}
	byStatus := map[enum.OrderStatus]int{}
	byProduct := map[string]*ProductSales{}

	for _, o := range orders {
		if !from.IsZero() && o.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !o.Date.Before(to) {
			continue
		}
		s.OrderCount++
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)

		m, ok := byMethod[o.PaymentMethod]
		if !ok {
			m = &PaymentMethodTotal{PaymentMethod: o.PaymentMethod, TotalAmount: decimal.Zero}
			byMethod[o.PaymentMethod] = m
		}
		m.OrderCount++
		m.TotalAmount = m.TotalAmount.Add(o.Total)

		t, ok := byType[o.OrderType]
		if !ok {
			t = &OrderTypeTotal{OrderType: o.OrderType, TotalAmount: decimal.Zero}
			byType[o.OrderType] = t
		}
		t.OrderCount++
		t.TotalAmount = t.TotalAmount.Add(o.Total)

		byStatus[o.Status]++

		for _, it := range o.Items {
			p, ok := byProduct[it.Product.ID]
			if !ok {
				p = &ProductSales{ProductID: it.Product.ID, ProductName: it.Product.Name, TotalRevenue: decimal.Zero}
				byProduct[it.Product.ID] = p
			}
			p.QuantitySold += it.Quantity
			p.TotalRevenue = p.TotalRevenue.Add(it.Subtotal())
		}
	}

	if s.OrderCount > 0 {
		s.AverageTicket = s.TotalRevenue.DivRound(decimal.NewFromInt(int64(s.OrderCount)), 2)
	}

	s.ByPaymentMethod = []PaymentMethodTotal{}
	for _, pm := range []enum.PaymentMethod{enum.PaymentMethodPix, enum.PaymentMethodCardOnline, enum.PaymentMethodCardDelivery, enum.PaymentMethodCash} {
		if m, ok := byMethod[pm]; ok {
			s.ByPaymentMethod = append(s.ByPaymentMethod, *m)
		}
	}
	s.ByOrderType = []OrderTypeTotal{}
	for _, ot := range []enum.OrderType{enum.OrderTypePickup, enum.OrderTypeDelivery} {
		if t, ok := byType[ot]; ok {
			s.ByOrderType = append(s.ByOrderType, *t)
		}
	}
	s.ByStatus = []StatusCount{}
	for _, st := range enum.OrderStatuses {
		if n, ok := byStatus[st]; ok {
			s.ByStatus = append(s.ByStatus, StatusCount{Status: st, OrderCount: n})
		}
	}

	s.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, p := range byProduct {
		s.TopProducts = append(s.TopProducts, *p)
	}
	sort.Slice(s.TopProducts, func(i, j int) bool {
		a, b := s.TopProducts[i], s.TopProducts[j]
		if a.QuantitySold != b.QuantitySold {
			return a.QuantitySold > b.QuantitySold
		}
		if !a.TotalRevenue.Equal(b.TotalRevenue) {
			return a.TotalRevenue.GreaterThan(b.TotalRevenue)
		}
		return a.ProductName < b.ProductName
	})
	if limit > 0 && len(s.TopProducts) > limit {
		s.TopProducts = s.TopProducts[:limit]
	}
	return s
}
