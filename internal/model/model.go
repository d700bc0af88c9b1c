// Package model holds the storefront's persisted records. Orders embed
// snapshots of the products they were placed with, never references.
package model

import (
	"strings"
	"time"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    enum.Category   `json:"category"`
	ImageURL    string          `json:"image_url"`
}

type ComboItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Combo is a bundle with an author-set price; Price is not derived from Items.
type Combo struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Items       []ComboItem     `json:"items"`
	ImageURL    string          `json:"image_url"`
}

func (c Combo) Clone() Combo {
	c.Items = append([]ComboItem(nil), c.Items...)
	return c
}

// CatalogEntry is an admin save request for either kind of catalog record.
type CatalogEntry struct {
	Kind    enum.CatalogKind `json:"kind"`
	Product *Product         `json:"product,omitempty"`
	Combo   *Combo           `json:"combo,omitempty"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (ci CartItem) Subtotal() decimal.Decimal {
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// CloneItems copies a line slice so later mutations of either side do
// not leak into the other.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	return append([]CartItem(nil), items...)
}

// SumItems returns sum(price × quantity) over items.
func SumItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// CheckoutDetails is what the customer enters on the checkout form.
type CheckoutDetails struct {
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	OrderType     enum.OrderType     `json:"order_type"`
	Address       string             `json:"address,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	ChangeFor     *decimal.Decimal   `json:"change_for,omitempty"`
}

type Order struct {
	ID            string             `json:"id"`
	Date          time.Time          `json:"date"`
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	OrderType     enum.OrderType     `json:"order_type"`
	Address       string             `json:"address,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Items         []CartItem         `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	Status        enum.OrderStatus   `json:"status"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	ChangeFor     *decimal.Decimal   `json:"change_for,omitempty"`
	TransactionID string             `json:"transaction_id,omitempty"`
}

func (o Order) Clone() Order {
	o.Items = CloneItems(o.Items)
	if o.ChangeFor != nil {
		c := *o.ChangeFor
		o.ChangeFor = &c
	}
	return o
}

// ShortID is the five-character reference shown to customers and couriers.
func (o Order) ShortID() string {
	if len(o.ID) <= 5 {
		return o.ID
	}
	return o.ID[len(o.ID)-5:]
}

// PendingOrder is a checkout waiting on online payment. It has no id, date
// or status until payment is confirmed.
type PendingOrder struct {
	Details   CheckoutDetails `json:"details"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type BusinessInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	WhatsApp     string `json:"whatsapp"`
	Instagram    string `json:"instagram"`
	Facebook     string `json:"facebook"`
	TikTok       string `json:"tiktok,omitempty"`
	Twitter      string `json:"twitter,omitempty"`
	YouTube      string `json:"youtube,omitempty"`
	OpeningHours string `json:"opening_hours"`
	PixKey       string `json:"pix_key,omitempty"`
}

// OpeningHoursLines splits the newline-delimited display text.
func (b BusinessInfo) OpeningHoursLines() []string {
	var lines []string
	for _, l := range strings.Split(b.OpeningHours, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

type Feedback struct {
	Rating  int       `json:"rating"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
}
