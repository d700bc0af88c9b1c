// Package cart implements the customer cart: ordered lines, unique by
// product id, each embedding the product as it was when added.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

var ErrInvalidQuantity = errors.New("quantity must be >= 1")

// ProductLookup resolves combo items. Satisfied by *catalog.Store.
type ProductLookup interface {
	Product(id string) (model.Product, error)
}

// Cart is not safe for concurrent use; sessions guard it.
type Cart struct {
	items []model.CartItem
}

// FromItems builds a cart holding a copy of items, dropping lines with
// quantity < 1.
func FromItems(items []model.CartItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		if it.Quantity >= 1 {
			c.items = append(c.items, it)
		}
	}
	return c
}

// Add increments the line for p or appends a new one.
func (c *Cart) Add(p model.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.index(p.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return nil
	}
	c.items = append(c.items, model.CartItem{Product: p, Quantity: quantity})
	return nil
}

// UpdateQuantity sets a line's quantity, removing it when quantity <= 0.
// Unknown product ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
		return
	}
	c.items[i].Quantity = quantity
}

// AddCombo adds each combo item whose product still resolves; the rest
// are skipped without error. It returns the number of lines applied.
func (c *Cart) AddCombo(combo model.Combo, products ProductLookup) int {
	applied := 0
	for _, it := range combo.Items {
		p, err := products.Product(it.ProductID)
		if err != nil || it.Quantity < 1 {
			continue
		}
		c.Add(p, it.Quantity) //nolint:errcheck // quantity checked above
		applied++
	}
	return applied
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []model.CartItem {
	return model.CloneItems(c.items)
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Count is the sum of quantities.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() decimal.Decimal {
	return model.SumItems(c.items)
}

func (c *Cart) index(productID string) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Summary is the cart as rendered to clients.
type Summary struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total decimal.Decimal  `json:"total"`
}

func (c *Cart) Summary() Summary {
	items := c.Items()
	if items == nil {
		items = []model.CartItem{}
	}
	return Summary{Items: items, Count: c.Count(), Total: c.Total()}
}
