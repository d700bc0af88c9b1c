package service

import (
	"errors"

	"github.com/KaduPegasus/Frango-supremo/internal/cart"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
)

var ErrNoActiveOrder = errors.New("session has no active order")

// ProductCatalog is the catalog lookup the cart needs.
// Satisfied by *catalog.Store; narrow interface for testability.
type ProductCatalog interface {
	Product(id string) (model.Product, error)
	Combo(id string) (model.Combo, error)
}

// InfoReader is satisfied by *BusinessInfoStore.
type InfoReader interface {
	Get() model.BusinessInfo
}

// CartService handles customer sessions and their carts.
type CartService struct {
	sessions *Sessions
	catalog  ProductCatalog
	history  *History
	info     InfoReader
}

func NewCartService(sessions *Sessions, catalog ProductCatalog, history *History, info InfoReader) *CartService {
	return &CartService{sessions: sessions, catalog: catalog, history: history, info: info}
}

func (s *CartService) CreateSession() SessionView {
	id := s.sessions.Create()
	v, _ := s.Session(id)
	return v
}

func (s *CartService) Session(id string) (SessionView, error) {
	info := s.info.Get()
	var v SessionView
	err := s.sessions.with(id, func(sess *session) error {
		v = sess.view(info)
		return nil
	})
	return v, err
}

func (s *CartService) Cart(id string) (cart.Summary, error) {
	return s.mutate(id, func(*cart.Cart) error { return nil })
}

// AddItem adds quantity of a catalog product, snapshotting its current
// price and details into the line.
func (s *CartService) AddItem(id, productID string, quantity int) (cart.Summary, error) {
	p, err := s.catalog.Product(productID)
	if err != nil {
		return cart.Summary{}, err
	}
	return s.mutate(id, func(c *cart.Cart) error { return c.Add(p, quantity) })
}

func (s *CartService) UpdateItem(id, productID string, quantity int) (cart.Summary, error) {
	return s.mutate(id, func(c *cart.Cart) error {
		c.UpdateQuantity(productID, quantity)
		return nil
	})
}

// AddCombo expands a combo into its products. Items whose product no
// longer exists are skipped.
func (s *CartService) AddCombo(id, comboID string) (cart.Summary, error) {
	combo, err := s.catalog.Combo(comboID)
	if err != nil {
		return cart.Summary{}, err
	}
	return s.mutate(id, func(c *cart.Cart) error {
		c.AddCombo(combo, s.catalog)
		return nil
	})
}

func (s *CartService) ClearCart(id string) (cart.Summary, error) {
	return s.mutate(id, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// Reorder replaces the cart with the items of a past order, as they were
// when that order was placed.
func (s *CartService) Reorder(id, orderID string) (cart.Summary, error) {
	o, err := s.history.Get(orderID)
	if err != nil {
		return cart.Summary{}, err
	}
	var sum cart.Summary
	err = s.sessions.with(id, func(sess *session) error {
		sess.cart = cart.FromItems(o.Items)
		sum = sess.cart.Summary()
		return nil
	})
	return sum, err
}

// StartNewOrder forgets the active order and empties the cart.
func (s *CartService) StartNewOrder(id string) (SessionView, error) {
	info := s.info.Get()
	var v SessionView
	err := s.sessions.with(id, func(sess *session) error {
		sess.active = nil
		sess.cart.Clear()
		v = sess.view(info)
		return nil
	})
	return v, err
}

func (s *CartService) ActiveOrder(id string) (OrderView, error) {
	var v OrderView
	err := s.sessions.with(id, func(sess *session) error {
		if sess.active == nil {
			return ErrNoActiveOrder
		}
		v = NewOrderView(sess.active.Clone())
		return nil
	})
	return v, err
}

func (s *CartService) mutate(id string, fn func(*cart.Cart) error) (cart.Summary, error) {
	var sum cart.Summary
	err := s.sessions.with(id, func(sess *session) error {
		if err := fn(sess.cart); err != nil {
			return err
		}
		sum = sess.cart.Summary()
		return nil
	})
	return sum, err
}
