// Package catalog holds the storefront's products and combos. Deleting a
// product never touches combos that reference it; dangling combo items are
// skipped when a combo is expanded into a cart.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

// Errors returned by the catalog store.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrComboNotFound   = errors.New("combo not found")
	ErrNameRequired    = errors.New("name is required")
	ErrNegativePrice   = errors.New("price must be >= 0")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidItem     = errors.New("combo items need a product_id and quantity >= 1")
	ErrInvalidKind     = errors.New("kind must be product or combo")
	ErrKindMismatch    = errors.New("entry body does not match kind")
)

// IsValidationError reports whether err is caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrKindMismatch)
}

// DocumentStore is the persistence the catalog needs.
// Satisfied by *storage.Documents; narrow interface for testability.
type DocumentStore interface {
	Load(ctx context.Context, name string, dst any) bool
	Save(ctx context.Context, name string, v any)
}

// Store keeps products and combos in insertion order and writes the full
// document after every change.
type Store struct {
	mu       sync.RWMutex
	docs     DocumentStore
	products []model.Product
	combos   []model.Combo
}

// NewStore loads both documents, falling back to the given defaults.
func NewStore(ctx context.Context, docs DocumentStore, defaultProducts []model.Product, defaultCombos []model.Combo) *Store {
	s := &Store{docs: docs}

	products := append([]model.Product(nil), defaultProducts...)
	if !docs.Load(ctx, storage.DocProducts, &products) {
		products = append([]model.Product(nil), defaultProducts...)
	}
	combos := cloneCombos(defaultCombos)
	if !docs.Load(ctx, storage.DocCombos, &combos) {
		combos = cloneCombos(defaultCombos)
	}
	s.products = products
	s.combos = combos
	return s
}

func cloneCombos(in []model.Combo) []model.Combo {
	out := make([]model.Combo, 0, len(in))
	for _, c := range in {
		out = append(out, c.Clone())
	}
	return out
}

func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Product(nil), s.products...)
}

func (s *Store) Combos() []model.Combo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCombos(s.combos)
}

func (s *Store) Product(id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.productIndex(id); i >= 0 {
		return s.products[i], nil
	}
	return model.Product{}, ErrProductNotFound
}

func (s *Store) Combo(id string) (model.Combo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.comboIndex(id); i >= 0 {
		return s.combos[i].Clone(), nil
	}
	return model.Combo{}, ErrComboNotFound
}

func (s *Store) productIndex(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) comboIndex(id string) int {
	for i, c := range s.combos {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// UpsertProduct replaces the product with the same id or appends it. An
// empty id is derived from the name.
func (s *Store) UpsertProduct(ctx context.Context, p model.Product) (model.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.uniqueID(p.Name)
	}
	if i := s.productIndex(p.ID); i >= 0 {
		s.products[i] = p
	} else {
		s.products = append(s.products, p)
	}
	s.docs.Save(ctx, storage.DocProducts, s.products)
	return p, nil
}

// DeleteProduct removes a product. Combos referencing it are left as-is.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.docs.Save(ctx, storage.DocProducts, s.products)
	return nil
}

func (s *Store) UpsertCombo(ctx context.Context, c model.Combo) (model.Combo, error) {
	c.Name = strings.TrimSpace(c.Name)
	if err := validateCombo(c); err != nil {
		return model.Combo{}, err
	}
	c = c.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.uniqueID(c.Name)
	}
	if i := s.comboIndex(c.ID); i >= 0 {
		s.combos[i] = c
	} else {
		s.combos = append(s.combos, c)
	}
	s.docs.Save(ctx, storage.DocCombos, s.combos)
	return c.Clone(), nil
}

func (s *Store) DeleteCombo(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.comboIndex(id)
	if i < 0 {
		return ErrComboNotFound
	}
	s.combos = append(s.combos[:i], s.combos[i+1:]...)
	s.docs.Save(ctx, storage.DocCombos, s.combos)
	return nil
}

// Save dispatches an admin save on the entry's explicit kind.
func (s *Store) Save(ctx context.Context, entry model.CatalogEntry) (model.CatalogEntry, error) {
	switch entry.Kind {
	case enum.CatalogKindProduct:
		if entry.Product == nil || entry.Combo != nil {
			return model.CatalogEntry{}, ErrKindMismatch
		}
		p, err := s.UpsertProduct(ctx, *entry.Product)
		if err != nil {
			return model.CatalogEntry{}, err
		}
		return model.CatalogEntry{Kind: entry.Kind, Product: &p}, nil
	case enum.CatalogKindCombo:
		if entry.Combo == nil || entry.Product != nil {
			return model.CatalogEntry{}, ErrKindMismatch
		}
		c, err := s.UpsertCombo(ctx, *entry.Combo)
		if err != nil {
			return model.CatalogEntry{}, err
		}
		return model.CatalogEntry{Kind: entry.Kind, Combo: &c}, nil
	default:
		return model.CatalogEntry{}, ErrInvalidKind
	}
}

// uniqueID slugs name and appends -1, -2, ... until no product or combo
// uses it. Caller must hold s.mu.
func (s *Store) uniqueID(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "item"
	}
	result := base
	for i := 1; s.productIndex(result) >= 0 || s.comboIndex(result) >= 0; i++ {
		result = fmt.Sprintf("%s-%d", base, i)
	}
	return result
}

func validateProduct(p model.Product) error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Price.LessThan(decimal.Zero) {
		return ErrNegativePrice
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	return nil
}

func validateCombo(c model.Combo) error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Price.LessThan(decimal.Zero) {
		return ErrNegativePrice
	}
	for _, it := range c.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return ErrInvalidItem
		}
	}
	return nil
}

// SearchResult holds the products and combos matching a query.
type SearchResult struct {
	Products []model.Product `json:"products"`
	Combos   []model.Combo   `json:"combos"`
}

// Search matches q against names and descriptions ignoring case and
// accents ("guarana" finds "Guaraná"). A blank query matches nothing.
func (s *Store) Search(q string) SearchResult {
	res := SearchResult{Products: []model.Product{}, Combos: []model.Combo{}}
	q = fold(strings.TrimSpace(q))
	if q == "" {
		return res
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if matches(q, p.Name, p.Description) {
			res.Products = append(res.Products, p)
		}
	}
	for _, c := range s.combos {
		if matches(q, c.Name, c.Description) {
			res.Combos = append(res.Combos, c.Clone())
		}
	}
	return res
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// fold lowercases s and strips combining marks.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// MenuSection is one category heading with its products.
type MenuSection struct {
	Category enum.Category   `json:"category"`
	Products []model.Product `json:"products"`
}

type Menu struct {
	Combos   []model.Combo `json:"combos"`
	Sections []MenuSection `json:"sections"`
}

// Menu groups products by category: the preferred categories first, then
// any others alphabetically. Products keep catalog order within a section.
func (s *Store) Menu() Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[enum.Category][]model.Product)
	for _, p := range s.products {
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	sections := make([]MenuSection, 0, len(grouped))
	for _, cat := range enum.PreferredCategoryOrder {
		if ps, ok := grouped[cat]; ok {
			sections = append(sections, MenuSection{Category: cat, Products: ps})
			delete(grouped, cat)
		}
	}
	rest := make([]enum.Category, 0, len(grouped))
	for cat := range grouped {
		rest = append(rest, cat)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, cat := range rest {
		sections = append(sections, MenuSection{Category: cat, Products: grouped[cat]})
	}

	return Menu{Combos: cloneCombos(s.combos), Sections: sections}
}
