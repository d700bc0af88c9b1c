// Package seed carries the built-in storefront documents used when
// storage holds nothing (or nothing readable) and by cmd/seed.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
	"github.com/KaduPegasus/Frango-supremo/internal/model"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type yamlProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	ImageURL    string `yaml:"image_url"`
}

type yamlComboItem struct {
	ProductID string `yaml:"product_id"`
	Quantity  int    `yaml:"quantity"`
}

type yamlCombo struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       string          `yaml:"price"`
	ImageURL    string          `yaml:"image_url"`
	Items       []yamlComboItem `yaml:"items"`
}

type yamlBusinessInfo struct {
	Name         string `yaml:"name"`
	Address      string `yaml:"address"`
	Phone        string `yaml:"phone"`
	WhatsApp     string `yaml:"whatsapp"`
	Instagram    string `yaml:"instagram"`
	Facebook     string `yaml:"facebook"`
	TikTok       string `yaml:"tiktok"`
	Twitter      string `yaml:"twitter"`
	YouTube      string `yaml:"youtube"`
	OpeningHours string `yaml:"opening_hours"`
	PixKey       string `yaml:"pix_key"`
}

type yamlDefaults struct {
	Products     []yamlProduct    `yaml:"products"`
	Combos       []yamlCombo      `yaml:"combos"`
	BusinessInfo yamlBusinessInfo `yaml:"business_info"`
}

// Data is the full set of default documents.
type Data struct {
	Products     []model.Product
	Combos       []model.Combo
	BusinessInfo model.BusinessInfo
}

// Parse decodes a defaults document in the embedded YAML layout.
func Parse(raw []byte) (Data, error) {
	var y yamlDefaults
	if err := yaml.Unmarshal(raw, &y); err != nil {
		return Data{}, fmt.Errorf("parse defaults: %w", err)
	}

	var d Data
	for _, p := range y.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return Data{}, fmt.Errorf("product %s price: %w", p.ID, err)
		}
		d.Products = append(d.Products, model.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Category:    enum.Category(p.Category),
			ImageURL:    p.ImageURL,
		})
	}
	for _, c := range y.Combos {
		price, err := decimal.NewFromString(c.Price)
		if err != nil {
			return Data{}, fmt.Errorf("combo %s price: %w", c.ID, err)
		}
		items := make([]model.ComboItem, 0, len(c.Items))
		for _, it := range c.Items {
			items = append(items, model.ComboItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		d.Combos = append(d.Combos, model.Combo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Price:       price,
			Items:       items,
			ImageURL:    c.ImageURL,
		})
	}
	b := y.BusinessInfo
	d.BusinessInfo = model.BusinessInfo{
		Name:         b.Name,
		Address:      b.Address,
		Phone:        b.Phone,
		WhatsApp:     b.WhatsApp,
		Instagram:    b.Instagram,
		Facebook:     b.Facebook,
		TikTok:       b.TikTok,
		Twitter:      b.Twitter,
		YouTube:      b.YouTube,
		OpeningHours: b.OpeningHours,
		PixKey:       b.PixKey,
	}
	return d, nil
}

// Defaults returns a fresh copy of the built-in documents. The embedded
// file is part of the binary, so a parse failure is a programming error.
func Defaults() Data {
	d, err := Parse(defaultsYAML)
	if err != nil {
		panic(err)
	}
	return d
}

// Apply writes the default documents and an empty order history into
// port. Existing documents are kept unless force is set. It returns the
// keys it wrote.
func Apply(ctx context.Context, port storage.Port, namespace string, force bool) ([]string, error) {
	d := Defaults()
	docs := []struct {
		name string
		v    any
	}{
		{storage.DocProducts, d.Products},
		{storage.DocCombos, d.Combos},
		{storage.DocBusinessInfo, d.BusinessInfo},
		{storage.DocOrderHistory, []model.Order{}},
		{storage.DocFeedbacks, []model.Feedback{}},
	}

	var written []string
	for _, doc := range docs {
		key := storage.Key(namespace, doc.name)
		if !force {
			_, err := port.Read(ctx, key)
			if err == nil {
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return written, fmt.Errorf("check %s: %w", key, err)
			}
		}
		data, err := json.Marshal(doc.v)
		if err != nil {
			return written, fmt.Errorf("encode %s: %w", key, err)
		}
		if err := port.Write(ctx, key, data); err != nil {
			return written, fmt.Errorf("write %s: %w", key, err)
		}
		written = append(written, key)
	}
	return written, nil
}
