package seed_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/KaduPegasus/Frango-supremo/internal/seed"
	"github.com/KaduPegasus/Frango-supremo/internal/storage"
)

func TestDefaults(t *testing.T) {
	d := seed.Defaults()

	if len(d.Products) != 7 {
		t.Fatalf("products: got %d, want 7", len(d.Products))
	}
	if len(d.Combos) != 2 {
		t.Fatalf("combos: got %d, want 2", len(d.Combos))
	}

	first := d.Products[0]
	if first.ID != "frango_assado_inteiro" || first.Name != "Frango Supremo Clássico" {
		t.Errorf("first product: got %s %q", first.ID, first.Name)
	}
	if !first.Price.Equal(decimal.NewFromInt(48)) {
		t.Errorf("first price: got %s, want 48", first.Price)
	}
	if first.Category != "Frango" {
		t.Errorf("category: got %q", first.Category)
	}
	for _, p := range d.Products {
		if !p.Category.Valid() {
			t.Errorf("product %s has unknown category %q", p.ID, p.Category)
		}
	}

	familia := d.Combos[1]
	if familia.ID != "combo_familia" || !familia.Price.Equal(decimal.NewFromInt(95)) {
		t.Errorf("combo_familia: got %s %s", familia.ID, familia.Price)
	}
	if len(familia.Items) != 4 || familia.Items[1].ProductID != "arroz_branco" || familia.Items[1].Quantity != 2 {
		t.Errorf("combo_familia items: %+v", familia.Items)
	}

	info := d.BusinessInfo
	if info.WhatsApp != "5511912345678" {
		t.Errorf("whatsapp: got %q", info.WhatsApp)
	}
	lines := info.OpeningHoursLines()
	if len(lines) != 2 || lines[1] != "10:00 - 15:00" {
		t.Errorf("opening hours: got %q", lines)
	}
}

func TestDefaultsReturnsFreshCopies(t *testing.T) {
	a := seed.Defaults()
	a.Combos[0].Items[0].Quantity = 99
	b := seed.Defaults()
	if b.Combos[0].Items[0].Quantity != 1 {
		t.Error("Defaults shares state between calls")
	}
}

func TestParseRejectsBadPrice(t *testing.T) {
	_, err := seed.Parse([]byte("products:\n  - id: x\n    price: abc\n"))
	if err == nil {
		t.Fatal("expected error for non-numeric price")
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	key := storage.Key("ns", storage.DocBusinessInfo)
	mem.Write(ctx, key, []byte(`{"name":"Custom"}`))

	written, err := seed.Apply(ctx, mem, "ns", false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(written) != 4 {
		t.Errorf("written: got %v, want 4 keys", written)
	}
	got, _ := mem.Read(ctx, key)
	if string(got) != `{"name":"Custom"}` {
		t.Errorf("existing document overwritten without force: %s", got)
	}

	written, err = seed.Apply(ctx, mem, "ns", true)
	if err != nil {
		t.Fatalf("apply force: %v", err)
	}
	if len(written) != 5 {
		t.Errorf("forced written: got %d, want 5", len(written))
	}
	got, _ = mem.Read(ctx, key)
	if string(got) == `{"name":"Custom"}` {
		t.Error("force did not overwrite business info")
	}
}
