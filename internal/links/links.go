// Package links builds the outbound URLs the storefront hands to clients
// (WhatsApp, Google Maps, social sharing, QR images) and renders Pix QR
// codes locally.
package links

import (
	"bytes"
	"fmt"
	"image/png"
	"net/url"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// DefaultBaseURL is the public storefront address used in share links.
const DefaultBaseURL = "https://frangosupremo.com"

// encode escapes s for a query value the way browsers' encodeURIComponent
// does for spaces.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// WhatsAppChat opens a chat with number; non-digits are dropped.
func WhatsAppChat(number string) string {
	return "https://wa.me/" + digits(number)
}

// WhatsAppText opens WhatsApp with a prefilled message and no recipient.
func WhatsAppText(text string) string {
	return "https://wa.me/?text=" + encode(text)
}

func MapsSearch(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + encode(address)
}

func MapsEmbed(lat, lng float64) string {
	return fmt.Sprintf("https://maps.google.com/maps?ll=%g,%g&z=15&output=embed&t=m", lat, lng)
}

// Tel is a dialable link; only digits and a leading + survive.
func Tel(phone string) string {
	p := strings.TrimSpace(phone)
	prefix := ""
	if strings.HasPrefix(p, "+") {
		prefix = "+"
	}
	return "tel:" + prefix + digits(p)
}

func ProductURL(baseURL, productID string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/product/" + url.PathEscape(productID)
}

// Share holds the share targets for one product.
type Share struct {
	URL      string `json:"url"`
	WhatsApp string `json:"whatsapp"`
	Facebook string `json:"facebook"`
	Twitter  string `json:"twitter"`
}

func ShareProduct(baseURL, productID, productName string) Share {
	productURL := ProductURL(baseURL, productID)
	text := encode(fmt.Sprintf("Confira este produto delicioso: %s!", productName))
	return Share{
		URL:      productURL,
		WhatsApp: "https://wa.me/?text=" + text + "%20" + encode(productURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + encode(productURL),
		Twitter:  "https://twitter.com/intent/tweet?url=" + encode(productURL) + "&text=" + text,
	}
}

// QRImageURL points at the public QR rendering endpoint for data.
func QRImageURL(data string, size int) string {
	return fmt.Sprintf("https://api.qrserver.com/v1/create-qr-code/?size=%dx%d&data=%s", size, size, encode(data))
}

// PixPayload is the text encoded in the Pix QR: the key, plus the amount
// when positive.
func PixPayload(key string, amount decimal.Decimal) string {
	if amount.IsPositive() {
		return fmt.Sprintf("pix:%s?amount=%s", key, amount.StringFixed(2))
	}
	return "pix:" + key
}

// QRCodePNG renders content as a square PNG of size pixels.
func QRCodePNG(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
