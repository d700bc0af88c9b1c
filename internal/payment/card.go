// Package payment simulates the online payment rails. Nothing here talks
// to a real network: card approval is decided by the card number and Pix
// confirmation is taken on the customer's word after a short wait.
package payment

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer-facing decline messages.
const (
	MsgMissingFields = "Por favor, preencha todos os campos do cartão."
	MsgInvalidNumber = "Número do cartão parece ser inválido."
	MsgDeclined      = "Pagamento recusado pela operadora. Verifique os dados do cartão ou tente outro."
)

const minCardDigits = 13

// CardDetails is one card payment attempt.
type CardDetails struct {
	CardholderName string          `json:"cardholder_name"`
	CardNumber     string          `json:"card_number"`
	ExpiryDate     string          `json:"expiry_date"`
	CVC            string          `json:"cvc"`
	Amount         decimal.Decimal `json:"amount"`
}

// Result is the processor's answer. A decline is a Result with Success
// false, not an error; errors mean the attempt never got an answer.
type Result struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// CardProcessor charges a card.
type CardProcessor interface {
	ProcessCard(ctx context.Context, d CardDetails) (Result, error)
}

// SimulatedCard approves any well-formed card whose number ends in 4242.
type SimulatedCard struct {
	Delay time.Duration
}

func NewSimulatedCard(delay time.Duration) *SimulatedCard {
	return &SimulatedCard{Delay: delay}
}

func (s *SimulatedCard) ProcessCard(ctx context.Context, d CardDetails) (Result, error) {
	if err := wait(ctx, s.Delay); err != nil {
		return Result{}, err
	}
	return decideCard(d), nil
}

func decideCard(d CardDetails) Result {
	if strings.TrimSpace(d.CardholderName) == "" || strings.TrimSpace(d.CardNumber) == "" ||
		strings.TrimSpace(d.ExpiryDate) == "" || strings.TrimSpace(d.CVC) == "" {
		return Result{Error: MsgMissingFields}
	}
	number := stripSpaces(d.CardNumber)
	if len(number) < minCardDigits {
		return Result{Error: MsgInvalidNumber}
	}
	if !strings.HasSuffix(number, "4242") {
		return Result{Error: MsgDeclined}
	}
	return Result{Success: true, TransactionID: "txn_" + uuid.NewString()}
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// MaskCard keeps only the last four digits, for logs.
func MaskCard(number string) string {
	n := stripSpaces(number)
	if len(n) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
