package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PixConfirmer accepts the customer's "I already paid" after a fixed
// wait. No bank is consulted.
type PixConfirmer interface {
	ConfirmPix(ctx context.Context) (Result, error)
}

type SimulatedPix struct {
	Delay time.Duration
}

func NewSimulatedPix(delay time.Duration) *SimulatedPix {
	return &SimulatedPix{Delay: delay}
}

func (s *SimulatedPix) ConfirmPix(ctx context.Context) (Result, error) {
	if err := wait(ctx, s.Delay); err != nil {
		return Result{}, err
	}
	return Result{Success: true, TransactionID: "pix_" + uuid.NewString()}, nil
}
