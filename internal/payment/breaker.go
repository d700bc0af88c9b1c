package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/KaduPegasus/Frango-supremo/internal/metrics"
)

// ErrGatewayUnavailable is returned while the breaker is open or probing.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Gateway routes card and Pix calls through one circuit breaker. Declines
// count as successful calls. A caller giving up (cancelled or expired
// context) is not held against the processor; any other error is.
type Gateway struct {
	card CardProcessor
	pix  PixConfirmer
	cb   *gobreaker.CircuitBreaker
	name string
}

func NewGateway(name string, card CardProcessor, pix PixConfirmer, log logrus.FieldLogger) *Gateway {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || callerGaveUp(err)
		},
		OnStateChange: func(cbName string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(cbName).Set(stateValue(to))
			log.WithFields(logrus.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("payment circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return &Gateway{card: card, pix: pix, cb: cb, name: name}
}

func callerGaveUp(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

func (g *Gateway) ProcessCard(ctx context.Context, d CardDetails) (Result, error) {
	return g.execute(func() (Result, error) { return g.card.ProcessCard(ctx, d) })
}

func (g *Gateway) ConfirmPix(ctx context.Context) (Result, error) {
	return g.execute(func() (Result, error) { return g.pix.ConfirmPix(ctx) })
}

// State is the breaker state name, for health output.
func (g *Gateway) State() string {
	return g.cb.State().String()
}

func (g *Gateway) execute(fn func() (Result, error)) (Result, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if !callerGaveUp(err) {
			metrics.CircuitBreakerFailures.WithLabelValues(g.name).Inc()
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, fmt.Errorf("%w: circuit %s: %v", ErrGatewayUnavailable, g.name, err)
		}
		return Result{}, err
	}
	return out.(Result), nil
}
