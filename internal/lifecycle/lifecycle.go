// Package lifecycle defines how an order's status moves per fulfillment
// type and how far along the status bar an order is.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/KaduPegasus/Frango-supremo/internal/enum"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownOrderType  = errors.New("unknown order type")
)

var sequences = map[enum.OrderType][]enum.OrderStatus{
	enum.OrderTypePickup: {
		enum.OrderStatusReceived,
		enum.OrderStatusPreparing,
		enum.OrderStatusReadyForPickup,
		enum.OrderStatusCompleted,
	},
	enum.OrderTypeDelivery: {
		enum.OrderStatusReceived,
		enum.OrderStatusPreparing,
		enum.OrderStatusOutForDelivery,
		enum.OrderStatusDelivered,
		enum.OrderStatusCompleted,
	},
}

type edge struct {
	event enum.OrderEvent
	to    enum.OrderStatus
}

// allowedTransitions is keyed by order type then current status. Edges
// are listed in the order their actions are offered.
var allowedTransitions = map[enum.OrderType]map[enum.OrderStatus][]edge{
	enum.OrderTypePickup: {
		enum.OrderStatusReceived:       {{enum.EventStartPreparing, enum.OrderStatusPreparing}},
		enum.OrderStatusPreparing:      {{enum.EventMarkReady, enum.OrderStatusReadyForPickup}},
		enum.OrderStatusReadyForPickup: {{enum.EventComplete, enum.OrderStatusCompleted}},
	},
	enum.OrderTypeDelivery: {
		enum.OrderStatusReceived: {
			{enum.EventStartPreparing, enum.OrderStatusPreparing},
			{enum.EventStartDelivery, enum.OrderStatusOutForDelivery},
		},
		enum.OrderStatusPreparing:      {{enum.EventStartDelivery, enum.OrderStatusOutForDelivery}},
		enum.OrderStatusOutForDelivery: {{enum.EventConfirmDelivery, enum.OrderStatusDelivered}},
		enum.OrderStatusDelivered:      {{enum.EventComplete, enum.OrderStatusCompleted}},
	},
}

// Sequence returns the status steps for an order type, or nil.
func Sequence(t enum.OrderType) []enum.OrderStatus {
	seq := sequences[t]
	if seq == nil {
		return nil
	}
	return append([]enum.OrderStatus(nil), seq...)
}

// Next applies event to an order of type t currently at status.
func Next(t enum.OrderType, status enum.OrderStatus, event enum.OrderEvent) (enum.OrderStatus, error) {
	table, ok := allowedTransitions[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrderType, t)
	}
	for _, e := range table[status] {
		if e.event == event {
			return e.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s on %s order at %q", ErrInvalidTransition, event, t, status)
}

// Actions lists the events accepted from status.
func Actions(t enum.OrderType, status enum.OrderStatus) []enum.OrderEvent {
	edges := allowedTransitions[t][status]
	actions := make([]enum.OrderEvent, 0, len(edges))
	for _, e := range edges {
		actions = append(actions, e.event)
	}
	return actions
}

// Terminal reports whether no further event applies.
func Terminal(t enum.OrderType, status enum.OrderStatus) bool {
	return len(allowedTransitions[t][status]) == 0
}

type Step struct {
	Status  enum.OrderStatus `json:"status"`
	Done    bool             `json:"done"`
	Current bool             `json:"current"`
}

// Progress is the status bar for one order.
type Progress struct {
	Index   int     `json:"index"`
	Percent float64 `json:"percent"`
	Steps   []Step  `json:"steps"`
}

// ProgressOf locates status in the order type's sequence. A status that
// is not part of the sequence gives index -1, 0% and no completed steps.
func ProgressOf(t enum.OrderType, status enum.OrderStatus) Progress {
	seq := sequences[t]
	idx := -1
	for i, s := range seq {
		if s == status {
			idx = i
			break
		}
	}

	p := Progress{Index: idx, Steps: make([]Step, 0, len(seq))}
	if idx > 0 && len(seq) > 1 {
		p.Percent = float64(idx*100) / float64(len(seq)-1)
	}
	for i, s := range seq {
		p.Steps = append(p.Steps, Step{Status: s, Done: idx >= 0 && i <= idx, Current: i == idx})
	}
	return p
}
