package service

import (
	"errors"
	"fmt"
)

// Errors returned by the storefront services.
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrCustomerNameRequired = errors.New("customer_name is required")
	ErrPhoneRequired        = errors.New("phone is required")
	ErrInvalidOrderType     = errors.New("invalid order_type")
	ErrAddressRequired      = errors.New("address is required for delivery orders")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrChangeNotAllowed     = errors.New("change_for is only accepted for cash payments")
	ErrChangeTooLow         = errors.New("change_for must be >= order total")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidEvent         = errors.New("invalid event")
	ErrInvalidRating        = errors.New("rating must be between 0 and 5")
	ErrEmptyFeedback        = errors.New("a rating or a message is required")
	ErrBusinessNameRequired = errors.New("business name is required")
	ErrInvalidDateRange     = errors.New("start must be before end")

	ErrNoPendingOrder     = errors.New("no pending payment for this session")
	ErrWrongPaymentMethod = errors.New("pending order uses a different payment method")
	ErrPaymentInProgress  = errors.New("a payment attempt is already in progress")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrNotInQueue         = errors.New("order is not in the delivery queue")
)

// DeclineError carries the customer-facing decline message. It matches
// ErrPaymentDeclined under errors.Is.
type DeclineError struct {
	Message string
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPaymentDeclined, e.Message)
}

func (e *DeclineError) Is(target error) bool {
	return target == ErrPaymentDeclined
}

// IsValidationError reports whether err was caused by bad caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrCustomerNameRequired) ||
		errors.Is(err, ErrPhoneRequired) ||
		errors.Is(err, ErrInvalidOrderType) ||
		errors.Is(err, ErrAddressRequired) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrChangeNotAllowed) ||
		errors.Is(err, ErrChangeTooLow) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidEvent) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrEmptyFeedback) ||
		errors.Is(err, ErrBusinessNameRequired) ||
		errors.Is(err, ErrInvalidDateRange)
}

// IsConflict reports whether err is a state conflict (HTTP 409).
func IsConflict(err error) bool {
	return errors.Is(err, ErrWrongPaymentMethod) ||
		errors.Is(err, ErrPaymentInProgress) ||
		errors.Is(err, ErrNotInQueue)
}
