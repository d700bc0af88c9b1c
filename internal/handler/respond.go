package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/cart"
	"github.com/KaduPegasus/Frango-supremo/internal/catalog"
	"github.com/KaduPegasus/Frango-supremo/internal/lifecycle"
	"github.com/KaduPegasus/Frango-supremo/internal/payment"
	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names in messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes the body into dst and runs its validate tags. The
// returned error is safe to show to the caller.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return validationMessage(verrs[0])
		}
		return errors.New("invalid request body")
	}
	return nil
}

func validationMessage(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Errorf("%s must be >= %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be <= %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

// writeError maps service errors onto status codes. Anything unmapped is
// logged with op and answered with a generic 500.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, op string, err error) {
	var decline *service.DeclineError
	switch {
	case errors.As(err, &decline):
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"error": decline.Message})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case service.IsConflict(err) || errors.Is(err, lifecycle.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, payment.ErrGatewayUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "payment service temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		log.WithError(err).Warn(op)
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request cancelled"})
	default:
		log.WithError(err).Error(op)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return service.IsValidationError(err) ||
		catalog.IsValidationError(err) ||
		errors.Is(err, cart.ErrInvalidQuantity)
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrSessionNotFound) ||
		errors.Is(err, service.ErrOrderNotFound) ||
		errors.Is(err, service.ErrNoActiveOrder) ||
		errors.Is(err, service.ErrNoPendingOrder) ||
		errors.Is(err, catalog.ErrProductNotFound) ||
		errors.Is(err, catalog.ErrComboNotFound)
}
