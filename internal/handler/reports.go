package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/KaduPegasus/Frango-supremo/internal/service"
)

// ReportServicer is satisfied by *service.Reports.
type ReportServicer interface {
	Summary(from, to time.Time, limit int) (service.Summary, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	svc ReportServicer
	log logrus.FieldLogger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(svc ReportServicer, log logrus.FieldLogger) *ReportsHandler {
	return &ReportsHandler{svc: svc, log: log}
}

// RegisterRoutes registers report endpoints.
// Expected to be mounted at /admin/reports.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
}

// Summary aggregates order history over an optional date range.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Parse limit parameter
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	summary, err := h.svc.Summary(startDate, endDate, limit)
	if err != nil {
		writeError(w, h.log, "report summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// --- Helpers ---

// parseDateRange parses start_date and end_date query params in São Paulo
// time. A missing bound is returned as the zero time (open range).
// endDate is exclusive (next day midnight).
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*3600)
	}

	var startDate, endDate time.Time
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		startDate = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		// Make end_date exclusive by adding 1 day
		endDate = t.AddDate(0, 0, 1)
	}

	if !startDate.IsZero() && !endDate.IsZero() && !startDate.Before(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be before end_date")
	}

	return startDate, endDate, nil
}
