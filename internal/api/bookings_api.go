package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"littlelemon/internal/export"
	"littlelemon/internal/metrics"
	"littlelemon/internal/models"
	"littlelemon/internal/service"
)

// SubmitResponse is the response for POST /api/bookings.
type SubmitResponse struct {
	Success bool                    `json:"success"`
	Booking *models.Booking         `json:"booking,omitempty"`
	Errors  models.ValidationErrors `json:"errors,omitempty"`
}

// handleBookings creates or cancels bookings.
// POST /api/bookings, DELETE /api/bookings?id=<id>
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodDelete:
		s.handleCancel(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("submit")

	if !s.submitLimit.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many requests; try again shortly")
		return
	}

	var candidate service.Candidate
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&candidate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, validationErrs, err := s.service.Submit(r.Context(), candidate)
	if err != nil {
		s.logger.Error().Err(err).Msg("submit failed")
		writeError(w, http.StatusInternalServerError, "could not save booking")
		return
	}
	if !validationErrs.Empty() {
		writeJSON(w, http.StatusUnprocessableEntity, SubmitResponse{
			Success: false,
			Errors:  validationErrs,
		})
		return
	}

	writeJSON(w, http.StatusCreated, SubmitResponse{
		Success: true,
		Booking: booking,
	})
}

func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("cancel")

	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.service.Cancel(r.Context(), id); err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("cancel failed")
		writeError(w, http.StatusInternalServerError, "could not cancel booking")
		return
	}

	// Cancellation is idempotent; an unknown id still returns 204.
	w.WriteHeader(http.StatusNoContent)
}

// handleUpcoming returns bookings starting at or after now.
// GET /api/bookings/upcoming?limit=N
func (s *HTTPServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("upcoming")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := s.upcomingCap
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	bookings := s.service.Upcoming(limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// handleExport streams the full booking list as an Excel workbook.
// GET /api/bookings/export
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filename := "bookings-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteBookings(w, s.service.AllBookings()); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
	}
}
