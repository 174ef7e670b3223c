// Package api exposes the reservation service over HTTP. It is the
// process boundary the booking UI talks to; all domain rules live in
// the service layer.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"littlelemon/internal/service"
)

// HTTPServer serves the reservation API.
type HTTPServer struct {
	service     *service.BookingService
	logger      *zerolog.Logger
	submitLimit *rate.Limiter
	upcomingCap int
}

// New creates the server. submitPerMinute bounds booking submissions
// across all clients.
func New(svc *service.BookingService, submitPerMinute, upcomingCap int, logger *zerolog.Logger) *HTTPServer {
	if submitPerMinute <= 0 {
		submitPerMinute = 30
	}
	if upcomingCap <= 0 {
		upcomingCap = 50
	}
	return &HTTPServer{
		service:     svc,
		logger:      logger,
		submitLimit: rate.NewLimiter(rate.Limit(float64(submitPerMinute)/60.0), submitPerMinute),
		upcomingCap: upcomingCap,
	}
}

// Routes returns the API handler.
func (s *HTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/upcoming", s.handleUpcoming)
	mux.HandleFunc("/api/bookings/export", s.handleExport)
	return mux
}

// Start runs the server until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("API server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
