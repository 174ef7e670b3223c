// Package service implements booking admission, cancellation and the
// upcoming-bookings view.
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"littlelemon/internal/events"
	"littlelemon/internal/metrics"
	"littlelemon/internal/models"
	"littlelemon/internal/slots"
	"littlelemon/internal/store"
)

// Phone numbers must normalize to this many digits.
const (
	MinPhoneDigits = 7
	MaxPhoneDigits = 15
)

// emailPattern accepts local@domain.tld with no embedded whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Candidate is a submitted reservation before admission.
type Candidate struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	PartySize int    `json:"party_size"`
	Notes     string `json:"notes"`
}

// Rules bundles the admission limits.
type Rules struct {
	MinPartySize int
	MaxPartySize int
	GraceWindow  time.Duration
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingService admits, cancels and lists reservations.
type BookingService struct {
	store  *store.Store
	grid   []string
	rules  Rules
	bus    EventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewBookingService wires the service. now is the injectable clock so
// admission is deterministic under test; nil means time.Now.
func NewBookingService(st *store.Store, grid []string, rules Rules, bus EventPublisher, logger *zerolog.Logger, now func() time.Time) *BookingService {
	if rules.MinPartySize <= 0 {
		rules.MinPartySize = 1
	}
	if rules.MaxPartySize <= 0 {
		rules.MaxPartySize = 12
	}
	if rules.GraceWindow <= 0 {
		rules.GraceWindow = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		store:  st,
		grid:   grid,
		rules:  rules,
		bus:    bus,
		logger: logger,
		now:    now,
	}
}

// Slots returns the bookable time grid.
func (s *BookingService) Slots() []string {
	return s.grid
}

// SlotAvailability is the remaining table count for one slot.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available int    `json:"available"`
}

// Availability returns the remaining tables for every slot on a date.
func (s *BookingService) Availability(date string) []SlotAvailability {
	result := make([]SlotAvailability, 0, len(s.grid))
	for _, slot := range s.grid {
		result = append(result, SlotAvailability{
			Time:      slot,
			Available: s.store.AvailableTables(date, slot),
		})
	}
	return result
}

// Submit validates the candidate and, when every rule passes, creates
// the booking and persists it. All rules are evaluated so the returned
// map carries every violated field at once. A non-nil error means the
// write failed, not that validation did.
func (s *BookingService) Submit(ctx context.Context, c Candidate) (*models.Booking, models.ValidationErrors, error) {
	now := s.now()
	errs := s.validate(c, now)
	if !errs.Empty() {
		for field := range errs {
			metrics.IncValidationFailed(field)
		}
		return nil, errs, nil
	}

	booking := models.Booking{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(c.Name),
		Phone:     models.NormalizePhone(c.Phone),
		Email:     strings.TrimSpace(c.Email),
		Date:      c.Date,
		Time:      c.Time,
		PartySize: c.PartySize,
		Notes:     strings.TrimSpace(c.Notes),
		CreatedAt: now,
	}

	if err := s.store.Add(ctx, booking); err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBookingCreated()
	metrics.SetStoredBookings(s.store.Len())
	if s.bus != nil {
		if err := s.bus.PublishJSON(events.TypeBookingCreated, &booking); err != nil {
			s.logger.Warn().Err(err).Msg("publish booking.created failed")
		}
	}
	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("date", booking.Date).
		Str("time", booking.Time).
		Int("party_size", booking.PartySize).
		Msg("booking created")

	return &booking, nil, nil
}

// Cancel removes the booking with the given id. Cancelling an unknown
// id is a no-op; removal is immediate and irreversible.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	booking, found := s.store.Find(id)
	if !found {
		return nil
	}

	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}

	metrics.IncBookingCancelled()
	metrics.SetStoredBookings(s.store.Len())
	if s.bus != nil {
		if err := s.bus.PublishJSON(events.TypeBookingCancelled, &booking); err != nil {
			s.logger.Warn().Err(err).Msg("publish booking.cancelled failed")
		}
	}
	s.logger.Info().Str("booking_id", id).Msg("booking cancelled")
	return nil
}

// Upcoming returns bookings starting at or after now, store order,
// truncated to limit.
func (s *BookingService) Upcoming(limit int) []models.Booking {
	return s.store.Upcoming(s.now(), limit)
}

// AllBookings returns the full stored sequence, newest-created first.
func (s *BookingService) AllBookings() []models.Booking {
	return s.store.All()
}

func (s *BookingService) validate(c Candidate, now time.Time) models.ValidationErrors {
	errs := models.ValidationErrors{}

	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", models.ErrEmptyField, "Please enter a name")
	}

	digits := models.NormalizePhone(c.Phone)
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		errs.Add("phone", models.ErrInvalidPhone, "Please enter a valid phone number")
	}

	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		errs.Add("email", models.ErrInvalidEmail, "Please enter a valid email address")
	}

	startsAt, err := models.CombineDateTime(c.Date, c.Time, s.store.Location())
	if err != nil || startsAt.Before(now.Add(-s.rules.GraceWindow)) {
		errs.Add("date", models.ErrPastDateTime, "Please choose a date and time in the future")
	}

	if c.PartySize < s.rules.MinPartySize || c.PartySize > s.rules.MaxPartySize {
		errs.Add("party_size", models.ErrInvalidPartySize,
			fmt.Sprintf("Party size must be between %d and %d", s.rules.MinPartySize, s.rules.MaxPartySize))
	}

	// Off-grid times are never bookable; on-grid times need a free table.
	if !slots.Contains(s.grid, c.Time) || s.store.AvailableTables(c.Date, c.Time) == 0 {
		errs.Add("time", models.ErrSlotFull, "No tables left for this time, please pick another slot")
	}

	return errs
}
