// Package store holds the ordered booking collection and answers
// capacity queries against it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"littlelemon/internal/models"
	"littlelemon/internal/storage"
)

// StorageKey is the slot the serialized booking sequence lives under.
const StorageKey = "littleLemonBookings"

// DefaultCapacity is the number of tables available per (date, time) slot.
const DefaultCapacity = 6

// Store is the in-memory booking sequence, newest-created first,
// persisted in full after every mutation.
type Store struct {
	kv       storage.KV
	key      string
	capacity int
	location *time.Location
	logger   *zerolog.Logger

	mu       sync.RWMutex
	bookings []models.Booking
}

// New creates an empty store over kv. Call Load before first use.
func New(kv storage.KV, capacity int, loc *time.Location, logger *zerolog.Logger) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		kv:       kv,
		key:      StorageKey,
		capacity: capacity,
		location: loc,
		logger:   logger,
	}
}

// Load reads the persisted sequence. A missing key or malformed
// document degrades to an empty store; only storage transport errors
// are returned.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.kv.Get(ctx, s.key)
	if err == storage.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	var bookings []models.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		s.logger.Warn().Err(err).Msg("stored bookings malformed, starting empty")
		return nil
	}

	s.mu.Lock()
	s.bookings = bookings
	s.mu.Unlock()
	return nil
}

// Add prepends the booking and persists the full sequence.
func (s *Store) Add(ctx context.Context, b models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookings = append([]models.Booking{b}, s.bookings...)
	if err := s.persistLocked(ctx); err != nil {
		// Roll back so memory and storage stay in step.
		s.bookings = s.bookings[1:]
		return err
	}
	return nil
}

// Remove deletes the booking with the given id. Removing an unknown id
// is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bookings {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := s.bookings[idx]
	s.bookings = append(s.bookings[:idx], s.bookings[idx+1:]...)
	if err := s.persistLocked(ctx); err != nil {
		s.bookings = append(s.bookings[:idx], append([]models.Booking{removed}, s.bookings[idx:]...)...)
		return err
	}
	return nil
}

// Find returns the booking with the given id, if present.
func (s *Store) Find(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// CountBookings counts bookings matching the exact (date, time) pair.
func (s *Store) CountBookings(date, timeSlot string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countLocked(date, timeSlot)
}

// AvailableTables returns how many tables remain for the slot. Never
// negative, even when historical data exceeds the current capacity.
func (s *Store) AvailableTables(date, timeSlot string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	available := s.capacity - s.countLocked(date, timeSlot)
	if available < 0 {
		return 0
	}
	return available
}

// Upcoming returns bookings starting at or after now, in store order,
// truncated to limit. Bookings whose date or time no longer parse are
// skipped rather than shown with a bogus position.
func (s *Store) Upcoming(now time.Time, limit int) []models.Booking {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Booking, 0, limit)
	for _, b := range s.bookings {
		startsAt, err := b.StartsAt(s.location)
		if err != nil || startsAt.Before(now) {
			continue
		}
		result = append(result, b)
		if len(result) == limit {
			break
		}
	}
	return result
}

// All returns a copy of the full sequence, newest-created first.
func (s *Store) All() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking(nil), s.bookings...)
}

// Len returns the number of stored bookings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

// Capacity returns the per-slot table capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Location returns the restaurant's time zone.
func (s *Store) Location() *time.Location {
	return s.location
}

func (s *Store) countLocked(date, timeSlot string) int {
	count := 0
	for _, b := range s.bookings {
		if b.Date == date && b.Time == timeSlot {
			count++
		}
	}
	return count
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.bookings)
	if err != nil {
		return fmt.Errorf("marshal bookings: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist bookings: %w", err)
	}
	return nil
}
