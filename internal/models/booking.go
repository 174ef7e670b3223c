package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Booking represents a single table reservation.
type Booking struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"` // normalized digit string
	Email     string    `json:"email"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // HH:MM, one of the generated slots
	PartySize int       `json:"party_size"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StartsAt combines Date and Time into a timestamp in the given location.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return CombineDateTime(b.Date, b.Time, loc)
}

// SlotKey returns the (date, time) pair used for capacity accounting.
func (b *Booking) SlotKey() string {
	return b.Date + " " + b.Time
}

// CombineDateTime parses a YYYY-MM-DD date and HH:MM time into one timestamp.
func CombineDateTime(date, timeStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid hour: %w", err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid minute: %w", err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %s", timeStr)
	}

	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// NormalizePhone strips everything but digits from a phone string.
func NormalizePhone(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
