// Package slots generates the bookable time-of-day grid.
package slots

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults for the reservation grid.
const (
	DefaultOpen  = "11:00"
	DefaultClose = "22:00"
	DefaultStep  = 30
)

// Generate returns the ordered list of "HH:MM" slots between open and
// close, stepping by stepMinutes. Both bounds are included when close
// lands exactly on the grid. close <= open yields at most one slot;
// there is no error path, malformed bounds yield nil.
func Generate(open, close string, stepMinutes int) []string {
	if stepMinutes <= 0 {
		stepMinutes = DefaultStep
	}

	start, err := parseMinutes(open)
	if err != nil {
		return nil
	}
	end, err := parseMinutes(close)
	if err != nil {
		return nil
	}

	var result []string
	for cursor := start; cursor <= end; cursor += stepMinutes {
		result = append(result, formatMinutes(cursor))
	}
	return result
}

// Contains reports whether slot is on the generated grid.
func Contains(grid []string, slot string) bool {
	for _, s := range grid {
		if s == slot {
			return true
		}
	}
	return false
}

func parseMinutes(timeStr string) (int, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", timeStr)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %s", timeStr)
	}

	return hour*60 + minute, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
