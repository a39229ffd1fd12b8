package timeutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClockTime is a time of day with minute resolution, independent of any date.
type ClockTime struct {
	Hour   int
	Minute int
}

// NewClock builds a ClockTime, normalising the minute overflow into hours
// and wrapping hours modulo 24.
func NewClock(hour, minute int) ClockTime {
	total := hour*60 + minute
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	return ClockTime{Hour: total / 60, Minute: total % 60}
}

// ParseClock parses "HH:MM" into a ClockTime.
func ParseClock(raw string) (ClockTime, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", raw)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &h, &m); err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("clock time %q out of range", raw)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// String renders the canonical "HH:MM" form.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns minutes elapsed since midnight.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t ClockTime) Before(other ClockTime) bool {
	return t.Minutes() < other.Minutes()
}

// After reports whether t is later in the day than other.
func (t ClockTime) After(other ClockTime) bool {
	return t.Minutes() > other.Minutes()
}

// AddHours adds a fractional hour offset, wrapping modulo 24 hours. The day
// boundary is not tracked; callers never schedule across midnight.
func (t ClockTime) AddHours(hours float64) ClockTime {
	return NewClock(t.Hour, t.Minute+int(hours*60))
}

// HoursUntil returns the span from t to end in hours. An end earlier than t
// is treated as belonging to the next day.
func (t ClockTime) HoursUntil(end ClockTime) float64 {
	diff := end.Minutes() - t.Minutes()
	if diff < 0 {
		diff += 24 * 60
	}
	return float64(diff) / 60.0
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an "HH:MM" string.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
