package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const dateOnly = "2006-01-02"

// FlexibleTime accepts an RFC 3339 timestamp or a plain calendar date.
type FlexibleTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseFlexibleTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// ParseFlexibleTime parses RFC 3339 or YYYY-MM-DD (as UTC midnight).
func ParseFlexibleTime(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed.UTC(), nil
	}
	if parsed, err := time.Parse(dateOnly, raw); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// Ptr returns the wrapped time, or nil for a nil receiver.
func (t *FlexibleTime) Ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}
