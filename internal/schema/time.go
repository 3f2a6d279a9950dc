package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Time is a timestamp accepted from query strings and JSON bodies.
// RFC 3339 timestamps and plain YYYY-MM-DD dates are both understood.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(src string) (time.Time, error) {
	src = strings.TrimSpace(src)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, src); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a valid ISO 8601 date", src)
}

// UnmarshalParam implements echo.BindUnmarshaler
func (t *Time) UnmarshalParam(src string) error {
	if src == "" {
		return nil
	}
	parsed, err := parseTime(src)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t *Time) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var src string
	if err := json.Unmarshal(b, &src); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return t.UnmarshalParam(src)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time)
}

// NewTime wraps t
func NewTime(t time.Time) Time {
	return Time{Time: t}
}
