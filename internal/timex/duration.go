// Package timex holds time helpers shared by the server and the client:
// a Duration that reads from JSON, environment variables and flags, and an
// injectable Clock.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is not provided by package time.
const Day = 24 * time.Hour

// Duration wraps time.Duration so it can be configured as "8h", "7d", "30d"
// or as an integer amount of nanoseconds.
type Duration struct {
	Duration time.Duration
}

// ParseDuration accepts everything time.ParseDuration does plus a whole
// number of days with a "d" suffix.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * Day, nil
	}
	return time.ParseDuration(s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// SetValue lets cleanenv fill a Duration from an environment variable.
func (d *Duration) SetValue(s string) error {
	return d.Set(s)
}

// Set implements flag.Value.
func (d *Duration) Set(s string) error {
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d *Duration) String() string {
	if d == nil {
		return "0s"
	}
	return d.Duration.String()
}
