package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Wire layouts for the calendar and clock parts of a Student.
const (
	DateLayout         = "2006-01-02"
	TimeOfDayLayout    = "15:04:05"
	timeOfDayShortForm = "15:04"
)

var jsonNull = []byte("null")

// ─────────────────────────────────────────────────────────────────────────────
// Date is a calendar date with no clock or zone component.
//
// The zero Date means "unset": it encodes to JSON null and is stored as
// SQL NULL.
// ─────────────────────────────────────────────────────────────────────────────
type Date struct {
	t time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns d as midnight UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. JSON null and "" leave d unset.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bornDate: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = DateOf(v)
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("types.Date: cannot scan %T", src)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// TimeOfDay is a wall-clock time with seconds precision.
//
// The zero value is midnight. It always encodes as "HH:MM:SS"; input may
// omit the seconds, which then default to 00.
// ─────────────────────────────────────────────────────────────────────────────
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// NewTimeOfDay returns the TimeOfDay for the given clock reading.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second}
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{TimeOfDayLayout, timeOfDayShortForm} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time %q: want HH:MM:SS or HH:MM", s)
}

// SinceMidnight returns the offset of t from 00:00:00.
func (t TimeOfDay) SinceMidnight() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second
}

// TimeOfDayFromDuration is the inverse of SinceMidnight. Sub-second parts
// are dropped.
func TimeOfDayFromDuration(d time.Duration) TimeOfDay {
	secs := int(d / time.Second)
	return NewTimeOfDay(secs/3600, secs%3600/60, secs%60)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// MarshalJSON implements json.Marshaler.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler. JSON null and "" yield midnight.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*t = TimeOfDay{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bornTime: %w", err)
	}
	if s == "" {
		*t = TimeOfDay{}
		return nil
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner.
func (t *TimeOfDay) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = TimeOfDay{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("types.TimeOfDay: cannot scan %T", src)
	}
	if s == "" {
		*t = TimeOfDay{}
		return nil
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
