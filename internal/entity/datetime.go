package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

var (
	reDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reClock = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

var jsonNull = []byte("null")

// Date is a calendar date with no time of day, encoded as yyyy-MM-dd.
// The zero value means "absent".
type Date struct {
	t     time.Time
	valid bool
}

// ParseDate parses a strict yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	if !reDate.MatchString(s) {
		return Date{}, fmt.Errorf("invalid date %q: expected yyyy-MM-dd", s)
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t, valid: true}, nil
}

// MustParseDate is ParseDate that panics on error. Meant for tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return !d.valid }
func (d Date) Day() int     { return d.t.Day() }

func (d Date) String() string {
	if !d.valid {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return jsonNull, nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON leaves d absent on null; anything else must be a valid date string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("purchaseDate must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a time of day at minute precision, encoded as HH:mm (24-hour).
// The zero value means "absent"; midnight is NewClock(0, 0).
type Clock struct {
	minutes int
	valid   bool
}

// NewClock returns the Clock for hour:minute.
func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	return Clock{minutes: hour*60 + minute, valid: true}, nil
}

// ParseClock parses a strict HH:mm string.
func ParseClock(s string) (Clock, error) {
	if !reClock.MatchString(s) {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return NewClock(t.Hour(), t.Minute())
}

// MustParseClock is ParseClock that panics on error.
func MustParseClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) IsZero() bool { return !c.valid }
func (c Clock) Hour() int    { return c.minutes / 60 }
func (c Clock) Minute() int  { return c.minutes % 60 }

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int { return c.minutes }

func (c Clock) String() string {
	if !c.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c Clock) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return jsonNull, nil
	}
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("purchaseTime must be a string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
