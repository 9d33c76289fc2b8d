package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for client supplied timestamps, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// DateLayout is the date-only layout
const DateLayout = "2006-01-02"

// DateTime decodes the timestamp shapes mobile and web clients send.
// Values without a zone are read as UTC.
type DateTime struct {
	time.Time
}

// ParseDateTime parses s with the first matching layout. dateOnly reports
// whether s carried no time of day.
func ParseDateTime(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, layout == DateLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	t, _, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}

// Ptr returns the wrapped time, or nil for a nil receiver.
func (d *DateTime) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
