package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/nord-digital/userdir/internal/constants"
)

// Date is a calendar day without a time component, marshalled as
// "2006-01-02". Birthdays are dates, not instants.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.ParseInLocation(constants.DateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected format %s", s, constants.DateLayout)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(constants.DateLayout) + `"`), nil
}

// AsTime returns the underlying time, or nil for an absent date.
func (d *Date) AsTime() *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
