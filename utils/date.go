package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02" // yyyy-MM-dd
	TimeLayout = "15:04:05"   // HH:mm:ss
)

// SiteZone is used when the configured time zone cannot be loaded.
var SiteZone = time.FixedZone("UTC+10", 10*60*60)

// LoadZone resolves an IANA zone name, falling back to SiteZone.
func LoadZone(name string) *time.Location {
	if name == "" {
		return SiteZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return SiteZone
	}
	return loc
}

// CombineDateTime joins a yyyy-MM-dd date and an HH:mm[:ss] time in loc.
func CombineDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
}
