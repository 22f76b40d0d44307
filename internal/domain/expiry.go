package domain

import (
	"fmt"
	"strings"
	"time"
)

// Wire formats of a listing's schedule.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DefaultExpiryGrace is how long after its departure a listing stays actionable.
// Trips often leave late, so a listing remains contactable for half a day.
const DefaultExpiryGrace = 12 * time.Hour

// ExpiryPolicy decides whether a listing's departure window has lapsed.
// It never reads the clock: every caller passes "now" explicitly.
//
// Departure dates and times carry no zone of their own, so all of them are
// interpreted in Location. Every read and write path must share one policy.
type ExpiryPolicy struct {
	Location *time.Location
	Grace    time.Duration
}

// NewExpiryPolicy returns a policy for loc with the default 12h grace.
// A nil loc means UTC.
func NewExpiryPolicy(loc *time.Location) ExpiryPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return ExpiryPolicy{Location: loc, Grace: DefaultExpiryGrace}
}

// DepartureInstant combines a "YYYY-MM-DD" date and an "HH:MM" (or "HH:MM:SS")
// time into a single instant in the policy's zone.
// Malformed input returns an error wrapping ErrValidation.
func (p ExpiryPolicy) DepartureInstant(date, clock string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: departure date %q must be YYYY-MM-DD", ErrValidation, date)
	}
	t, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), t.Second(), 0, p.location()), nil
}

// ExpiresAt is the instant after which the listing is no longer actionable.
func (p ExpiryPolicy) ExpiresAt(date, clock string) (time.Time, error) {
	dep, err := p.DepartureInstant(date, clock)
	if err != nil {
		return time.Time{}, err
	}
	return dep.Add(p.grace()), nil
}

// IsExpired reports whether now is strictly after departure + grace.
// At exactly departure + grace the listing is still actionable.
func (p ExpiryPolicy) IsExpired(date, clock string, now time.Time) (bool, error) {
	exp, err := p.ExpiresAt(date, clock)
	if err != nil {
		return false, err
	}
	return now.After(exp), nil
}

// Annotate sets l.Expired from the policy. A stored schedule that cannot be
// parsed is reported as an error rather than silently treated as live.
func (p ExpiryPolicy) Annotate(l *Listing, now time.Time) error {
	expired, err := p.IsExpired(l.DepartureDate, l.DepartureTime, now)
	if err != nil {
		return err
	}
	l.Expired = expired
	return nil
}

// NormalizeSchedule validates a date/time pair and returns them in canonical
// "YYYY-MM-DD" / "HH:MM" form.
func NormalizeSchedule(date, clock string) (string, string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", "", fmt.Errorf("%w: departure date %q must be YYYY-MM-DD", ErrValidation, date)
	}
	t, err := parseClock(clock)
	if err != nil {
		return "", "", err
	}
	return d.Format(DateLayout), t.Format(TimeLayout), nil
}

func parseClock(clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: departure time %q must be HH:MM", ErrValidation, clock)
}

func (p ExpiryPolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

func (p ExpiryPolicy) grace() time.Duration {
	if p.Grace == 0 {
		return DefaultExpiryGrace
	}
	return p.Grace
}
