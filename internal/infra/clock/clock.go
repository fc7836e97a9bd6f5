package clock

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Resolver answers "what time is it on the activity wall clock" for a
// single named civil timezone. Every scheduling decision goes through it
// so seasonal offset changes are picked up on each call, never baked in
// as a fixed offset.
type Resolver struct {
	loc   *time.Location
	clock clockwork.Clock
}

func NewResolver(zone string, c clockwork.Clock) (*Resolver, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Resolver{loc: loc, clock: c}, nil
}

func (r *Resolver) Location() *time.Location { return r.loc }

// Now is the current instant expressed in the configured zone.
func (r *Resolver) Now() time.Time { return r.clock.Now().In(r.loc) }

// UntilNextHourly is the strictly positive delay until the next HH:minute.
// Called at exactly :minute it returns a full hour.
func (r *Resolver) UntilNextHourly(minute int) time.Duration {
	now := r.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute, 0, 0, r.loc)
	if !next.After(now) {
		next = next.Add(time.Hour)
	}
	return next.Sub(now)
}

// UntilNextDaily is the strictly positive delay until the next hour:minute
// in the zone. If today's occurrence has passed (or is right now), the
// result is tomorrow's.
func (r *Resolver) UntilNextDaily(hour, minute int) time.Duration {
	now := r.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, r.loc)
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, r.loc)
	}
	return next.Sub(now)
}

// UntilNextWeekly generalizes UntilNextDaily to "next weekday at
// hour:minute", counting today only while the time is still ahead.
func (r *Resolver) UntilNextWeekly(weekday time.Weekday, hour, minute int) time.Duration {
	now := r.Now()
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, r.loc)
	if !next.After(now) {
		next = time.Date(next.Year(), next.Month(), next.Day()+7, hour, minute, 0, 0, r.loc)
	}
	return next.Sub(now)
}
