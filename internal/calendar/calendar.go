// Package calendar models per-engineer time availability: a fractional
// daily capacity plus explicit unavailability intervals during which
// capacity is zero.
package calendar

import (
	"sort"
	"time"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

// Day is the wall-clock span one size unit occupies at full capacity.
const Day = 24 * time.Hour

// Calendar is the availability of a single engineer.
type Calendar struct {
	EngineerID  string
	Capacity    float64 // daily fraction in (0, 1]
	Unavailable []tracker.Interval
}

// Set holds one calendar per engineer.
type Set struct {
	calendars map[string]*Calendar
}

// NewSet builds calendars for the given pool. Unavailability intervals are
// sorted; empty or inverted intervals are dropped. External engineers get
// full capacity and no unavailability by convention.
func NewSet(engineers []tracker.Engineer) *Set {
	s := &Set{calendars: make(map[string]*Calendar, len(engineers))}
	for _, e := range engineers {
		cal := &Calendar{EngineerID: e.ID, Capacity: e.Capacity}
		if e.External {
			cal.Capacity = 1.0
		} else {
			for _, iv := range e.Unavailable {
				if iv.End.After(iv.Start) {
					cal.Unavailable = append(cal.Unavailable, iv)
				}
			}
			sort.Slice(cal.Unavailable, func(i, j int) bool {
				return cal.Unavailable[i].Start.Before(cal.Unavailable[j].Start)
			})
		}
		s.calendars[e.ID] = cal
	}
	return s
}

// Get returns the calendar for an engineer, or nil if unknown.
func (s *Set) Get(engineerID string) *Calendar {
	return s.calendars[engineerID]
}

// IDs returns all engineer ids in the set, sorted.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.calendars))
	for id := range s.calendars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SpanFor returns the wall-clock span needed to absorb size units of
// effort: a half-time engineer needs twice the span of a full-time one.
func (c *Calendar) SpanFor(size float64) time.Duration {
	return time.Duration(size / c.Capacity * float64(Day))
}

// EarliestAvailable returns the earliest start at or after from such that
// the whole span for size fits without crossing an unavailability interval.
// A bug is never split across an interval: if it cannot finish before one
// begins, it starts after the interval ends.
func (c *Calendar) EarliestAvailable(from time.Time, size float64) time.Time {
	span := c.SpanFor(size)
	start := from
	for _, iv := range c.Unavailable {
		if !start.Before(iv.End) {
			continue // interval already behind us
		}
		if !start.Add(span).After(iv.Start) {
			break // fits entirely before this interval
		}
		start = iv.End
	}
	return start
}
