package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mozilla/bugzilla-milestone-planner-sub001/internal/tracker"
)

var t0 = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return t0.AddDate(0, 0, n) }

func TestSpanFor(t *testing.T) {
	full := &Calendar{Capacity: 1.0}
	half := &Calendar{Capacity: 0.5}

	assert.Equal(t, 2*Day, full.SpanFor(2))
	// a half-time engineer needs twice the wall-clock span
	assert.Equal(t, 4*Day, half.SpanFor(2))
}

func TestEarliestAvailable_NoIntervals(t *testing.T) {
	cal := &Calendar{Capacity: 1.0}
	assert.Equal(t, t0, cal.EarliestAvailable(t0, 3))
}

func TestEarliestAvailable_FitsBeforeInterval(t *testing.T) {
	cal := &Calendar{
		Capacity:    1.0,
		Unavailable: []tracker.Interval{{Start: day(5), End: day(10)}},
	}
	// 3 days fit in the 5 days before the interval
	assert.Equal(t, t0, cal.EarliestAvailable(t0, 3))
}

func TestEarliestAvailable_NeverSplitsAcrossInterval(t *testing.T) {
	cal := &Calendar{
		Capacity:    1.0,
		Unavailable: []tracker.Interval{{Start: day(2), End: day(4)}},
	}
	// 3 days cannot finish before day 2, so the whole bug moves past day 4
	assert.Equal(t, day(4), cal.EarliestAvailable(t0, 3))
}

func TestEarliestAvailable_StartInsideInterval(t *testing.T) {
	cal := &Calendar{
		Capacity:    1.0,
		Unavailable: []tracker.Interval{{Start: day(0), End: day(3)}},
	}
	assert.Equal(t, day(3), cal.EarliestAvailable(day(1), 1))
}

func TestEarliestAvailable_ChainedIntervals(t *testing.T) {
	cal := &Calendar{
		Capacity: 1.0,
		Unavailable: []tracker.Interval{
			{Start: day(1), End: day(3)},
			{Start: day(4), End: day(6)},
		},
	}
	// 2 days: cannot fit before day 1, nor in the single day between
	// intervals, so it lands after the second one
	assert.Equal(t, day(6), cal.EarliestAvailable(t0, 2))
}

func TestEarliestAvailable_HalfCapacityCrossesFurther(t *testing.T) {
	cal := &Calendar{
		Capacity:    0.5,
		Unavailable: []tracker.Interval{{Start: day(3), End: day(5)}},
	}
	// size 2 needs 4 wall-clock days at half capacity; it no longer fits
	// before day 3
	assert.Equal(t, day(5), cal.EarliestAvailable(t0, 2))
}

func TestNewSet_ExternalConvention(t *testing.T) {
	set := NewSet([]tracker.Engineer{
		{ID: "ext", Capacity: 0.25, External: true,
			Unavailable: []tracker.Interval{{Start: day(0), End: day(100)}}},
	})

	cal := set.Get("ext")
	require.NotNil(t, cal)
	// external engineers are full-time with no unavailability regardless of
	// what the payload carried
	assert.Equal(t, 1.0, cal.Capacity)
	assert.Empty(t, cal.Unavailable)
}

func TestNewSet_SortsAndDropsEmptyIntervals(t *testing.T) {
	set := NewSet([]tracker.Engineer{
		{ID: "e", Capacity: 1, Unavailable: []tracker.Interval{
			{Start: day(8), End: day(9)},
			{Start: day(2), End: day(2)}, // empty, dropped
			{Start: day(1), End: day(3)},
		}},
	})

	cal := set.Get("e")
	require.Len(t, cal.Unavailable, 2)
	assert.Equal(t, day(1), cal.Unavailable[0].Start)
	assert.Equal(t, day(8), cal.Unavailable[1].Start)
}
