// Package schedule decides which calendar days receive synthetic commits and
// how many. It is pure: all randomness comes in through an explicit source
// and no I/O happens here.
package schedule

import (
	"errors"
	"math/rand"
	"sort"
	"time"
)

// ErrInvalidParams is returned when policy parameters are out of range.
// It is the only error the scheduler produces, and it is raised before any
// side effect occurs anywhere in a run.
var ErrInvalidParams = errors.New("invalid schedule parameters")

// MaxDaysBack bounds how far into the past any policy may reach.
const MaxDaysBack = 3650

// Entry is one scheduled day: a calendar date (midnight, local time), the
// number of commits for that day, and one intra-day clock offset per commit.
type Entry struct {
	Date  time.Time
	Count int
	Times []time.Duration
}

// Schedule is an ordered sequence of entries, ascending by date, with at
// most one entry per calendar day.
type Schedule []Entry

// TotalCommits returns the sum of all entry counts.
func (s Schedule) TotalCommits() int {
	total := 0
	for _, e := range s {
		total += e.Count
	}
	return total
}

// Window returns the first and last scheduled dates. Zero times for an
// empty schedule.
func (s Schedule) Window() (first, last time.Time) {
	if len(s) == 0 {
		return
	}
	return s[0].Date, s[len(s)-1].Date
}

// NewRand returns a seedable random source for schedule generation.
// A zero seed derives one from the wall clock, so unseeded runs vary.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// midnight truncates a time to its calendar date.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// clockOffsets draws n random times-of-day within 00:00:00-23:59:59,
// sorted ascending so commits within a day carry increasing timestamps.
func clockOffsets(rng *rand.Rand, n int) []time.Duration {
	offsets := make([]time.Duration, n)
	for i := range offsets {
		offsets[i] = time.Duration(rng.Intn(24*60*60)) * time.Second
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// entry builds a schedule entry with freshly drawn clock offsets.
func entry(rng *rand.Rand, date time.Time, count int) Entry {
	return Entry{Date: date, Count: count, Times: clockOffsets(rng, count)}
}
