package schedule

import (
	"fmt"
	"math/rand"
	"time"
)

// Kind selects one of the four scheduling policies.
type Kind string

const (
	// FixedWindowFill fills every day of a trailing window with a count
	// drawn from an inclusive range.
	FixedWindowFill Kind = "fill"

	// HumanizedYear covers the trailing year with an organic-looking
	// pattern of active days, bursts, and breaks.
	HumanizedYear Kind = "year"

	// RandomBulk spreads a fixed total of commits across random days in a
	// trailing window.
	RandomBulk Kind = "bulk"

	// CustomStreak produces an unbroken run of identical days ending today.
	CustomStreak Kind = "streak"
)

// ParseKind maps a user-supplied policy name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case FixedWindowFill, HumanizedYear, RandomBulk, CustomStreak:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown policy %q (must be fill, year, bulk, or streak)", ErrInvalidParams, s)
}

// Policy is a policy selection plus its parameters. Zero-valued parameters
// take the documented defaults for the selected kind.
type Policy struct {
	Kind Kind

	// FixedWindowFill
	Days      int // window size including today, default 90
	MinPerDay int // default 2
	MaxPerDay int // default 4

	// RandomBulk
	Total    int // total commits to distribute, default 100
	DaysBack int // window [1, DaysBack] days ago, default 365

	// CustomStreak
	Length int // streak length in days, default 30
	PerDay int // commits per streak day, default 3
}

// withDefaults fills unset parameters for the selected kind.
func (p Policy) withDefaults() Policy {
	switch p.Kind {
	case FixedWindowFill:
		if p.Days == 0 {
			p.Days = 90
		}
		if p.MinPerDay == 0 {
			p.MinPerDay = 2
		}
		if p.MaxPerDay == 0 {
			p.MaxPerDay = 4
		}
	case RandomBulk:
		if p.Total == 0 {
			p.Total = 100
		}
		if p.DaysBack == 0 {
			p.DaysBack = 365
		}
	case CustomStreak:
		if p.Length == 0 {
			p.Length = 30
		}
		if p.PerDay == 0 {
			p.PerDay = 3
		}
	}
	return p
}

// validate rejects out-of-range parameters before any schedule is built.
func (p Policy) validate() error {
	switch p.Kind {
	case FixedWindowFill:
		if p.Days < 1 || p.Days > MaxDaysBack {
			return fmt.Errorf("%w: days must be in [1, %d], got %d", ErrInvalidParams, MaxDaysBack, p.Days)
		}
		if p.MinPerDay < 1 || p.MaxPerDay < p.MinPerDay {
			return fmt.Errorf("%w: commit range [%d, %d] must satisfy 1 <= min <= max", ErrInvalidParams, p.MinPerDay, p.MaxPerDay)
		}
	case HumanizedYear:
		// No tunable parameters; the year window is fixed.
	case RandomBulk:
		if p.Total < 1 {
			return fmt.Errorf("%w: total commits must be positive, got %d", ErrInvalidParams, p.Total)
		}
		if p.DaysBack < 1 || p.DaysBack > MaxDaysBack {
			return fmt.Errorf("%w: days-back must be in [1, %d], got %d", ErrInvalidParams, MaxDaysBack, p.DaysBack)
		}
	case CustomStreak:
		if p.Length < 1 || p.Length > MaxDaysBack {
			return fmt.Errorf("%w: streak length must be in [1, %d], got %d", ErrInvalidParams, MaxDaysBack, p.Length)
		}
		if p.PerDay < 1 {
			return fmt.Errorf("%w: commits per day must be positive, got %d", ErrInvalidParams, p.PerDay)
		}
	default:
		return fmt.Errorf("%w: unknown policy kind %q", ErrInvalidParams, p.Kind)
	}
	return nil
}

// Validate checks policy parameters (after default filling) without building
// anything. Callers use it to reject a bad run before any I/O happens.
func Validate(p Policy) error {
	return p.withDefaults().validate()
}

// Build produces a schedule for the policy, anchored to now's calendar date.
// Every returned entry has a positive count, one clock offset per commit,
// and a date no later than today.
func Build(p Policy, now time.Time, rng *rand.Rand) (Schedule, error) {
	p = p.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}

	today := midnight(now)
	switch p.Kind {
	case FixedWindowFill:
		return buildFixedWindow(p, today, rng), nil
	case HumanizedYear:
		return buildHumanizedYear(today, rng), nil
	case RandomBulk:
		return buildRandomBulk(p, today, rng), nil
	default:
		return buildStreak(p, today, rng), nil
	}
}

// buildFixedWindow emits one entry for each of the last p.Days days
// including today, oldest first. No day in the window is skipped.
func buildFixedWindow(p Policy, today time.Time, rng *rand.Rand) Schedule {
	sched := make(Schedule, 0, p.Days)
	for i := p.Days - 1; i >= 0; i-- {
		count := p.MinPerDay + rng.Intn(p.MaxPerDay-p.MinPerDay+1)
		sched = append(sched, entry(rng, today.AddDate(0, 0, -i), count))
	}
	return sched
}

// buildRandomBulk draws p.Total day offsets uniformly with replacement from
// [1, p.DaysBack] (today excluded), accumulating repeats into a single entry
// per day, ordered by date ascending.
func buildRandomBulk(p Policy, today time.Time, rng *rand.Rand) Schedule {
	counts := make(map[int]int)
	for i := 0; i < p.Total; i++ {
		counts[1+rng.Intn(p.DaysBack)]++
	}

	sched := make(Schedule, 0, len(counts))
	for offset := p.DaysBack; offset >= 1; offset-- {
		if n := counts[offset]; n > 0 {
			sched = append(sched, entry(rng, today.AddDate(0, 0, -offset), n))
		}
	}
	return sched
}

// buildStreak emits exactly p.Length consecutive entries ending today, each
// with p.PerDay commits.
func buildStreak(p Policy, today time.Time, rng *rand.Rand) Schedule {
	sched := make(Schedule, 0, p.Length)
	for i := p.Length - 1; i >= 0; i-- {
		sched = append(sched, entry(rng, today.AddDate(0, 0, -i), p.PerDay))
	}
	return sched
}
