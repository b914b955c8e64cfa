package schedule

import (
	"math/rand"
	"time"
)

// Tunable shape constants for the humanized year pattern. These approximate
// organic activity and are not a contract: the tests assert distributional
// shape, not exact values.
const (
	humanizedWindow = 365

	weekdayProbability = 0.70
	weekendProbability = 0.30

	minStreakRuns = 2 // injected bursts of consecutive active days
	maxStreakRuns = 4
	minStreakLen  = 3
	maxStreakLen  = 7

	minGapRuns = 1 // injected breaks of consecutive inactive days
	maxGapRuns = 3
	minGapLen  = 5
	maxGapLen  = 14
)

// buildHumanizedYear covers the last 365 days with a pattern meant to look
// like a person: weekdays are active more often than weekends, most active
// days have a small commit count with an occasional heavy day, and a few
// multi-day bursts and breaks are stamped over the per-day rolls. Where a
// burst and a break overlap, the break wins.
func buildHumanizedYear(today time.Time, rng *rand.Rand) Schedule {
	start := today.AddDate(0, 0, -(humanizedWindow - 1))

	include := make([]bool, humanizedWindow)
	for i := range include {
		p := weekdayProbability
		switch start.AddDate(0, 0, i).Weekday() {
		case time.Saturday, time.Sunday:
			p = weekendProbability
		}
		include[i] = rng.Float64() < p
	}

	stampRuns(rng, include, minStreakRuns, maxStreakRuns, minStreakLen, maxStreakLen, true)
	stampRuns(rng, include, minGapRuns, maxGapRuns, minGapLen, maxGapLen, false)

	var sched Schedule
	for i, active := range include {
		if !active {
			continue
		}
		sched = append(sched, entry(rng, start.AddDate(0, 0, i), humanizedCount(rng)))
	}
	return sched
}

// stampRuns overrides the per-day decision for a random number of randomly
// placed consecutive runs, forcing each covered day to value.
func stampRuns(rng *rand.Rand, include []bool, minRuns, maxRuns, minLen, maxLen int, value bool) {
	runs := minRuns + rng.Intn(maxRuns-minRuns+1)
	for r := 0; r < runs; r++ {
		length := minLen + rng.Intn(maxLen-minLen+1)
		if length > len(include) {
			length = len(include)
		}
		start := rng.Intn(len(include) - length + 1)
		for i := 0; i < length; i++ {
			include[start+i] = value
		}
	}
}

// humanizedCount draws a commit count skewed toward small days: roughly 90%
// of active days get 1-3 commits, the rest 4-8.
func humanizedCount(rng *rand.Rand) int {
	roll := rng.Float64()
	switch {
	case roll < 0.45:
		return 1
	case roll < 0.75:
		return 2
	case roll < 0.90:
		return 3
	default:
		return 4 + rng.Intn(5)
	}
}
