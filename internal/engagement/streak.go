package engagement

import (
	"sort"
	"time"
)

// StreakState is derived on demand from a user's event timestamps; it is
// never persisted.
type StreakState struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// DayNumber maps an instant to its UTC calendar day (days since epoch).
// Distinct-day semantics deliberately follow the UTC date of the stored
// instant, not a user-local date, so a streak can flip around midnight UTC.
func DayNumber(t time.Time) int64 {
	sec := t.Unix()
	day := sec / 86400
	if sec < 0 && sec%86400 != 0 {
		day--
	}
	return day
}

// distinctDays reduces timestamps to sorted distinct UTC day numbers.
// Multiple events on the same day count as one flag for that day.
func distinctDays(times []time.Time) []int64 {
	seen := make(map[int64]struct{}, len(times))
	for _, t := range times {
		seen[DayNumber(t)] = struct{}{}
	}
	days := make([]int64, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// CurrentStreak counts consecutive active days ending at the most recent
// active day. The streak survives as long as the most recent active day is
// today or yesterday relative to `today` — the user has until the end of the
// current day to keep it alive. Older than that, it is 0.
func CurrentStreak(times []time.Time, today time.Time) int {
	days := distinctDays(times)
	if len(days) == 0 {
		return 0
	}

	mostRecent := days[len(days)-1]
	if DayNumber(today)-mostRecent > 1 {
		return 0
	}

	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i+1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the high-water mark over all history: the longest run of
// consecutive distinct active days, regardless of how long ago it ended.
func LongestStreak(times []time.Time) int {
	days := distinctDays(times)
	if len(days) == 0 {
		return 0
	}

	best, running := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			running++
		} else {
			running = 1
		}
		if running > best {
			best = running
		}
	}
	return best
}
