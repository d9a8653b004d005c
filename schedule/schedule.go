// Package schedule computes tournament round boundaries from the fixed
// weekly timetable. All functions are pure and operate in UTC.
package schedule

import "time"

// StartSlot is a weekly recurring round start.
type StartSlot struct {
	Day    time.Weekday
	Hour   int
	Minute int
}

type Timetable []StartSlot

// DefaultTimetable matches the tournament cadence of The Tower: rounds start
// Tuesday and Saturday at 00:00 UTC.
var DefaultTimetable = Timetable{
	{Day: time.Tuesday, Hour: 0, Minute: 0},
	{Day: time.Saturday, Hour: 0, Minute: 0},
}

// DefaultRoundDuration is how long a round runs after its start slot.
const DefaultRoundDuration = 28 * time.Hour

// scanWindowDays bounds the backward/forward scan. Two weeks always covers
// at least one occurrence of every slot plus a full round duration.
const scanWindowDays = 14

// LastRoundEnd returns the end instant of the most recent round that has
// already finished at now, i.e. the latest start+duration <= now. A round
// that is still in progress is not counted. Returns the zero time when the
// timetable is empty.
func LastRoundEnd(now time.Time, tt Timetable, duration time.Duration) time.Time {
	now = now.UTC()
	var best time.Time
	for d := 0; d < scanWindowDays; d++ {
		day := now.AddDate(0, 0, -d)
		for _, slot := range tt {
			if day.Weekday() != slot.Day {
				continue
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
			end := start.Add(duration)
			if end.After(now) {
				continue
			}
			if end.After(best) {
				best = end
			}
		}
	}
	return best
}

// NextRoundStart returns the earliest round start strictly after now, or the
// zero time when the timetable is empty.
func NextRoundStart(now time.Time, tt Timetable) time.Time {
	now = now.UTC()
	var best time.Time
	for d := 0; d < scanWindowDays; d++ {
		day := now.AddDate(0, 0, d)
		for _, slot := range tt {
			if day.Weekday() != slot.Day {
				continue
			}
			start := time.Date(day.Year(), day.Month(), day.Day(), slot.Hour, slot.Minute, 0, 0, time.UTC)
			if !start.After(now) {
				continue
			}
			if best.IsZero() || start.Before(best) {
				best = start
			}
		}
	}
	return best
}
