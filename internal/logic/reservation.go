package logic

import (
	"fmt"
	"time"
)

// ComputeStart returns when heating must begin so that a recipe of the given
// duration finishes at target. A target not after now moves to its next
// occurrence after now, keeping its wall-clock time. The returned target is
// the rolled value.
//
//	start = target − (cookDuration + preheatBuffer)
func ComputeStart(now, target time.Time, cookDuration, preheatBuffer time.Duration) (start, finish time.Time) {
	if !target.After(now) {
		// Same wall-clock time on now's date, then tomorrow if that has passed.
		y, m, d := now.In(target.Location()).Date()
		target = time.Date(y, m, d, target.Hour(), target.Minute(), target.Second(), target.Nanosecond(), target.Location())
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
	}
	return target.Add(-(cookDuration + preheatBuffer)), target
}

// Due reports whether a reservation starting at start should activate now.
// Ticks are discrete, so the first tick at or after start matches.
func Due(now, start time.Time) bool {
	return !now.Before(start)
}

// ParseClock builds the next wall-clock time matching "HH:MM" in now's location,
// on now's date. ComputeStart performs the day rollover.
func ParseClock(s string, now time.Time) (time.Time, error) {
	hm, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, now.Location()), nil
}
