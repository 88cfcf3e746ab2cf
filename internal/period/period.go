// Package period computes reset-period boundaries: the start instant of the
// current accounting window for a routine's recurrence. Completion counts and
// values are always filtered against this boundary, recomputed per evaluation.
package period

import (
	"time"

	"github.com/mara/routinely-api/internal/models"
)

// Start returns the beginning of the accounting window containing now.
//
// DAILY: midnight of the current day. WEEKLY: midnight of the most recent
// anchor weekday (0=Sunday..6=Saturday, default Sunday). MONTHLY: midnight of
// the most recent anchor day-of-month (1-31, default 1), clamped to the length
// of the month it lands in. All arithmetic stays in now's location.
func Start(period string, anchorDay *int, now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case models.PeriodWeekly:
		anchor := 0
		if anchorDay != nil && *anchorDay >= 0 && *anchorDay <= 6 {
			anchor = *anchorDay
		}
		back := (int(now.Weekday()) - anchor + 7) % 7
		return midnight.AddDate(0, 0, -back)

	case models.PeriodMonthly:
		anchor := 1
		if anchorDay != nil && *anchorDay >= 1 && *anchorDay <= 31 {
			anchor = *anchorDay
		}
		year, month := now.Year(), now.Month()
		day := clampDay(year, month, anchor)
		if now.Day() < day {
			// Anchor not reached yet this month, so the window started last month.
			year, month = prevMonth(year, month)
			day = clampDay(year, month, anchor)
		}
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	default: // DAILY
		return midnight
	}
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// clampDay limits day to the number of days in the given month.
func clampDay(year int, month time.Month, day int) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}
