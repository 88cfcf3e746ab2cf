package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mara/routinely-api/internal/models"
)

func intPtr(i int) *int { return &i }

func TestStartDaily(t *testing.T) {
	now := time.Date(2026, 3, 18, 15, 42, 7, 0, time.UTC) // Wednesday afternoon
	got := Start(models.PeriodDaily, nil, now)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), got)
}

func TestStartWeeklyDefaultSunday(t *testing.T) {
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC) // Wednesday
	got := Start(models.PeriodWeekly, nil, now)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got) // Sunday
}

func TestStartWeeklyAnchorMonday(t *testing.T) {
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC) // Wednesday
	got := Start(models.PeriodWeekly, intPtr(1), now)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), got) // Monday
}

func TestStartWeeklyOnAnchorDay(t *testing.T) {
	now := time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC) // Monday just after midnight
	got := Start(models.PeriodWeekly, intPtr(1), now)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), got)
}

func TestStartMonthlyDefaultFirst(t *testing.T) {
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)
	got := Start(models.PeriodMonthly, nil, now)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestStartMonthlyAnchorNotReached(t *testing.T) {
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	got := Start(models.PeriodMonthly, intPtr(15), now)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestStartMonthlyAnchorClampedToShortMonth(t *testing.T) {
	// Anchor 31 during March 5th: the window started at the February anchor,
	// which clamps to the 28th in a non-leap year.
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	got := Start(models.PeriodMonthly, intPtr(31), now)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), got)
}

func TestStartMonthlyJanuaryRollsToPreviousYear(t *testing.T) {
	now := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	got := Start(models.PeriodMonthly, intPtr(15), now)
	assert.Equal(t, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestStartInvalidAnchorFallsBack(t *testing.T) {
	now := time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)
	got := Start(models.PeriodWeekly, intPtr(9), now)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got) // default Sunday
}
