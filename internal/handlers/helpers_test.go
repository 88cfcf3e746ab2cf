package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalContextFromDefaultsToWallClock(t *testing.T) {
	ctx, err := evalContextFrom("", -1)
	require.NoError(t, err)
	assert.Nil(t, ctx)
}

func TestEvalContextFromParsesOverrides(t *testing.T) {
	ctx, err := evalContextFrom("2026-03-18T09:00:00Z", 3)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Equal(t, time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC), *ctx.CurrentTime)
	assert.Equal(t, 3, *ctx.DayOfWeek)
}

func TestEvalContextFromRejectsMalformedTimestamp(t *testing.T) {
	// A typo must surface as an error, not a silent wall-clock fallback.
	_, err := evalContextFrom("2026-03-18 09:00", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFC3339")
}

func TestEvalContextFromIgnoresOutOfRangeDay(t *testing.T) {
	ctx, err := evalContextFrom("", 7)
	require.NoError(t, err)
	assert.Nil(t, ctx)

	ctx, err = evalContextFrom("2026-03-18T09:00:00Z", 9)
	require.NoError(t, err)
	require.NotNil(t, ctx)
	assert.Nil(t, ctx.DayOfWeek)
}
