package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	require.NoError(t, SetDefault("Africa/Nairobi"))
	t.Cleanup(func() { _ = SetDefault("UTC") })

	assert.Equal(t, "Europe/Dublin", Location("Europe/Dublin").String())
	assert.Equal(t, "Africa/Nairobi", Location("").String())
	assert.Equal(t, "Africa/Nairobi", Location("Nowhere/Land").String())

	assert.Error(t, SetDefault("Nowhere/Land"))
}

func TestParseDate(t *testing.T) {
	loc := Location("Europe/Dublin")
	d, err := ParseDate("2026-03-16", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, loc, d.Location())

	_, err = ParseDate("16/03/2026", loc)
	assert.Error(t, err)
}

func TestDatesBetween(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 3, 16, 23, 0, 0, 0, loc)

	assert.Equal(t, []string{"2026-03-16"}, DatesBetween(start, start.Add(time.Hour), loc))
	assert.Equal(t,
		[]string{"2026-03-16", "2026-03-17"},
		DatesBetween(start, start.Add(2*time.Hour), loc),
	)

	nairobi := Location("Africa/Nairobi")
	assert.Equal(t, []string{"2026-03-17"}, DatesBetween(start, start.Add(time.Hour), nairobi))
}
