package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageOfWeek(t *testing.T) {
	want := []string{"0.00", "14.29", "28.57", "42.86", "57.14", "71.43", "85.71", "100.00"}
	for days, expected := range want {
		assert.Equal(t, expected, PercentageOfWeek(days).String(), "days=%d", days)
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2023-01-01", "2028-12-31")
	require.NoError(t, err)
	assert.Equal(t, DefaultDateRange(), r)
	assert.Equal(t, "2023-01-01..2028-12-31", r.String())

	_, err = ParseDateRange("2023-13-01", "2028-12-31")
	assert.Error(t, err)

	_, err = ParseDateRange("2023-01-01", "tomorrow")
	assert.Error(t, err)

	assert.Equal(t, time.UTC, r.Start.Location())
}
