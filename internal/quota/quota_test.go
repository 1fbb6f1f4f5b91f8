package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, time.March, 17, 15, 4, 5, 0, time.UTC)
	start, end := MonthWindow(now)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindowDecemberRollsOver(t *testing.T) {
	now := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	start, end := MonthWindow(now)

	assert.Equal(t, time.December, start.Month())
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindowNormalizesZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 02:00 IST on the 1st is still the previous month in UTC.
	now := time.Date(2025, time.June, 1, 2, 0, 0, 0, loc)
	start, _ := MonthWindow(now)

	assert.Equal(t, time.May, start.Month())
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		used    int
		want    int
	}{
		{"untouched", 12000, 0, 12000},
		{"partial", 12000, 11700, 300},
		{"exhausted", 12000, 12000, 0},
		{"over ceiling clamps to zero", 12000, 12500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(tt.ceiling, tt.used))
		})
	}
}

func TestBatchSize(t *testing.T) {
	tests := []struct {
		name       string
		recipients int
		remaining  int
		batchCap   int
		want       int
	}{
		{"all fit", 50, 12000, 300, 50},
		{"quota truncates", 500, 120, 300, 120},
		{"batch cap truncates", 500, 12000, 300, 300},
		{"no quota left", 500, 0, 300, 0},
		{"no recipients", 0, 12000, 300, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatchSize(tt.recipients, tt.remaining, tt.batchCap))
		})
	}
}
