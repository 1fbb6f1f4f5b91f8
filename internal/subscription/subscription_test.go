package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodEnd(t *testing.T) {
	start := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, time.February, 15, 10, 0, 0, 0, time.UTC), PeriodEnd(start, 1))
	assert.Equal(t, time.Date(2025, time.July, 15, 10, 0, 0, 0, time.UTC), PeriodEnd(start, 6))
	assert.Equal(t, time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC), PeriodEnd(start, 12))
}

func TestPeriodEndMonthOverflow(t *testing.T) {
	// Jan 31 + 1 month normalizes forward, Go's AddDate behavior.
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	end := PeriodEnd(start, 1)

	assert.Equal(t, time.March, end.Month())
	assert.Equal(t, 3, end.Day())
}
