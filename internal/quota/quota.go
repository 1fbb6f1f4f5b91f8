// Package quota implements the monthly email ledger arithmetic. The
// ledger itself is the email_logs table; counting rows there always
// reflects attempts, not successes, so failed sends consume quota too.
package quota

import "time"

const (
	DefaultMonthlyLimit = 12000
	DefaultBatchLimit   = 300
)

// MonthWindow returns the UTC calendar-month bounds containing now.
func MonthWindow(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Remaining never goes negative so callers can use it directly as a
// truncation bound.
func Remaining(ceiling, used int) int {
	if used >= ceiling {
		return 0
	}
	return ceiling - used
}

// BatchSize truncates a recipient count to what both the remaining
// monthly quota and the per-batch cap allow.
func BatchSize(recipients, remaining, batchCap int) int {
	n := recipients
	if remaining < n {
		n = remaining
	}
	if batchCap < n {
		n = batchCap
	}
	if n < 0 {
		return 0
	}
	return n
}
