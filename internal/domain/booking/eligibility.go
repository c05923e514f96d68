package booking

import "time"

const (
	// DefaultMinLeadDays blocks today and tomorrow; the earliest
	// self-service date is the day after tomorrow.
	DefaultMinLeadDays = 2

	// FrequencyWindowDays bounds the protected window on each side of the
	// target date: a patient may hold at most one appointment inside the
	// 13-day inclusive window centered on it.
	FrequencyWindowDays = 6
)

// DateAllowed applies the lead-time rule. Only calendar days count; the
// time of day on either argument is ignored.
func DateAllowed(today, date time.Time, minLeadDays int) bool {
	if minLeadDays <= 0 {
		minLeadDays = DefaultMinLeadDays
	}
	earliest := dateOf(today).AddDate(0, 0, minLeadDays)
	return !dateOf(date).Before(earliest)
}

// FrequencyWindow returns the inclusive [from, to] date range that must hold
// no other appointment for the same patient.
func FrequencyWindow(date time.Time) (time.Time, time.Time) {
	d := dateOf(date)
	return d.AddDate(0, 0, -FrequencyWindowDays), d.AddDate(0, 0, FrequencyWindowDays)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
