package timezone

import "time"

// The clinic runs in a single fixed locale; no per-user conversion.
const ClinicTimezone = "America/Mexico_City"

func Location() *time.Location {
	loc, err := time.LoadLocation(ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Today returns midnight of the current clinic day.
func Today() time.Time {
	return DateOf(Now())
}

// DateOf truncates t to midnight, preserving its location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
