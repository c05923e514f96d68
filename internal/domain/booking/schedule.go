package booking

import "time"

// Block is one open working-hours interval within a day, bounds in "15:04".
type Block struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotStepMinutes is the distance between consecutive bookable times.
const SlotStepMinutes = 30

// BlocksFor returns the clinic's open intervals for the date's weekday,
// ascending and non-overlapping. Sunday is closed.
func BlocksFor(date time.Time) []Block {
	switch date.Weekday() {
	case time.Sunday:
		return nil
	case time.Saturday:
		return []Block{
			{Start: "08:00", End: "14:00"},
		}
	default:
		return []Block{
			{Start: "10:00", End: "12:00"},
			{Start: "14:00", End: "16:30"},
			{Start: "18:30", End: "19:00"},
		}
	}
}

// SlotsFor expands the day's blocks into bookable times at the fixed step.
// Block ends are exclusive: a 10:00-12:00 block yields 10:00 through 11:30.
func SlotsFor(date time.Time) []string {
	step := time.Duration(SlotStepMinutes) * time.Minute

	var slots []string
	for _, b := range BlocksFor(date) {
		end := atTime(date, b.End)
		for t := atTime(date, b.Start); t.Before(end); t = t.Add(step) {
			slots = append(slots, t.Format("15:04"))
		}
	}
	return slots
}

// IsValidSlot reports whether hm is one of the generated slots for date.
func IsValidSlot(date time.Time, hm string) bool {
	for _, s := range SlotsFor(date) {
		if s == hm {
			return true
		}
	}
	return false
}

func atTime(date time.Time, hm string) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	)
}
