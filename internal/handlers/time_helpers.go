package handlers

import (
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
)

// parseDate interprets "2006-01-02" in the clinic's locale.
func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, timezone.Location())
}
