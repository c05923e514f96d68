package booking

import (
	"context"
	"time"

	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
)

// ListAppointmentsByDate is the admin day view: every appointment for a
// date with its patient, ordered by time. Orphaned appointments (patient
// deleted) appear with a nil patient.
type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]models.Appointment, error) {
	return uc.repo.ListAppointmentsForDate(ctx, timezone.DateOf(date))
}
