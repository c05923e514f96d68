package booking

import (
	"context"
	"time"

	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
)

// NextAppointment finds a patient's earliest appointment at or after now.
type NextAppointment struct {
	repo domain.Repository

	now func() time.Time
}

func NewNextAppointment(repo domain.Repository) *NextAppointment {
	return &NextAppointment{repo: repo, now: timezone.Now}
}

func (uc *NextAppointment) Execute(
	ctx context.Context,
	patientID uint,
) (*models.Appointment, bool, error) {
	return uc.repo.NextAppointmentForPatient(ctx, patientID, uc.now())
}
