package booking

import (
	"context"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/models"
)

// Repository is the storage contract for the booking core. Lookups that may
// legitimately miss return an explicit found flag instead of a sentinel
// error. Implementations translate storage-level failures into the business
// codes in httperr (slot_taken, storage_unavailable).
type Repository interface {
	// -------- Patient --------
	FindPatientByPhone(
		ctx context.Context,
		phone string,
	) (*models.Patient, bool, error)

	CreatePatient(
		ctx context.Context,
		p *models.Patient,
	) error

	GetOrCreatePatient(
		ctx context.Context,
		name string,
		phone string,
	) (*models.Patient, error)

	// -------- Eligibility reads --------
	HasAppointmentInWindow(
		ctx context.Context,
		patientID uint,
		from time.Time,
		to time.Time,
	) (bool, error)

	// -------- Availability --------
	OccupiedTimes(
		ctx context.Context,
		date time.Time,
	) ([]string, error)

	// -------- Appointment writes --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) (bool, error)

	// -------- Appointment reads --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, bool, error)

	ListAppointmentsForDate(
		ctx context.Context,
		date time.Time,
	) ([]models.Appointment, error)

	NextAppointmentForPatient(
		ctx context.Context,
		patientID uint,
		now time.Time,
	) (*models.Appointment, bool, error)
}

// AvailabilityCache is a short-lived per-date view of free slots. It is
// advisory only: entries may be a few seconds stale, and the unique index
// on (date, time) remains the source of truth at write time. A successful
// write invalidates exactly the affected date.
type AvailabilityCache interface {
	Get(ctx context.Context, date time.Time) ([]string, bool)
	Set(ctx context.Context, date time.Time, slots []string)
	Invalidate(ctx context.Context, date time.Time)
}
