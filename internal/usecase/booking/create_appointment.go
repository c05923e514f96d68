package booking

import (
	"context"
	"time"

	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
	"github.com/MartinRAM24/app-gestion-citas/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Date time.Time
	Time string

	// PatientID identifies a logged-in patient. When zero, the patient is
	// resolved (or created) by normalized phone instead.
	PatientID uint
	Name      string
	Phone     string

	Note string
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment is the self-service booking path: lead-time and
// frequency rules gate the write, the (date, time) unique index settles
// races, and a successful insert invalidates the date's availability cache.
type CreateAppointment struct {
	repo        domain.Repository
	cache       domain.AvailabilityCache
	minLeadDays int

	now func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	minLeadDays int,
) *CreateAppointment {
	return &CreateAppointment{
		repo:        repo,
		cache:       cache,
		minLeadDays: minLeadDays,
		now:         timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	date := timezone.DateOf(in.Date)

	// The requested time must be one of the generated slots for the date.
	if !domain.IsValidSlot(date, in.Time) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidSlot)
	}

	// Lead-time rule
	if !domain.DateAllowed(uc.now(), date, uc.minLeadDays) {
		return nil, httperr.ErrBusiness(httperr.CodeIneligibleDate)
	}

	// Resolve patient
	patientID, err := uc.resolvePatient(ctx, in)
	if err != nil {
		return nil, err
	}

	// Frequency rule: one appointment per 13-day window around the date,
	// which also covers "one per day".
	from, to := domain.FrequencyWindow(date)
	busy, err := uc.repo.HasAppointmentInWindow(ctx, patientID, from, to)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, httperr.ErrBusiness(httperr.CodeFrequencyViolation)
	}

	// Insert; the unique index turns a lost race into slot_taken.
	ap := &models.Appointment{
		Date:      date,
		Time:      in.Time,
		PatientID: &patientID,
		Note:      in.Note,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, date)
	return ap, nil
}

func (uc *CreateAppointment) resolvePatient(
	ctx context.Context,
	in CreateAppointmentInput,
) (uint, error) {

	if in.PatientID != 0 {
		return in.PatientID, nil
	}

	phone := validators.NormalizePhone(in.Phone)
	if phone == "" {
		return 0, httperr.ErrBusiness("invalid_phone")
	}

	patient, err := uc.repo.GetOrCreatePatient(ctx, in.Name, phone)
	if err != nil {
		return 0, err
	}
	return patient.ID, nil
}
