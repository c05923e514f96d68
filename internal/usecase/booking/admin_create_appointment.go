package booking

import (
	"context"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/audit"
	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
	"github.com/MartinRAM24/app-gestion-citas/internal/validators"
)

type AdminCreateAppointmentInput struct {
	Date time.Time
	Time string

	Name  string
	Phone string
	Note  string
}

// AdminCreateAppointment books on behalf of a patient without the
// lead-time or frequency rules. Slot uniqueness still applies: a lost
// race surfaces as slot_taken exactly like the self-service path.
type AdminCreateAppointment struct {
	repo  domain.Repository
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
}

func NewAdminCreateAppointment(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *AdminCreateAppointment {
	return &AdminCreateAppointment{
		repo:  repo,
		cache: cache,
		audit: auditDispatcher,
	}
}

func (uc *AdminCreateAppointment) Execute(
	ctx context.Context,
	in AdminCreateAppointmentInput,
) (*models.Appointment, error) {

	date := timezone.DateOf(in.Date)

	if !domain.IsValidSlot(date, in.Time) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidSlot)
	}

	phone := validators.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	patient, err := uc.repo.GetOrCreatePatient(ctx, in.Name, phone)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		Date:      date,
		Time:      in.Time,
		PatientID: &patient.ID,
		Note:      in.Note,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, date)

	uc.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	ap.Patient = patient
	return ap, nil
}
