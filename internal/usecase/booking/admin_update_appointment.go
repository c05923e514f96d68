package booking

import (
	"context"

	"github.com/MartinRAM24/app-gestion-citas/internal/audit"
	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
	"github.com/MartinRAM24/app-gestion-citas/internal/validators"
)

type AdminUpdateAppointmentInput struct {
	AppointmentID uint

	Name  string
	Phone string
	Note  string
}

// AdminUpdateAppointment reassigns an existing appointment to a patient
// (resolved or created by phone) and replaces its note. Date and time are
// immutable; rescheduling is delete plus create.
type AdminUpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAdminUpdateAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *AdminUpdateAppointment {
	return &AdminUpdateAppointment{repo: repo, audit: auditDispatcher}
}

func (uc *AdminUpdateAppointment) Execute(
	ctx context.Context,
	in AdminUpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, found, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	phone := validators.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, httperr.ErrBusiness("invalid_phone")
	}

	patient, err := uc.repo.GetOrCreatePatient(ctx, in.Name, phone)
	if err != nil {
		return nil, err
	}

	ap.PatientID = &patient.ID
	ap.Note = in.Note

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	ap.Patient = patient
	return ap, nil
}
