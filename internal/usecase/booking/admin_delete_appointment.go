package booking

import (
	"context"

	"github.com/MartinRAM24/app-gestion-citas/internal/audit"
	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
)

// AdminDeleteAppointment frees a slot. Deleting an id that no longer
// exists reports not_found instead of failing the request.
type AdminDeleteAppointment struct {
	repo  domain.Repository
	cache domain.AvailabilityCache
	audit *audit.Dispatcher
}

func NewAdminDeleteAppointment(
	repo domain.Repository,
	cache domain.AvailabilityCache,
	auditDispatcher *audit.Dispatcher,
) *AdminDeleteAppointment {
	return &AdminDeleteAppointment{
		repo:  repo,
		cache: cache,
		audit: auditDispatcher,
	}
}

func (uc *AdminDeleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
) error {

	ap, found, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !found {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	deleted, err := uc.repo.DeleteAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if !deleted {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	// The slot is free again; drop the date's cached view.
	uc.cache.Invalidate(ctx, ap.Date)

	uc.audit.Dispatch(audit.Event{
		Actor:    "admin",
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}
