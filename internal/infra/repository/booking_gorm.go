package repository

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

const dateLayout = "2006-01-02"

// --------------------------------------------------
// Error classification
// --------------------------------------------------

// isUniqueViolation matches Postgres 23505 on the slot index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// isConnFailure matches transient connectivity problems (Postgres class 08,
// network errors, timeouts) worth one retry.
func isConnFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08")
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

func asStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if isConnFailure(err) {
		return httperr.ErrBusiness(httperr.CodeStorageUnavailable)
	}
	return err
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *BookingGormRepository) FindPatientByPhone(
	ctx context.Context,
	phone string,
) (*models.Patient, bool, error) {

	var p models.Patient
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, asStorageErr(err)
	}
	return &p, true, nil
}

func (r *BookingGormRepository) CreatePatient(
	ctx context.Context,
	p *models.Patient,
) error {
	return asStorageErr(r.db.WithContext(ctx).Create(p).Error)
}

func (r *BookingGormRepository) GetOrCreatePatient(
	ctx context.Context,
	name string,
	phone string,
) (*models.Patient, error) {

	p, found, err := r.FindPatientByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if found {
		return p, nil
	}

	created := models.Patient{
		Name:  strings.TrimSpace(name),
		Phone: phone,
	}

	err = r.db.WithContext(ctx).Create(&created).Error
	if isUniqueViolation(err) {
		// lost a create race on the phone key; the row exists now
		p, found, ferr := r.FindPatientByPhone(ctx, phone)
		if ferr == nil && found {
			return p, nil
		}
	}
	if err != nil {
		return nil, asStorageErr(err)
	}

	return &created, nil
}

// --------------------------------------------------
// Eligibility reads
// --------------------------------------------------

func (r *BookingGormRepository) HasAppointmentInWindow(
	ctx context.Context,
	patientID uint,
	from time.Time,
	to time.Time,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"patient_id = ? AND date BETWEEN ? AND ?",
			patientID,
			from.Format(dateLayout),
			to.Format(dateLayout),
		).
		Count(&count).Error
	if err != nil {
		return false, asStorageErr(err)
	}

	return count > 0, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) OccupiedTimes(
	ctx context.Context,
	date time.Time,
) ([]string, error) {

	var times []string
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date = ?", date.Format(dateLayout)).
		Order("time ASC").
		Pluck("time", &times).Error
	if err != nil {
		return nil, asStorageErr(err)
	}

	return times, nil
}

// --------------------------------------------------
// Appointment writes
// --------------------------------------------------

// CreateAppointment inserts against the (date, time) unique index. The
// index, not the availability pre-check, decides races: a violation comes
// back as slot_taken. Connection failures get one retry before surfacing
// as storage_unavailable.
func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Create(ap).Error
	if isConnFailure(err) {
		err = r.db.WithContext(ctx).Create(ap).Error
	}

	if isUniqueViolation(err) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	return asStorageErr(err)
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return asStorageErr(r.db.WithContext(ctx).Save(ap).Error)
}

func (r *BookingGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) (bool, error) {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return false, asStorageErr(res.Error)
	}

	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Appointment reads
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, bool, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).First(&ap, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, asStorageErr(err)
	}

	return &ap, true, nil
}

func (r *BookingGormRepository) ListAppointmentsForDate(
	ctx context.Context,
	date time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("date = ?", date.Format(dateLayout)).
		Order("time ASC").
		Find(&apps).Error
	if err != nil {
		return nil, asStorageErr(err)
	}

	return apps, nil
}

func (r *BookingGormRepository) NextAppointmentForPatient(
	ctx context.Context,
	patientID uint,
	now time.Time,
) (*models.Appointment, bool, error) {

	today := now.Format(dateLayout)
	hm := now.Format("15:04")

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"patient_id = ? AND (date > ? OR (date = ? AND time >= ?))",
			patientID, today, today, hm,
		).
		Order("date ASC, time ASC").
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, asStorageErr(err)
	}

	return &ap, true, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
