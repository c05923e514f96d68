package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
	"github.com/MartinRAM24/app-gestion-citas/internal/models"
)

// fakeRepo is an in-memory Repository that mirrors the database contract,
// including the (date, time) uniqueness check under a lock so concurrent
// CreateAppointment calls behave like racing inserts.
type fakeRepo struct {
	mu sync.Mutex

	patientsByPhone map[string]*models.Patient
	patientsByID    map[uint]*models.Patient
	nextPatientID   uint

	appointments map[uint]*models.Appointment
	slots        map[string]uint
	nextApptID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patientsByPhone: map[string]*models.Patient{},
		patientsByID:    map[uint]*models.Patient{},
		appointments:    map[uint]*models.Appointment{},
		slots:           map[string]uint{},
	}
}

func newAppt(date time.Time, hm string, patientID uint) *models.Appointment {
	return &models.Appointment{Date: date, Time: hm, PatientID: &patientID}
}

func newOrphanAppt(date time.Time, hm string) *models.Appointment {
	return &models.Appointment{Date: date, Time: hm}
}

func slotKey(date time.Time, hm string) string {
	return date.Format("2006-01-02") + "|" + hm
}

func (r *fakeRepo) FindPatientByPhone(_ context.Context, phone string) (*models.Patient, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patientsByPhone[phone]
	return p, ok, nil
}

func (r *fakeRepo) CreatePatient(_ context.Context, p *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.patientsByPhone[p.Phone]; exists {
		return httperr.ErrBusiness("phone_already_registered")
	}
	r.nextPatientID++
	p.ID = r.nextPatientID
	r.patientsByPhone[p.Phone] = p
	r.patientsByID[p.ID] = p
	return nil
}

func (r *fakeRepo) GetOrCreatePatient(_ context.Context, name, phone string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.patientsByPhone[phone]; ok {
		return p, nil
	}
	r.nextPatientID++
	p := &models.Patient{ID: r.nextPatientID, Name: strings.TrimSpace(name), Phone: phone}
	r.patientsByPhone[phone] = p
	r.patientsByID[p.ID] = p
	return p, nil
}

func (r *fakeRepo) HasAppointmentInWindow(_ context.Context, patientID uint, from, to time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.PatientID == nil || *ap.PatientID != patientID {
			continue
		}
		if !ap.Date.Before(from) && !ap.Date.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) OccupiedTimes(_ context.Context, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var times []string
	day := date.Format("2006-01-02")
	for _, ap := range r.appointments {
		if ap.Date.Format("2006-01-02") == day {
			times = append(times, ap.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(ap.Date, ap.Time)
	if _, taken := r.slots[key]; taken {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	r.nextApptID++
	ap.ID = r.nextApptID
	ap.CreatedAt = time.Now()
	stored := *ap
	r.appointments[ap.ID] = &stored
	r.slots[key] = ap.ID
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[ap.ID]; !ok {
		return fmt.Errorf("update of unknown appointment %d", ap.ID)
	}
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return false, nil
	}
	delete(r.slots, slotKey(ap.Date, ap.Time))
	delete(r.appointments, id)
	return true, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return nil, false, nil
	}
	cp := *ap
	return &cp, true, nil
}

func (r *fakeRepo) ListAppointmentsForDate(_ context.Context, date time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var apps []models.Appointment
	day := date.Format("2006-01-02")
	for _, ap := range r.appointments {
		if ap.Date.Format("2006-01-02") != day {
			continue
		}
		cp := *ap
		if cp.PatientID != nil {
			cp.Patient = r.patientsByID[*cp.PatientID]
		}
		apps = append(apps, cp)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Time < apps[j].Time })
	return apps, nil
}

func (r *fakeRepo) NextAppointmentForPatient(_ context.Context, patientID uint, now time.Time) (*models.Appointment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Format("2006-01-02") + "|" + now.Format("15:04")

	var best *models.Appointment
	var bestKey string
	for _, ap := range r.appointments {
		if ap.PatientID == nil || *ap.PatientID != patientID {
			continue
		}
		key := slotKey(ap.Date, ap.Time)
		if key < cutoff {
			continue
		}
		if best == nil || key < bestKey {
			best, bestKey = ap, key
		}
	}
	if best == nil {
		return nil, false, nil
	}
	cp := *best
	return &cp, true, nil
}

// fakeCache stores entries until explicitly invalidated, which makes the
// staleness window observable in tests.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]string
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]string{}}
}

func (c *fakeCache) Get(_ context.Context, date time.Time) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.entries[date.Format("2006-01-02")]
	return slots, ok
}

func (c *fakeCache) Set(_ context.Context, date time.Time, slots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[date.Format("2006-01-02")] = slots
}

func (c *fakeCache) Invalidate(_ context.Context, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := date.Format("2006-01-02")
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
}

// fakeSender records deliveries and fails for configured numbers.
type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{failFor: map[string]bool{}}
}

func (s *fakeSender) Send(_ context.Context, toE164, _, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[toE164] {
		return fmt.Errorf("delivery rejected for %s", toE164)
	}
	s.sent = append(s.sent, toE164)
	return nil
}
