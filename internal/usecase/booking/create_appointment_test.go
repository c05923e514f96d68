package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/httperr"
)

// Tuesday. Lead time 2 makes Thursday 2026-09-03 the earliest bookable day.
var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newCreateUC(repo *fakeRepo, cache *fakeCache) *CreateAppointment {
	uc := NewCreateAppointment(repo, cache, 2)
	uc.now = func() time.Time { return testNow }
	return uc
}

func dateAt(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func TestCreateAppointmentLeadTimeBoundary(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	ctx := context.Background()

	// T+1 is inside the lead-time block.
	_, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-02"), Time: "10:00", PatientID: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeIneligibleDate) {
		t.Fatalf("expected ineligible_date for T+1, got %v", err)
	}

	// T+2 is the boundary and must pass.
	if _, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-03"), Time: "10:00", PatientID: 1,
	}); err != nil {
		t.Fatalf("expected T+2 booking to succeed, got %v", err)
	}
}

func TestCreateAppointmentRejectsInvalidSlot(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	ctx := context.Background()

	// Sunday is closed.
	_, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-06"), Time: "10:00", PatientID: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidSlot) {
		t.Fatalf("expected invalid_slot on a closed day, got %v", err)
	}

	// Off the slot grid.
	_, err = uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-07"), Time: "10:15", PatientID: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidSlot) {
		t.Fatalf("expected invalid_slot for an off-grid time, got %v", err)
	}
}

func TestCreateAppointmentFrequencyWindow(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	ctx := context.Background()

	// Existing booking on Thursday 2026-09-10.
	if _, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-10"), Time: "10:00", PatientID: 7,
	}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	rejected := []string{
		"2026-09-10", // same day, different time
		"2026-09-16", // T+6, window edge
		"2026-09-04", // T-6, window edge
	}
	for _, d := range rejected {
		_, err := uc.Execute(ctx, CreateAppointmentInput{
			Date: dateAt(t, d), Time: "10:30", PatientID: 7,
		})
		if !httperr.IsBusiness(err, httperr.CodeFrequencyViolation) {
			t.Fatalf("expected frequency_violation for %s, got %v", d, err)
		}
	}

	// T+7 is outside the window.
	if _, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-17"), Time: "10:30", PatientID: 7,
	}); err != nil {
		t.Fatalf("expected T+7 booking to succeed, got %v", err)
	}

	// A different patient is unaffected by the first patient's window.
	if _, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-10"), Time: "11:00", PatientID: 8,
	}); err != nil {
		t.Fatalf("other patient should book freely, got %v", err)
	}
}

func TestCreateAppointmentResolvesPatientByPhone(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	ctx := context.Background()

	ap, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: dateAt(t, "2026-09-03"), Time: "10:00",
		Name: "Ana López", Phone: " 55-12 34 5678 ",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if ap.PatientID == nil {
		t.Fatalf("expected a resolved patient id")
	}

	p, found, _ := repo.FindPatientByPhone(ctx, "5512345678")
	if !found {
		t.Fatalf("patient should be created under the normalized phone")
	}
	if p.ID != *ap.PatientID {
		t.Fatalf("appointment references patient %d, created %d", *ap.PatientID, p.ID)
	}

	// Same phone in a different spelling resolves to the same patient.
	p2, err := repo.GetOrCreatePatient(ctx, "Ana", "5512345678")
	if err != nil || p2.ID != p.ID {
		t.Fatalf("expected idempotent resolution, got id=%d err=%v", p2.ID, err)
	}
}

func TestCreateAppointmentInvalidatesCache(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	ctx := context.Background()
	date := dateAt(t, "2026-09-03")

	cache.Set(ctx, date, []string{"10:00", "10:30"})

	if _, err := uc.Execute(ctx, CreateAppointmentInput{
		Date: date, Time: "10:00", PatientID: 1,
	}); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if _, ok := cache.Get(ctx, date); ok {
		t.Fatalf("cache entry for the booked date must be invalidated")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "2026-09-03" {
		t.Fatalf("expected exactly the booked date invalidated, got %v", cache.invalidated)
	}
}

func TestCreateAppointmentRace(t *testing.T) {
	repo, cache := newFakeRepo(), newFakeCache()
	uc := newCreateUC(repo, cache)
	date := dateAt(t, "2026-09-03")

	const n = 20
	results := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(patientID uint) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				Date: date, Time: "10:00", PatientID: patientID,
			})
			results <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)

	var successes, taken int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, httperr.CodeSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected outcome: %v", err)
		}
	}

	if successes != 1 || taken != n-1 {
		t.Fatalf("expected exactly 1 success and %d slot_taken, got %d / %d", n-1, successes, taken)
	}
}
