package booking

import (
	"context"
	"time"

	"github.com/MartinRAM24/app-gestion-citas/internal/audit"
	domain "github.com/MartinRAM24/app-gestion-citas/internal/domain/booking"
	"github.com/MartinRAM24/app-gestion-citas/internal/timezone"
	"github.com/MartinRAM24/app-gestion-citas/internal/validators"
)

// ReminderSender delivers one templated message to one recipient.
type ReminderSender interface {
	Send(ctx context.Context, toE164, name, dateTxt, timeTxt string) error
}

type ReminderDetail struct {
	AppointmentID uint   `json:"appointment_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	To            string `json:"to_e164"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	OK            bool   `json:"ok"`
	Error         string `json:"error,omitempty"`
}

type ReminderSummary struct {
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Details []ReminderDetail `json:"details"`
}

// SendReminders sweeps tomorrow's appointments and messages each patient.
// Failures are isolated per row: a bad number or a rejected send is
// recorded in the summary and the sweep continues.
type SendReminders struct {
	repo   domain.Repository
	sender ReminderSender
	audit  *audit.Dispatcher

	now func() time.Time
}

func NewSendReminders(
	repo domain.Repository,
	sender ReminderSender,
	auditDispatcher *audit.Dispatcher,
) *SendReminders {
	return &SendReminders{
		repo:   repo,
		sender: sender,
		audit:  auditDispatcher,
		now:    timezone.Now,
	}
}

func (uc *SendReminders) Execute(
	ctx context.Context,
	dryRun bool,
) (*ReminderSummary, error) {

	tomorrow := timezone.DateOf(uc.now()).AddDate(0, 0, 1)

	apps, err := uc.repo.ListAppointmentsForDate(ctx, tomorrow)
	if err != nil {
		return nil, err
	}

	summary := &ReminderSummary{Details: []ReminderDetail{}}

	for _, ap := range apps {
		if ap.Patient == nil {
			// orphaned appointment, nobody to remind
			continue
		}

		summary.Total++

		detail := ReminderDetail{
			AppointmentID: ap.ID,
			Name:          ap.Patient.Name,
			Phone:         ap.Patient.Phone,
			Date:          ap.Date.Format("02/01/2006"),
			Time:          ap.Time,
		}

		to, ok := validators.ToE164MX(ap.Patient.Phone)
		if !ok {
			detail.Error = "phone not convertible to E.164"
			summary.Failed++
			summary.Details = append(summary.Details, detail)
			continue
		}
		detail.To = to

		if dryRun {
			detail.OK = true
			summary.Sent++
			summary.Details = append(summary.Details, detail)
			continue
		}

		if err := uc.sender.Send(ctx, to, detail.Name, detail.Date, detail.Time); err != nil {
			detail.Error = err.Error()
			summary.Failed++
			summary.Details = append(summary.Details, detail)
			continue
		}

		detail.OK = true
		summary.Sent++
		summary.Details = append(summary.Details, detail)
	}

	if !dryRun {
		uc.audit.Dispatch(audit.Event{
			Actor:    "admin",
			Action:   "reminders_dispatched",
			Entity:   "appointment",
			Metadata: map[string]int{"total": summary.Total, "sent": summary.Sent, "failed": summary.Failed},
		})
	}

	return summary, nil
}
