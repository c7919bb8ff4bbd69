package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

// ReminderOptions configures the reminder worker.
type ReminderOptions struct {
	Interval    time.Duration
	Location    *time.Location
	RoomBaseURL string
	// FollowUpHour is the local hour from which tomorrow's reminders go out.
	FollowUpHour int
	Logger       zerolog.Logger
}

// ReminderRun counts what one pass sent.
type ReminderRun struct {
	FollowUp int `json:"followUp"`
	SameDay  int `json:"sameDay"`
	Start    int `json:"start"`
}

// Reminder polls for appointments that are due a reminder. Each reminder is
// claimed through a flag on the row before it is sent, so overlapping passes
// and multiple instances never send the same one twice.
type Reminder struct {
	repo     Repository
	notifier notification.Notifier
	opts     ReminderOptions
	now      func() time.Time
}

func NewReminder(repo Repository, notifier notification.Notifier, opts ReminderOptions) *Reminder {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.FollowUpHour == 0 {
		opts.FollowUpHour = 9
	}
	return &Reminder{repo: repo, notifier: notifier, opts: opts, now: time.Now}
}

// Start runs RunOnce every interval until ctx is cancelled.
func (r *Reminder) Start(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single pass over today's and tomorrow's appointments.
func (r *Reminder) RunOnce(ctx context.Context) ReminderRun {
	var run ReminderRun
	now := r.now().In(r.opts.Location)
	today := now.Format(DayLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(DayLayout)

	list, err := r.repo.ListByDays(ctx, []string{today, tomorrow}, activeStatuses)
	if err != nil {
		r.opts.Logger.Error().Err(err).Msg("reminder: list appointments")
		return run
	}

	for _, a := range list {
		if ctx.Err() != nil {
			break
		}
		if a.Day == tomorrow {
			if now.Hour() >= r.opts.FollowUpHour && !a.FollowUpNotificationSent &&
				r.claim(ctx, a, ReminderFollowUp) {
				r.send(ctx, a, a.Patient, notification.TplFollowUpReminder)
				run.FollowUp++
			}
			continue
		}

		start, err := a.StartsAt(r.opts.Location)
		if err != nil {
			r.opts.Logger.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("reminder: bad start time")
			continue
		}
		until := start.Sub(now)

		if until > 90*time.Minute && until <= 150*time.Minute && !a.SameDayReminderSent &&
			r.claim(ctx, a, ReminderSameDay) {
			r.send(ctx, a, a.Patient, notification.TplSameDayReminder)
			run.SameDay++
		}
		if until > 0 && until <= 5*time.Minute && !a.ReminderSent &&
			r.claim(ctx, a, ReminderStart) {
			r.send(ctx, a, a.Patient, notification.TplAppointmentReminder)
			r.send(ctx, a, a.Doctor, notification.TplAppointmentReminder)
			run.Start++
		}
	}

	if run.FollowUp+run.SameDay+run.Start > 0 {
		r.opts.Logger.Info().
			Int("follow_up", run.FollowUp).
			Int("same_day", run.SameDay).
			Int("start", run.Start).
			Msg("reminders sent")
	}
	return run
}

func (r *Reminder) claim(ctx context.Context, a *Appointment, kind ReminderKind) bool {
	ok, err := r.repo.ClaimReminder(ctx, a.ID, kind)
	if err != nil {
		r.opts.Logger.Error().Err(err).Str("appointment_id", a.ID.String()).Str("kind", string(kind)).Msg("reminder: claim")
		return false
	}
	return ok
}

func (r *Reminder) send(ctx context.Context, a *Appointment, to *Party, tpl string) {
	if to == nil || to.Contact == "" {
		return
	}
	data := messageData(a, r.opts.RoomBaseURL)
	data["name"] = to.Name
	if _, err := r.notifier.Notify(ctx, to.Contact, tpl, data); err != nil {
		r.opts.Logger.Warn().Err(err).
			Str("appointment_id", a.ID.String()).
			Str("template", tpl).
			Msg("reminder delivery failed")
	}
}
