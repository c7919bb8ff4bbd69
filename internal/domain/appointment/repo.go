package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts a, returning ErrSlotTaken if the doctor's slot is held.
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// List returns matches newest first (day, then time, descending).
	List(ctx context.Context, f ListFilter) ([]*Appointment, error)
	// BookedTimes lists the non-cancelled start times for a doctor's day.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, day string) ([]string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// ListByDays returns appointments on the given days whose status is in
	// statuses, with both parties loaded.
	ListByDays(ctx context.Context, days []string, statuses []string) ([]*Appointment, error)
	// ClaimReminder sets the reminder flag for kind and reports whether this
	// call was the one that set it.
	ClaimReminder(ctx context.Context, id uuid.UUID, kind ReminderKind) (bool, error)
}
