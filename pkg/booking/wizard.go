// Package booking drives the three-step appointment booking flow: pick a
// day, pick a time, confirm.
package booking

import (
	"context"
	"errors"
	"slices"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/pkg/lifecycle"
)

// Wizard steps.
const (
	StepDay     = 1
	StepTime    = 2
	StepConfirm = 3
)

const bookFailed = "Failed to book appointment"

var (
	ErrNotReady        = errors.New("booking: day and time must be chosen before submitting")
	ErrSlotUnavailable = errors.New("booking: time is not one of the available slots")
)

// Booker is the part of apiclient.Client the wizard needs.
type Booker interface {
	AvailableSlots(ctx context.Context, doctorID, day string) (*appointment.Slots, error)
	BookAppointment(ctx context.Context, in appointment.CreateInput) (*appointment.Appointment, error)
}

// Wizard is the booking flow for one doctor. It is not safe for concurrent
// use; Result is.
type Wizard struct {
	Step        int
	DoctorID    string
	Day         string
	Time        string
	Description string
	Symptoms    string

	// slots is nil until LoadSlots succeeds for the current Day.
	slots []string

	Result *lifecycle.Store[*appointment.Appointment]
}

func New(doctorID string) *Wizard {
	return &Wizard{
		Step:     StepDay,
		DoctorID: doctorID,
		Result:   lifecycle.NewStore[*appointment.Appointment](nil),
	}
}

// SetDay picks the day. A different day drops the loaded slots and the time
// chosen for the old day.
func (w *Wizard) SetDay(day string) {
	if day != w.Day {
		w.slots = nil
		w.Time = ""
	}
	w.Day = day
}

// SetTime picks the time, checking it against the loaded slots if any.
func (w *Wizard) SetTime(clock string) error {
	if w.slots != nil && !slices.Contains(w.slots, clock) {
		return ErrSlotUnavailable
	}
	w.Time = clock
	return nil
}

// LoadSlots fetches the free times for the chosen day.
func (w *Wizard) LoadSlots(ctx context.Context, b Booker) ([]string, error) {
	if w.Day == "" {
		return nil, ErrNotReady
	}
	s, err := b.AvailableSlots(ctx, w.DoctorID, w.Day)
	if err != nil {
		return nil, err
	}
	w.slots = append([]string{}, s.AvailableSlots...)
	return w.slots, nil
}

// Next advances one step when the current step's field is set and reports
// whether it moved.
func (w *Wizard) Next() bool {
	switch {
	case w.Step == StepDay && w.Day != "":
		w.Step = StepTime
	case w.Step == StepTime && w.Time != "":
		w.Step = StepConfirm
	default:
		return false
	}
	return true
}

// Back returns to the previous step. Chosen values are kept.
func (w *Wizard) Back() {
	if w.Step > StepDay {
		w.Step--
	}
}

// Submit books the appointment from the confirm step, recording progress in
// Result.
func (w *Wizard) Submit(ctx context.Context, b Booker) (*appointment.Appointment, error) {
	if w.Step != StepConfirm || w.Day == "" || w.Time == "" {
		return nil, ErrNotReady
	}
	in := appointment.CreateInput{
		Doctor:      w.DoctorID,
		Description: w.Description,
		Symptoms:    w.Symptoms,
		Day:         w.Day,
		Time:        w.Time,
	}
	return lifecycle.Run(ctx, w.Result, bookFailed, func(ctx context.Context) (*appointment.Appointment, error) {
		return b.BookAppointment(ctx, in)
	})
}
