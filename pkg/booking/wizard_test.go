package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/pkg/apiclient"
)

var _ Booker = (*apiclient.Client)(nil)

type fakeBooker struct {
	slots  []string
	booked []appointment.CreateInput
	err    error
}

func (f *fakeBooker) AvailableSlots(_ context.Context, _, day string) (*appointment.Slots, error) {
	return &appointment.Slots{AvailableSlots: f.slots, Date: day}, nil
}

func (f *fakeBooker) BookAppointment(_ context.Context, in appointment.CreateInput) (*appointment.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.booked = append(f.booked, in)
	return &appointment.Appointment{Day: in.Day, Time: in.Time, Status: appointment.StatusPending}, nil
}

func TestNext_RequiresField(t *testing.T) {
	w := New("doc-1")
	assert.False(t, w.Next(), "no day yet")
	assert.Equal(t, StepDay, w.Step)

	w.SetDay("2026-03-11")
	assert.True(t, w.Next())
	assert.Equal(t, StepTime, w.Step)

	assert.False(t, w.Next(), "no time yet")
	assert.Equal(t, StepTime, w.Step)

	require.NoError(t, w.SetTime("10:00"))
	assert.True(t, w.Next())
	assert.Equal(t, StepConfirm, w.Step)

	assert.False(t, w.Next(), "confirm is the last step")
	assert.Equal(t, StepConfirm, w.Step)
}

func TestBack_KeepsValues(t *testing.T) {
	w := New("doc-1")
	w.SetDay("2026-03-11")
	w.Next()
	require.NoError(t, w.SetTime("10:00"))
	w.Next()

	w.Back()
	w.Back()
	w.Back()
	assert.Equal(t, StepDay, w.Step)
	assert.Equal(t, "2026-03-11", w.Day)
	assert.Equal(t, "10:00", w.Time)

	// Values survive, so moving forward again needs no re-entry.
	assert.True(t, w.Next())
	assert.True(t, w.Next())
	assert.Equal(t, StepConfirm, w.Step)
}

func TestSetDay_ChangeDropsTime(t *testing.T) {
	w := New("doc-1")
	w.SetDay("2026-03-11")
	require.NoError(t, w.SetTime("10:00"))

	w.SetDay("2026-03-11")
	assert.Equal(t, "10:00", w.Time)

	w.SetDay("2026-03-12")
	assert.Empty(t, w.Time)
}

func TestLoadSlots_ValidatesTime(t *testing.T) {
	b := &fakeBooker{slots: []string{"09:00", "09:30"}}
	w := New("doc-1")

	_, err := w.LoadSlots(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotReady)

	w.SetDay("2026-03-11")
	slots, err := w.LoadSlots(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, slots)

	assert.ErrorIs(t, w.SetTime("10:00"), ErrSlotUnavailable)
	assert.NoError(t, w.SetTime("09:30"))
}

func TestSubmit(t *testing.T) {
	b := &fakeBooker{}
	w := New("doc-1")
	w.Description = "Checkup"
	w.Symptoms = "fever"

	_, err := w.Submit(context.Background(), b)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, b.booked)

	w.SetDay("2026-03-11")
	w.Next()
	require.NoError(t, w.SetTime("10:00"))
	w.Next()

	a, err := w.Submit(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "10:00", a.Time)
	require.Len(t, b.booked, 1)
	assert.Equal(t, appointment.CreateInput{
		Doctor: "doc-1", Description: "Checkup", Symptoms: "fever", Day: "2026-03-11", Time: "10:00",
	}, b.booked[0])

	s := w.Result.State()
	assert.False(t, s.Loading)
	assert.True(t, s.Success)
	assert.Equal(t, a, s.Data)
}

func TestSubmit_Failure(t *testing.T) {
	b := &fakeBooker{err: &apiclient.APIError{Status: 400, Message: "This time slot is already booked"}}
	w := New("doc-1")
	w.SetDay("2026-03-11")
	w.Next()
	require.NoError(t, w.SetTime("10:00"))
	w.Next()

	_, err := w.Submit(context.Background(), b)
	require.Error(t, err)
	assert.Equal(t, "This time slot is already booked", w.Result.State().Error)
	assert.Equal(t, StepConfirm, w.Step)
}
