package appointment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

// activeStatuses are the states reminders are sent for.
var activeStatuses = []string{StatusPending, StatusConfirmed}

const (
	DayLayout   = "2006-01-02"
	ClockLayout = "15:04"
)

// Party is the doctor or patient side of an appointment as shown to clients.
type Party struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact,omitempty"`
	Speciality   string    `json:"speciality,omitempty"`
	Availability string    `json:"availability,omitempty"`
}

// Appointment maps to the appointments table. Day and Time are kept in their
// wire forms, YYYY-MM-DD and HH:MM.
type Appointment struct {
	ID                       uuid.UUID  `db:"id" json:"id"`
	DoctorID                 uuid.UUID  `db:"doctor_id" json:"doctorId"`
	PatientID                uuid.UUID  `db:"patient_id" json:"patientId"`
	Day                      string     `db:"day" json:"day"`
	Time                     string     `db:"time" json:"time"`
	Description              string     `db:"description" json:"description"`
	Symptoms                 string     `db:"symptoms" json:"symptoms"`
	Status                   string     `db:"status" json:"status"`
	RoomID                   string     `db:"room_id" json:"roomId"`
	IsFollowUp               bool       `db:"is_follow_up" json:"isFollowUp"`
	ParentAppointmentID      *uuid.UUID `db:"parent_appointment_id" json:"parentAppointmentId,omitempty"`
	FollowUpInstructions     string     `db:"follow_up_instructions" json:"followUpInstructions,omitempty"`
	FollowUpNotificationSent bool       `db:"follow_up_notification_sent" json:"-"`
	SameDayReminderSent      bool       `db:"same_day_reminder_sent" json:"-"`
	ReminderSent             bool       `db:"reminder_sent" json:"-"`
	CreatedAt                time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt                time.Time  `db:"updated_at" json:"updatedAt"`

	Doctor  *Party `json:"doctor,omitempty"`
	Patient *Party `json:"patient,omitempty"`
}

// StartsAt resolves Day and Time in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout+" "+ClockLayout, a.Day+" "+a.Time, loc)
}

// CreateInput is the body of POST /appointment/new.
type CreateInput struct {
	Doctor      string `json:"doctor"`
	Description string `json:"description"`
	Symptoms    string `json:"symptoms"`
	Day         string `json:"day" validate:"omitempty,date"`
	Time        string `json:"time" validate:"omitempty,clock"`
}

// FollowUpInput is the body of POST /appointment/followup.
type FollowUpInput struct {
	AppointmentID        string `json:"appointmentId"`
	FollowUpDate         string `json:"followUpDate" validate:"omitempty,date"`
	FollowUpTime         string `json:"followUpTime" validate:"omitempty,clock"`
	FollowUpInstructions string `json:"followUpInstructions"`
}

// ListFilter selects appointments for one side of the relationship.
type ListFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    string
}

// Slots is the response of the availability lookup.
type Slots struct {
	AvailableSlots []string `json:"availableSlots"`
	Doctor         Party    `json:"doctor"`
	Date           string   `json:"date"`
}

// ReminderKind names one of the once-only reminder flags.
type ReminderKind string

const (
	ReminderFollowUp ReminderKind = "follow_up"
	ReminderSameDay  ReminderKind = "same_day"
	ReminderStart    ReminderKind = "start"
)

var (
	ErrNotFound       = apperr.NotFound("Appointment not found")
	ErrDoctorNotFound = apperr.NotFound("Doctor not found")
	ErrSlotTaken      = apperr.Invalid("This time slot is already booked")
	ErrInvalidDay     = apperr.Invalid("Invalid date format. Use YYYY-MM-DD")
)

// DailySlots lists bookable start times: 09:00 to 16:30 every 30 minutes.
func DailySlots() []string {
	slots := make([]string, 0, 16)
	for hour := 9; hour < 17; hour++ {
		for _, minute := range []int{0, 30} {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

func isSlot(t string) bool {
	for _, s := range DailySlots() {
		if s == t {
			return true
		}
	}
	return false
}

const roomAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRoomID returns a 10 character lowercase alphanumeric video room id.
func NewRoomID() string {
	b := make([]byte, 10)
	base := big.NewInt(int64(len(roomAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			panic(fmt.Sprintf("room id: %v", err))
		}
		b[i] = roomAlphabet[n.Int64()]
	}
	return string(b)
}
