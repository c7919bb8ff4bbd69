package prescription

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
)

type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Visit is the appointment summary attached to a prescription.
type Visit struct {
	ID   uuid.UUID `json:"id"`
	Day  string    `json:"day"`
	Time string    `json:"time"`
}

type Prescription struct {
	ID                   uuid.UUID    `db:"id" json:"id"`
	PrescriptionNumber   string       `db:"prescription_number" json:"prescriptionNumber"`
	PatientID            uuid.UUID    `db:"patient_id" json:"patientId"`
	DoctorID             uuid.UUID    `db:"doctor_id" json:"doctorId"`
	AppointmentID        *uuid.UUID   `db:"appointment_id" json:"appointmentId,omitempty"`
	Medications          []Medication `db:"medications" json:"medications"`
	Diagnosis            string       `db:"diagnosis" json:"diagnosis"`
	Symptoms             string       `db:"symptoms" json:"symptoms,omitempty"`
	Notes                string       `db:"notes" json:"notes,omitempty"`
	FollowUpInstructions string       `db:"follow_up_instructions" json:"followUpInstructions,omitempty"`
	CreatedAt            time.Time    `db:"created_at" json:"createdAt"`

	Patient     *appointment.Party `json:"patient,omitempty"`
	Doctor      *appointment.Party `json:"doctor,omitempty"`
	Appointment *Visit             `json:"appointment,omitempty"`
}

type CreateInput struct {
	PatientID            string       `json:"patientId"`
	AppointmentID        string       `json:"appointmentId"`
	Medications          []Medication `json:"medications"`
	Notes                string       `json:"notes"`
	Diagnosis            string       `json:"diagnosis"`
	Symptoms             string       `json:"symptoms"`
	FollowUpInstructions string       `json:"followUpInstructions"`
}

const (
	maxDiagnosis    = 1000
	maxNotes        = 2000
	maxSymptoms     = 1000
	maxInstructions = 1000
)

var (
	ErrNotFound  = apperr.NotFound("Prescription not found")
	ErrForbidden = apperr.Forbidden("Not authorized to view this prescription")
)

const numberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewNumber returns RX followed by the unix millisecond time and five
// uppercase alphanumerics.
func NewNumber(now time.Time) string {
	suffix := make([]byte, 5)
	base := big.NewInt(int64(len(numberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			panic(fmt.Sprintf("prescription number: %v", err))
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("RX%d%s", now.UnixMilli(), suffix)
}
