package medicalhistory

import (
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
)

// Image is where the analysed upload lives.
type Image struct {
	URL string `json:"url"`
}

// Record is one analysed medical image. Analysis is stored as produced
// upstream and never interpreted here.
type Record struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Image     Image     `json:"image"`
	Analysis  string    `db:"analysis" json:"analysis"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type AddInput struct {
	Analysis string `json:"analysis"`
	URL      string `json:"url"`
}

// PatientData is the export bundle behind the patient QR code.
type PatientData struct {
	PatientID      uuid.UUID                    `json:"patientId"`
	Name           string                       `json:"name"`
	Contact        string                       `json:"contact"`
	Role           string                       `json:"role"`
	Speciality     *string                      `json:"speciality"`
	Avatar         *string                      `json:"avatar"`
	IsActive       bool                         `json:"isActive"`
	CreatedAt      time.Time                    `json:"createdAt"`
	LastUpdated    time.Time                    `json:"lastUpdated"`
	System         string                       `json:"system"`
	MedicalHistory []*Record                    `json:"medicalHistory"`
	Appointments   []*appointment.Appointment   `json:"appointments"`
	Prescriptions  []*prescription.Prescription `json:"prescriptions"`
}

const systemName = "CureConnect Healthcare System"

var ErrForbidden = apperr.Forbidden("Not authorized to view this medical history")
