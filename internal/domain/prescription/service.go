package prescription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

// AppointmentLookup resolves the visit a prescription is written for.
type AppointmentLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

type Service struct {
	repo         Repository
	appointments AppointmentLookup
	logger       zerolog.Logger
	now          func() time.Time
}

func NewService(repo Repository, appointments AppointmentLookup, logger zerolog.Logger) *Service {
	return &Service{repo: repo, appointments: appointments, logger: logger, now: time.Now}
}

func validateMedications(meds []Medication) error {
	if len(meds) == 0 {
		return apperr.Invalid("Please provide at least one medication")
	}
	for i, m := range meds {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" || strings.TrimSpace(m.Frequency) == "" {
			return apperr.Invalid(fmt.Sprintf("Medication %d is missing required fields (name, dosage, frequency)", i+1))
		}
	}
	return nil
}

func checkLength(field, value string, max int) error {
	if len([]rune(value)) > max {
		return apperr.Invalid(fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
	return nil
}

// Create records a prescription written by doctorID for one of their
// appointments. A missing patient id is taken from the appointment.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, in CreateInput) (*Prescription, error) {
	in.Diagnosis = strings.TrimSpace(in.Diagnosis)
	if in.AppointmentID == "" || in.Medications == nil || in.Diagnosis == "" {
		return nil, apperr.Invalid("Please provide all required fields (patientId, appointmentId, medications, diagnosis)")
	}
	apptID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return nil, appointment.ErrNotFound
	}
	appt, err := s.appointments.GetByID(ctx, apptID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, apperr.Forbidden("Only the assigned doctor can write a prescription for this appointment")
	}

	patientID := appt.PatientID
	if in.PatientID != "" {
		id, err := uuid.Parse(in.PatientID)
		if err != nil || id != appt.PatientID {
			return nil, apperr.Invalid("Patient does not match the appointment")
		}
		patientID = id
	}

	if err := validateMedications(in.Medications); err != nil {
		return nil, err
	}
	for _, c := range []struct {
		field, value string
		max          int
	}{
		{"Diagnosis", in.Diagnosis, maxDiagnosis},
		{"Notes", in.Notes, maxNotes},
		{"Symptoms", in.Symptoms, maxSymptoms},
		{"Follow-up instructions", in.FollowUpInstructions, maxInstructions},
	} {
		if err := checkLength(c.field, c.value, c.max); err != nil {
			return nil, err
		}
	}

	p := &Prescription{
		PrescriptionNumber:   NewNumber(s.now()),
		PatientID:            patientID,
		DoctorID:             doctorID,
		AppointmentID:        &appt.ID,
		Medications:          in.Medications,
		Diagnosis:            in.Diagnosis,
		Symptoms:             in.Symptoms,
		Notes:                in.Notes,
		FollowUpInstructions: in.FollowUpInstructions,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create prescription: %w", err)
	}
	p.Patient = appt.Patient
	p.Doctor = appt.Doctor
	p.Appointment = &Visit{ID: appt.ID, Day: appt.Day, Time: appt.Time}

	s.logger.Info().
		Str("prescription", p.PrescriptionNumber).
		Str("appointment_id", appt.ID.String()).
		Msg("prescription created")
	return p, nil
}

// List returns the prescriptions a doctor wrote, or a patient received.
func (s *Service) List(ctx context.Context, userID uuid.UUID, role string) ([]*Prescription, error) {
	if role == auth.RoleDoctor {
		return s.repo.ListByDoctor(ctx, userID)
	}
	return s.repo.ListByPatient(ctx, userID)
}

// Get returns a prescription to doctors, admins and the patient it names.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID, role string) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != auth.RoleDoctor && role != auth.RoleAdmin && p.PatientID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}
