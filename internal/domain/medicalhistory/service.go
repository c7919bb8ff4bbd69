package medicalhistory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type AppointmentLister interface {
	List(ctx context.Context, f appointment.ListFilter) ([]*appointment.Appointment, error)
}

type PrescriptionLister interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*prescription.Prescription, error)
}

type Service struct {
	repo          Repository
	users         UserLookup
	appointments  AppointmentLister
	prescriptions PrescriptionLister
	logger        zerolog.Logger
	now           func() time.Time
}

func NewService(repo Repository, users UserLookup, appointments AppointmentLister, prescriptions PrescriptionLister, logger zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		users:         users,
		appointments:  appointments,
		prescriptions: prescriptions,
		logger:        logger,
		now:           time.Now,
	}
}

// Add appends an analysed image to the caller's history and returns the
// whole history.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, in AddInput) ([]*Record, error) {
	if strings.TrimSpace(in.Analysis) == "" {
		return nil, apperr.Invalid("Analysis is required")
	}
	if strings.TrimSpace(in.URL) == "" {
		return nil, apperr.Invalid("Image details are required")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	rec := &Record{UserID: userID, Image: Image{URL: strings.TrimSpace(in.URL)}, Analysis: in.Analysis}
	if err := s.repo.Add(ctx, rec); err != nil {
		return nil, fmt.Errorf("add medical history: %w", err)
	}
	return s.repo.ListByUser(ctx, userID)
}

func canView(viewerID uuid.UUID, role string, subject uuid.UUID) bool {
	return role == auth.RoleDoctor || role == auth.RoleAdmin || viewerID == subject
}

// Get returns subject's history. Doctors may read anyone's; everyone else
// only their own.
func (s *Service) Get(ctx context.Context, viewerID uuid.UUID, role string, subject uuid.UUID) ([]*Record, error) {
	if _, err := s.users.GetByID(ctx, subject); err != nil {
		return nil, err
	}
	if !canView(viewerID, role, subject) {
		return nil, ErrForbidden
	}
	return s.repo.ListByUser(ctx, subject)
}

// CompleteData bundles the patient profile with history, appointments and
// prescriptions for export.
func (s *Service) CompleteData(ctx context.Context, viewerID uuid.UUID, role string, patientID uuid.UUID) (*PatientData, error) {
	u, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, apperr.NotFound("Patient not found")
		}
		return nil, err
	}
	if !canView(viewerID, role, patientID) {
		return nil, ErrForbidden
	}

	history, err := s.repo.ListByUser(ctx, patientID)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.List(ctx, appointment.ListFilter{PatientID: &patientID})
	if err != nil {
		return nil, err
	}
	rx, err := s.prescriptions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	data := &PatientData{
		PatientID:      u.ID,
		Name:           u.Name,
		Contact:        u.Contact,
		Role:           u.Role,
		IsActive:       !u.IsBlocked,
		CreatedAt:      u.CreatedAt,
		LastUpdated:    s.now().UTC(),
		System:         systemName,
		MedicalHistory: nonNil(history),
		Appointments:   nonNil(appts),
		Prescriptions:  nonNil(rx),
	}
	if u.Speciality != "" {
		data.Speciality = &u.Speciality
	}
	if u.AvatarURL != "" {
		data.Avatar = &u.AvatarURL
	}
	s.logger.Debug().Str("patient_id", patientID.String()).Str("viewer_id", viewerID.String()).Msg("patient data exported")
	return data, nil
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
