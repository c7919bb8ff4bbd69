package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
	"github.com/cureconnect/cureconnect/internal/platform/validation"
)

// Options carries the settings the service needs from configuration.
type Options struct {
	// AdminSecret gates admin self-registration. Empty disables it.
	AdminSecret string
	RoomBaseURL string
	Logger      zerolog.Logger
}

type Service struct {
	users       UserRepository
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	notifier    notification.Notifier
	opts        Options
	now         func() time.Time
}

func NewService(users UserRepository, tokens *auth.TokenManager, revocations auth.RevocationStore, notifier notification.Notifier, opts Options) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		notifier:    notifier,
		opts:        opts,
		now:         time.Now,
	}
}

// Users exposes the repository to packages composing on top of identity.
func (s *Service) Users() UserRepository { return s.users }

// LookupAccount backs the session middleware so blocks, deletions and role
// changes apply to sessions that are already open.
func (s *Service) LookupAccount(ctx context.Context, userID string) (*auth.Account, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, auth.ErrAccountNotFound
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, auth.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &auth.Account{Role: u.Role, Blocked: u.IsBlocked}, nil
}

// Register creates a patient, doctor or pharmacist account and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Role == "" {
		in.Role = auth.RolePatient
	}
	if in.Role == auth.RoleAdmin {
		return nil, apperr.Forbidden("Admin accounts cannot be created through public registration")
	}
	if !selfServiceRoles[in.Role] {
		return nil, apperr.Invalid(fmt.Sprintf("invalid role: %s", in.Role))
	}

	u := &User{
		Name:      in.Name,
		Contact:   in.Contact,
		Role:      in.Role,
		AvatarURL: in.AvatarURL,
	}
	if in.Role == auth.RoleDoctor {
		u.Speciality = strings.TrimSpace(in.Speciality)
	}
	if err := s.create(ctx, u, in.Password); err != nil {
		return nil, err
	}

	s.notify(ctx, u.Contact, notification.TplWelcome, map[string]string{"name": u.Name})
	return s.issue(u)
}

func (s *Service) create(ctx context.Context, u *User, password string) error {
	if u.Name == "" || u.Contact == "" {
		return apperr.Invalid("name and contact are required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Invalid(err.Error())
	}
	u.PasswordHash = hash

	if _, err := s.users.GetByContact(ctx, u.Contact); err == nil {
		return ErrContactTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("lookup contact: %w", err)
	}
	return s.users.Create(ctx, u)
}

// Login verifies credentials. Unknown contacts and wrong passwords share one
// message.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *Service) authenticate(ctx context.Context, in LoginInput) (*User, error) {
	contact := strings.TrimSpace(in.Contact)
	if contact == "" || in.Password == "" {
		return nil, apperr.Invalid("Please Enter Contact & Password")
	}
	u, err := s.users.GetByContact(ctx, contact)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, in.Password); err != nil {
		return nil, ErrBadCredentials
	}
	if u.IsBlocked {
		return nil, apperr.Forbidden("Your account has been blocked. Please contact support.")
	}
	return u, nil
}

func (s *Service) issue(u *User) (*Session, error) {
	token, claims, err := s.tokens.Issue(u.ID.String(), u.Role)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the token until its natural expiry. Invalid or missing
// tokens are ignored so logging out is always safe to call.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" || s.revocations == nil {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) Doctors(ctx context.Context) ([]*User, error) {
	doctors, err := s.users.ListByRole(ctx, auth.RoleDoctor)
	if err != nil {
		return nil, err
	}
	if len(doctors) == 0 {
		return nil, apperr.NotFound("No doctors found")
	}
	return doctors, nil
}

// NotifyDoctorJoined emails the patient a link to the room the doctor is in.
// Unlike background notices, a delivery failure here is returned.
func (s *Service) NotifyDoctorJoined(ctx context.Context, doctorID uuid.UUID, patientID, roomID string) (*JoinNotice, error) {
	if patientID == "" || roomID == "" {
		return nil, apperr.Invalid("Patient ID and Room ID are required")
	}
	pid, err := uuid.Parse(patientID)
	if err != nil {
		return nil, apperr.NotFound("Patient not found")
	}
	patient, err := s.users.GetByID(ctx, pid)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.NotFound("Patient not found")
	}
	if err != nil {
		return nil, err
	}
	if !validation.IsEmail(patient.Contact) {
		return nil, apperr.Invalid("Patient email is not valid")
	}
	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	speciality := doctor.Speciality
	if speciality == "" {
		speciality = "General Medicine"
	}
	_, err = s.notifier.Notify(ctx, patient.Contact, notification.TplDoctorJoined, map[string]string{
		"patient_name": patient.Name,
		"doctor_name":  doctor.Name,
		"speciality":   speciality,
		"room_id":      roomID,
		"room_url":     notification.RoomURL(s.opts.RoomBaseURL, roomID),
	})
	if err != nil {
		s.opts.Logger.Error().Err(err).Str("patient_id", patientID).Msg("doctor joined notification failed")
		return nil, apperr.Upstream("Failed to send notification email")
	}
	return &JoinNotice{
		PatientName:      patient.Name,
		PatientEmail:     patient.Contact,
		DoctorName:       doctor.Name,
		RoomID:           roomID,
		NotificationTime: s.now().UTC(),
	}, nil
}

// RegisterAdmin creates the single admin account when adminKey matches the
// configured secret.
func (s *Service) RegisterAdmin(ctx context.Context, in RegisterInput, adminKey string) (*Session, error) {
	if s.opts.AdminSecret == "" || adminKey != s.opts.AdminSecret {
		return nil, apperr.Forbidden("Invalid admin key")
	}
	u, err := s.CreateAdmin(ctx, in.Name, in.Contact, in.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateAdmin creates the admin account without a key check; the CLI uses it.
func (s *Service) CreateAdmin(ctx context.Context, name, contact, password string) (*User, error) {
	exists, err := s.users.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdminExists
	}
	u := &User{Name: strings.TrimSpace(name), Contact: strings.TrimSpace(contact), Role: auth.RoleAdmin}
	if err := s.create(ctx, u, password); err != nil {
		return nil, err
	}
	return u, nil
}

// LoginAdmin is Login restricted to the admin account.
func (s *Service) LoginAdmin(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	if u.Role != auth.RoleAdmin {
		return nil, apperr.Forbidden("Access denied. Admin privileges required.")
	}
	return s.issue(u)
}

func (s *Service) notify(ctx context.Context, contact, tpl string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, contact, tpl, data); err != nil {
		s.opts.Logger.Warn().Err(err).Str("template", tpl).Msg("notification failed")
	}
}
