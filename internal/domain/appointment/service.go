package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/cache"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

// UserLookup is the slice of the user repository the service needs.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Options struct {
	RoomBaseURL string
	// Location is the clinic timezone that days and times are read in.
	Location *time.Location
	// LockTTL bounds how long a booking may hold its slot lock.
	LockTTL time.Duration
	Logger  zerolog.Logger
}

type Service struct {
	repo      Repository
	users     UserLookup
	locker    cache.Locker
	notifier  notification.Notifier
	opts      Options
	now       func() time.Time
	newRoomID func() string
}

func NewService(repo Repository, users UserLookup, locker cache.Locker, notifier notification.Notifier, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Second
	}
	if locker == nil {
		locker = cache.NewMemoryLocker()
	}
	return &Service{
		repo:      repo,
		users:     users,
		locker:    locker,
		notifier:  notifier,
		opts:      opts,
		now:       time.Now,
		newRoomID: NewRoomID,
	}
}

func (s *Service) today() time.Time {
	return s.now().In(s.opts.Location)
}

func (s *Service) doctor(ctx context.Context, rawID string) (*identity.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, identity.ErrUserNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.IsDoctor() {
		return nil, ErrDoctorNotFound
	}
	return u, nil
}

// checkSlot validates day and time and rejects slots that already started.
func (s *Service) checkSlot(day, clock string) error {
	if _, err := time.Parse(DayLayout, day); err != nil {
		return ErrInvalidDay
	}
	if !isSlot(clock) {
		return apperr.Invalid("Please select a valid time slot between 09:00 and 16:30")
	}
	start, _ := time.ParseInLocation(DayLayout+" "+ClockLayout, day+" "+clock, s.opts.Location)
	if !start.After(s.now()) {
		return apperr.Invalid("Cannot book a time slot in the past")
	}
	return nil
}

// book holds the slot lock while checking availability and inserting. The
// partial unique index still guards against writers that bypass the lock.
func (s *Service) book(ctx context.Context, a *Appointment) error {
	key := fmt.Sprintf("slot:%s:%s:%s", a.DoctorID, a.Day, a.Time)
	release, err := s.locker.Acquire(ctx, key, s.opts.LockTTL)
	if errors.Is(err, cache.ErrLocked) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	defer release()

	booked, err := s.repo.BookedTimes(ctx, a.DoctorID, a.Day)
	if err != nil {
		return err
	}
	for _, t := range booked {
		if t == a.Time {
			return ErrSlotTaken
		}
	}
	return s.repo.Create(ctx, a)
}

// Create books an appointment for the patient and notifies both sides.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, in CreateInput) (*Appointment, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Symptoms = strings.TrimSpace(in.Symptoms)
	if in.Doctor == "" || in.Description == "" || in.Symptoms == "" || in.Day == "" || in.Time == "" {
		return nil, apperr.Invalid("Please provide all required fields including symptoms")
	}
	doctor, err := s.doctor(ctx, in.Doctor)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlot(in.Day, in.Time); err != nil {
		return nil, err
	}
	patient, err := s.users.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		DoctorID:    doctor.ID,
		PatientID:   patient.ID,
		Day:         in.Day,
		Time:        in.Time,
		Description: in.Description,
		Symptoms:    in.Symptoms,
		Status:      StatusPending,
		RoomID:      s.newRoomID(),
	}
	if err := s.book(ctx, a); err != nil {
		return nil, err
	}
	a.Doctor = partyOf(doctor)
	a.Patient = partyOf(patient)

	data := s.messageData(a)
	s.notify(ctx, patient.Contact, notification.TplAppointmentPatient, data)
	s.notify(ctx, doctor.Contact, notification.TplAppointmentDoctor, data)

	s.opts.Logger.Info().
		Str("appointment_id", a.ID.String()).
		Str("doctor_id", a.DoctorID.String()).
		Str("day", a.Day).Str("time", a.Time).
		Msg("appointment booked")
	return a, nil
}

// ListMine returns the caller's appointments: as doctor for doctors, as
// patient for everyone else.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, role, when, status string) ([]*Appointment, error) {
	if !ValidWhen(when) {
		return nil, apperr.Invalid("filter must be one of: all, upcoming, past")
	}
	if status != "" && !validStatuses[status] {
		return nil, apperr.Invalid(fmt.Sprintf("invalid status: %s", status))
	}
	f := ListFilter{Status: status}
	if role == auth.RoleDoctor {
		f.DoctorID = &userID
	} else {
		f.PatientID = &userID
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return FilterByWhen(list, when, s.today()), nil
}

// AvailableSlots lists a doctor's free start times on a day.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, day string) (*Slots, error) {
	if _, err := time.Parse(DayLayout, day); err != nil {
		return nil, ErrInvalidDay
	}
	doctor, err := s.doctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.BookedTimes(ctx, doctor.ID, day)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}
	now := s.now()
	free := make([]string, 0, 16)
	for _, slot := range DailySlots() {
		if taken[slot] {
			continue
		}
		// Same rule as checkSlot: only slots that start after now are offered.
		start, _ := time.ParseInLocation(DayLayout+" "+ClockLayout, day+" "+slot, s.opts.Location)
		if !start.After(now) {
			continue
		}
		free = append(free, slot)
	}
	return &Slots{
		AvailableSlots: free,
		Doctor:         Party{ID: doctor.ID, Name: doctor.Name, Speciality: doctor.Speciality},
		Date:           day,
	}, nil
}

// Get returns an appointment to one of its participants or an admin.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID, role string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != auth.RoleAdmin && a.PatientID != userID && a.DoctorID != userID {
		return nil, apperr.Forbidden("Access denied")
	}
	return a, nil
}

// Cancel marks the patient's own appointment cancelled, freeing the slot.
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.PatientID != userID {
		return apperr.Forbidden("You can only delete your own appointments")
	}
	switch a.Status {
	case StatusCancelled:
		return nil
	case StatusCompleted:
		return apperr.Invalid("Cannot cancel a completed appointment")
	}
	return s.repo.UpdateStatus(ctx, id, StatusCancelled)
}

// Complete lets the assigned doctor close an appointment.
func (s *Service) Complete(ctx context.Context, id, doctorID uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DoctorID != doctorID {
		return nil, apperr.Forbidden("Only the assigned doctor can mark this appointment as complete")
	}
	switch a.Status {
	case StatusCancelled:
		return nil, apperr.Invalid("Cannot complete a cancelled appointment")
	case StatusCompleted:
		return nil, apperr.Invalid("Appointment is already marked as completed")
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return nil, err
	}
	a.Status = StatusCompleted

	if a.Patient != nil {
		s.notify(ctx, a.Patient.Contact, notification.TplAppointmentCompleted, s.messageData(a))
	}
	return a, nil
}

// FollowUp books a new appointment linked to one the doctor handled.
func (s *Service) FollowUp(ctx context.Context, doctorID uuid.UUID, in FollowUpInput) (*Appointment, error) {
	if in.AppointmentID == "" || in.FollowUpDate == "" || in.FollowUpTime == "" {
		return nil, apperr.Invalid("Appointment ID, follow-up date and time are required")
	}
	parentID, err := uuid.Parse(in.AppointmentID)
	if err != nil {
		return nil, ErrNotFound
	}
	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent.DoctorID != doctorID {
		return nil, apperr.Forbidden("Only the assigned doctor can schedule a follow-up")
	}
	if parent.Status == StatusCancelled {
		return nil, apperr.Invalid("Cannot schedule a follow-up for a cancelled appointment")
	}
	if err := s.checkSlot(in.FollowUpDate, in.FollowUpTime); err != nil {
		return nil, err
	}

	a := &Appointment{
		DoctorID:             parent.DoctorID,
		PatientID:            parent.PatientID,
		Day:                  in.FollowUpDate,
		Time:                 in.FollowUpTime,
		Description:          "Follow-up: " + parent.Description,
		Symptoms:             parent.Symptoms,
		Status:               StatusPending,
		RoomID:               s.newRoomID(),
		IsFollowUp:           true,
		ParentAppointmentID:  &parent.ID,
		FollowUpInstructions: strings.TrimSpace(in.FollowUpInstructions),
	}
	if err := s.book(ctx, a); err != nil {
		return nil, err
	}
	a.Doctor = parent.Doctor
	a.Patient = parent.Patient

	if a.Patient != nil {
		s.notify(ctx, a.Patient.Contact, notification.TplFollowUpScheduled, s.messageData(a))
	}
	return a, nil
}

func (s *Service) messageData(a *Appointment) map[string]string {
	return messageData(a, s.opts.RoomBaseURL)
}

func messageData(a *Appointment, roomBase string) map[string]string {
	data := map[string]string{
		"day":         a.Day,
		"time":        a.Time,
		"description": a.Description,
		"symptoms":    a.Symptoms,
		"room_id":     a.RoomID,
		"room_url":    notification.RoomURL(roomBase, a.RoomID),
	}
	if a.FollowUpInstructions != "" {
		data["instructions"] = "Special Instructions: " + a.FollowUpInstructions + "\n"
	} else {
		data["instructions"] = ""
	}
	if a.Doctor != nil {
		data["doctor_name"] = a.Doctor.Name
		data["speciality"] = a.Doctor.Speciality
	}
	if a.Patient != nil {
		data["patient_name"] = a.Patient.Name
		data["patient_contact"] = a.Patient.Contact
	}
	return data
}

func (s *Service) notify(ctx context.Context, contact, tpl string, data map[string]string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, contact, tpl, data); err != nil {
		s.opts.Logger.Warn().Err(err).Str("template", tpl).Msg("appointment notification failed")
	}
}

func partyOf(u *identity.User) *Party {
	return &Party{
		ID:           u.ID,
		Name:         u.Name,
		Contact:      u.Contact,
		Speciality:   u.Speciality,
		Availability: u.Availability,
	}
}
