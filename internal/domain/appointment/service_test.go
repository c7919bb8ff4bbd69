package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/cache"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

// -- Mock Repository --

type mockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Appointment
	users *mockUsers
}

func newMockRepo(users *mockUsers) *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment), users: users}
}

func (m *mockRepo) withParties(a *Appointment) *Appointment {
	cp := *a
	if d, err := m.users.GetByID(context.Background(), a.DoctorID); err == nil {
		cp.Doctor = partyOf(d)
	}
	if p, err := m.users.GetByID(context.Background(), a.PatientID); err == nil {
		cp.Patient = &Party{ID: p.ID, Name: p.Name, Contact: p.Contact}
	}
	return &cp
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.DoctorID == a.DoctorID && existing.Day == a.Day && existing.Time == a.Time &&
			existing.Status != StatusCancelled {
			return ErrSlotTaken
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.withParties(a), nil
}

func (m *mockRepo) List(_ context.Context, f ListFilter) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
			continue
		}
		if f.PatientID != nil && a.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, m.withParties(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day > out[j].Day
		}
		return out[i].Time > out[j].Time
	})
	return out, nil
}

func (m *mockRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, day string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.items {
		if a.DoctorID == doctorID && a.Day == day && a.Status != StatusCancelled {
			out = append(out, a.Time)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) ListByDays(_ context.Context, days []string, statuses []string) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Appointment
	for _, a := range m.items {
		if contains(days, a.Day) && contains(statuses, a.Status) {
			out = append(out, m.withParties(a))
		}
	}
	return out, nil
}

func (m *mockRepo) ClaimReminder(_ context.Context, id uuid.UUID, kind ReminderKind) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return false, ErrNotFound
	}
	var flag *bool
	switch kind {
	case ReminderFollowUp:
		flag = &a.FollowUpNotificationSent
	case ReminderSameDay:
		flag = &a.SameDayReminderSent
	case ReminderStart:
		flag = &a.ReminderSent
	default:
		return false, errors.New("unknown kind")
	}
	if *flag {
		return false, nil
	}
	*flag = true
	return true, nil
}

func (m *mockRepo) put(a *Appointment) *Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.items[a.ID] = a
	return a
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type mockUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func (m *mockUsers) GetByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUsers) add(name, contact, role string) *identity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &identity.User{ID: uuid.New(), Name: name, Contact: contact, Role: role}
	if role == auth.RoleDoctor {
		u.Speciality = "Cardiology"
	}
	m.users[u.ID] = u
	return u
}

// -- Helpers --

var ist = time.FixedZone("IST", 5*3600+1800)

// 2026-03-10 10:00 IST
var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, ist)

type testEnv struct {
	svc     *Service
	repo    *mockRepo
	users   *mockUsers
	email   *notification.MockEmailSender
	sms     *notification.MockSMSSender
	mgr     *notification.Manager
	doctor  *identity.User
	patient *identity.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := &mockUsers{users: make(map[uuid.UUID]*identity.User)}
	repo := newMockRepo(users)
	email := &notification.MockEmailSender{}
	sms := &notification.MockSMSSender{}
	mgr := notification.NewManager(email, sms, nil, notification.ManagerOptions{CountryPrefix: "+91", Logger: zerolog.Nop()})

	svc := NewService(repo, users, cache.NewMemoryLocker(), mgr, Options{
		RoomBaseURL: "https://video.example.com/",
		Location:    ist,
		Logger:      zerolog.Nop(),
	})
	svc.now = func() time.Time { return testNow }
	svc.newRoomID = func() string { return "room123456" }

	return &testEnv{
		svc:     svc,
		repo:    repo,
		users:   users,
		email:   email,
		sms:     sms,
		mgr:     mgr,
		doctor:  users.add("Mehta", "mehta@example.com", auth.RoleDoctor),
		patient: users.add("Asha", "9876543210", auth.RolePatient),
	}
}

func (e *testEnv) book(t *testing.T, day, clock string) *Appointment {
	t.Helper()
	a, err := e.svc.Create(context.Background(), e.patient.ID, CreateInput{
		Doctor: e.doctor.ID.String(), Description: "chest pain", Symptoms: "pain", Day: day, Time: clock,
	})
	if err != nil {
		t.Fatalf("book %s %s: %v", day, clock, err)
	}
	return a
}

func expectKind(t *testing.T, err, kind error, msg string) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if msg != "" && err.Error() != msg {
		t.Errorf("expected message %q, got %q", msg, err.Error())
	}
}

// -- Tests --

func TestCreate_BooksAndNotifiesBothSides(t *testing.T) {
	env := newTestEnv(t)
	a := env.book(t, "2026-03-11", "10:30")

	if a.Status != StatusPending {
		t.Errorf("expected pending, got %s", a.Status)
	}
	if a.RoomID != "room123456" {
		t.Errorf("expected generated room id, got %s", a.RoomID)
	}
	if a.Doctor == nil || a.Doctor.Name != "Mehta" || a.Patient == nil || a.Patient.ID != env.patient.ID {
		t.Errorf("expected both parties populated, got %+v / %+v", a.Doctor, a.Patient)
	}

	smsCalls := env.sms.Calls()
	if len(smsCalls) != 1 || smsCalls[0].To != "+919876543210" {
		t.Errorf("expected patient sms, got %+v", smsCalls)
	}
	emailCalls := env.email.Calls()
	if len(emailCalls) != 1 || emailCalls[0].To != "mehta@example.com" {
		t.Errorf("expected doctor email, got %+v", emailCalls)
	}
}

func TestCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := CreateInput{
		Doctor: env.doctor.ID.String(), Description: "d", Symptoms: "s", Day: "2026-03-11", Time: "10:30",
	}

	missing := base
	missing.Symptoms = "  "
	_, err := env.svc.Create(ctx, env.patient.ID, missing)
	expectKind(t, err, apperr.ErrInvalid, "Please provide all required fields including symptoms")

	notDoctor := base
	notDoctor.Doctor = env.patient.ID.String()
	_, err = env.svc.Create(ctx, env.patient.ID, notDoctor)
	expectKind(t, err, apperr.ErrNotFound, "Doctor not found")

	badDay := base
	badDay.Day = "11-03-2026"
	_, err = env.svc.Create(ctx, env.patient.ID, badDay)
	expectKind(t, err, apperr.ErrInvalid, "Invalid date format. Use YYYY-MM-DD")

	offGrid := base
	offGrid.Time = "10:15"
	_, err = env.svc.Create(ctx, env.patient.ID, offGrid)
	expectKind(t, err, apperr.ErrInvalid, "")

	past := base
	past.Day = "2026-03-10"
	past.Time = "09:30"
	_, err = env.svc.Create(ctx, env.patient.ID, past)
	expectKind(t, err, apperr.ErrInvalid, "Cannot book a time slot in the past")
}

func TestCreate_SlotTaken(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, "2026-03-11", "10:30")

	other := env.users.add("Ravi", "ravi@example.com", auth.RolePatient)
	_, err := env.svc.Create(context.Background(), other.ID, CreateInput{
		Doctor: env.doctor.ID.String(), Description: "d", Symptoms: "s", Day: "2026-03-11", Time: "10:30",
	})
	expectKind(t, err, apperr.ErrInvalid, "This time slot is already booked")
}

func TestCreate_CancelledSlotIsFree(t *testing.T) {
	env := newTestEnv(t)
	a := env.book(t, "2026-03-11", "10:30")
	if err := env.svc.Cancel(context.Background(), a.ID, env.patient.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	env.book(t, "2026-03-11", "10:30")
}

func TestCreate_ConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)
	in := CreateInput{
		Doctor: env.doctor.ID.String(), Description: "d", Symptoms: "s", Day: "2026-03-12", Time: "11:00",
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.svc.Create(context.Background(), env.patient.ID, in); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else if !errors.Is(err, ErrSlotTaken) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 {
		t.Errorf("expected exactly one booking to win, got %d", ok)
	}
}

func TestCreate_LockHeldReportsSlotTaken(t *testing.T) {
	env := newTestEnv(t)
	locker := cache.NewMemoryLocker()
	env.svc.locker = locker
	key := "slot:" + env.doctor.ID.String() + ":2026-03-11:10:30"
	release, err := locker.Acquire(context.Background(), key, time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	_, err = env.svc.Create(context.Background(), env.patient.ID, CreateInput{
		Doctor: env.doctor.ID.String(), Description: "d", Symptoms: "s", Day: "2026-03-11", Time: "10:30",
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken while lock is held, got %v", err)
	}
}

func TestCreate_NotificationFailureStillBooks(t *testing.T) {
	env := newTestEnv(t)
	env.sms.ShouldFail = true
	env.email.ShouldFail = true
	env.book(t, "2026-03-11", "10:30")

	if failed := env.mgr.List(notification.StatusFailed, 10); len(failed) != 2 {
		t.Errorf("expected both failed deliveries recorded, got %d", len(failed))
	}
}

func TestListMine_RoleAndFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.repo.put(&Appointment{DoctorID: env.doctor.ID, PatientID: env.patient.ID, Day: "2026-03-01", Time: "10:00", Status: StatusCompleted})
	env.book(t, "2026-03-11", "10:30")
	env.book(t, "2026-03-10", "16:00")

	all, err := env.svc.ListMine(ctx, env.patient.ID, auth.RolePatient, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Day != "2026-03-11" || all[2].Day != "2026-03-01" {
		t.Fatalf("expected 3 appointments newest first, got %+v", all)
	}

	upcoming, _ := env.svc.ListMine(ctx, env.patient.ID, auth.RolePatient, WhenUpcoming, "")
	if len(upcoming) != 2 {
		t.Errorf("expected today and tomorrow as upcoming, got %d", len(upcoming))
	}
	past, _ := env.svc.ListMine(ctx, env.patient.ID, auth.RolePatient, WhenPast, "")
	if len(past) != 1 || past[0].Status != StatusCompleted {
		t.Errorf("expected the completed visit as past, got %+v", past)
	}

	asDoctor, _ := env.svc.ListMine(ctx, env.doctor.ID, auth.RoleDoctor, WhenAll, StatusPending)
	if len(asDoctor) != 2 {
		t.Errorf("doctor should see the two pending bookings, got %d", len(asDoctor))
	}
	asPatientOfNothing, _ := env.svc.ListMine(ctx, env.doctor.ID, auth.RolePatient, "", "")
	if len(asPatientOfNothing) != 0 {
		t.Errorf("non-doctor role lists by patient id, got %d", len(asPatientOfNothing))
	}

	if _, err := env.svc.ListMine(ctx, env.patient.ID, auth.RolePatient, "soon", ""); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("expected invalid filter error, got %v", err)
	}
	if _, err := env.svc.ListMine(ctx, env.patient.ID, auth.RolePatient, "", "lost"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("expected invalid status error, got %v", err)
	}
}

func TestAvailableSlots(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, "2026-03-11", "09:00")
	cancelled := env.book(t, "2026-03-11", "09:30")
	if err := env.svc.Cancel(context.Background(), cancelled.ID, env.patient.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := env.svc.AvailableSlots(context.Background(), env.doctor.ID.String(), "2026-03-11")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots.AvailableSlots) != 15 {
		t.Errorf("expected 15 free slots, got %d", len(slots.AvailableSlots))
	}
	if slots.AvailableSlots[0] != "09:30" || slots.AvailableSlots[14] != "16:30" {
		t.Errorf("unexpected slot list: %v", slots.AvailableSlots)
	}
	if slots.Doctor.Name != "Mehta" || slots.Doctor.Contact != "" {
		t.Errorf("doctor summary should carry name but not contact: %+v", slots.Doctor)
	}

	_, err = env.svc.AvailableSlots(context.Background(), env.doctor.ID.String(), "tomorrow")
	expectKind(t, err, apperr.ErrInvalid, "Invalid date format. Use YYYY-MM-DD")
	_, err = env.svc.AvailableSlots(context.Background(), uuid.NewString(), "2026-03-11")
	expectKind(t, err, apperr.ErrNotFound, "Doctor not found")
}

func TestAvailableSlots_Today(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// testNow is 10:00, so 09:00 to 10:00 are gone.
	slots, err := env.svc.AvailableSlots(ctx, env.doctor.ID.String(), "2026-03-10")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(slots.AvailableSlots) != 13 || slots.AvailableSlots[0] != "10:30" {
		t.Fatalf("expected 13 slots from 10:30, got %v", slots.AvailableSlots)
	}
	for _, clock := range slots.AvailableSlots {
		if _, err := env.svc.Create(ctx, env.patient.ID, CreateInput{
			Doctor: env.doctor.ID.String(), Description: "cough", Symptoms: "cough", Day: "2026-03-10", Time: clock,
		}); err != nil {
			t.Errorf("offered slot %s was refused: %v", clock, err)
		}
	}

	past, err := env.svc.AvailableSlots(ctx, env.doctor.ID.String(), "2026-03-09")
	if err != nil {
		t.Fatalf("slots: %v", err)
	}
	if len(past.AvailableSlots) != 0 {
		t.Errorf("expected no slots on a past day, got %v", past.AvailableSlots)
	}
}

func TestGet_Access(t *testing.T) {
	env := newTestEnv(t)
	a := env.book(t, "2026-03-11", "10:30")
	ctx := context.Background()

	if _, err := env.svc.Get(ctx, a.ID, env.patient.ID, auth.RolePatient); err != nil {
		t.Errorf("patient: %v", err)
	}
	if _, err := env.svc.Get(ctx, a.ID, env.doctor.ID, auth.RoleDoctor); err != nil {
		t.Errorf("doctor: %v", err)
	}
	if _, err := env.svc.Get(ctx, a.ID, uuid.New(), auth.RoleAdmin); err != nil {
		t.Errorf("admin: %v", err)
	}
	_, err := env.svc.Get(ctx, a.ID, uuid.New(), auth.RolePatient)
	expectKind(t, err, apperr.ErrForbidden, "Access denied")
	_, err = env.svc.Get(ctx, uuid.New(), env.patient.ID, auth.RolePatient)
	expectKind(t, err, apperr.ErrNotFound, "Appointment not found")
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	a := env.book(t, "2026-03-11", "10:30")
	ctx := context.Background()

	err := env.svc.Cancel(ctx, a.ID, env.doctor.ID)
	expectKind(t, err, apperr.ErrForbidden, "You can only delete your own appointments")

	if err := env.svc.Cancel(ctx, a.ID, env.patient.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ := env.repo.GetByID(ctx, a.ID)
	if got.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", got.Status)
	}
	if err := env.svc.Cancel(ctx, a.ID, env.patient.ID); err != nil {
		t.Errorf("cancelling twice should be a no-op: %v", err)
	}
}

func TestComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.book(t, "2026-03-11", "10:30")

	_, err := env.svc.Complete(ctx, a.ID, env.patient.ID)
	expectKind(t, err, apperr.ErrForbidden, "")

	done, err := env.svc.Complete(ctx, a.ID, env.doctor.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}
	calls := env.sms.Calls()
	want := "CureConnect: Appointment with Dr. Mehta completed on 2026-03-11 at 10:30. Thank you for choosing CureConnect!"
	if last := calls[len(calls)-1]; last.Body != want {
		t.Errorf("unexpected completion sms: %q", last.Body)
	}

	_, err = env.svc.Complete(ctx, a.ID, env.doctor.ID)
	expectKind(t, err, apperr.ErrInvalid, "Appointment is already marked as completed")

	b := env.book(t, "2026-03-11", "11:30")
	if err := env.svc.Cancel(ctx, b.ID, env.patient.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = env.svc.Complete(ctx, b.ID, env.doctor.ID)
	expectKind(t, err, apperr.ErrInvalid, "Cannot complete a cancelled appointment")
}

func TestFollowUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	parent := env.book(t, "2026-03-10", "11:00")

	f, err := env.svc.FollowUp(ctx, env.doctor.ID, FollowUpInput{
		AppointmentID:        parent.ID.String(),
		FollowUpDate:         "2026-03-17",
		FollowUpTime:         "11:00",
		FollowUpInstructions: "bring reports",
	})
	if err != nil {
		t.Fatalf("follow-up: %v", err)
	}
	if !f.IsFollowUp || f.ParentAppointmentID == nil || *f.ParentAppointmentID != parent.ID {
		t.Errorf("expected link to parent, got %+v", f)
	}
	if f.PatientID != env.patient.ID || f.Status != StatusPending {
		t.Errorf("unexpected follow-up: %+v", f)
	}

	_, err = env.svc.FollowUp(ctx, env.doctor.ID, FollowUpInput{
		AppointmentID: parent.ID.String(), FollowUpDate: "2026-03-17", FollowUpTime: "11:00",
	})
	expectKind(t, err, apperr.ErrInvalid, "This time slot is already booked")

	_, err = env.svc.FollowUp(ctx, env.doctor.ID, FollowUpInput{
		AppointmentID: parent.ID.String(), FollowUpDate: "2026-03-01", FollowUpTime: "11:00",
	})
	expectKind(t, err, apperr.ErrInvalid, "Cannot book a time slot in the past")

	other := env.users.add("Rao", "rao@example.com", auth.RoleDoctor)
	_, err = env.svc.FollowUp(ctx, other.ID, FollowUpInput{
		AppointmentID: parent.ID.String(), FollowUpDate: "2026-03-18", FollowUpTime: "11:00",
	})
	expectKind(t, err, apperr.ErrForbidden, "")

	_, err = env.svc.FollowUp(ctx, env.doctor.ID, FollowUpInput{AppointmentID: parent.ID.String()})
	expectKind(t, err, apperr.ErrInvalid, "")
}
