package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cureconnect/cureconnect/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const selectCols = `SELECT a.id, a.doctor_id, a.patient_id, to_char(a.day, 'YYYY-MM-DD'), a.time,
	a.description, a.symptoms, a.status, a.room_id, a.is_follow_up, a.parent_appointment_id,
	a.follow_up_instructions, a.follow_up_notification_sent, a.same_day_reminder_sent,
	a.reminder_sent, a.created_at, a.updated_at,
	d.name, d.contact, d.speciality, d.availability,
	p.name, p.contact
FROM appointments a
JOIN users d ON d.id = a.doctor_id
JOIN users p ON p.id = a.patient_id`

var reminderColumns = map[ReminderKind]string{
	ReminderFollowUp: "follow_up_notification_sent",
	ReminderSameDay:  "same_day_reminder_sent",
	ReminderStart:    "reminder_sent",
}

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	doctor := &Party{}
	patient := &Party{}
	err := row.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.Day, &a.Time,
		&a.Description, &a.Symptoms, &a.Status, &a.RoomID, &a.IsFollowUp, &a.ParentAppointmentID,
		&a.FollowUpInstructions, &a.FollowUpNotificationSent, &a.SameDayReminderSent,
		&a.ReminderSent, &a.CreatedAt, &a.UpdatedAt,
		&doctor.Name, &doctor.Contact, &doctor.Speciality, &doctor.Availability,
		&patient.Name, &patient.Contact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doctor.ID = a.DoctorID
	patient.ID = a.PatientID
	a.Doctor = doctor
	a.Patient = patient
	return &a, nil
}

func (r *repoPG) scanAll(rows pgx.Rows) ([]*Appointment, error) {
	defer rows.Close()
	var out []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO appointments (
			id, doctor_id, patient_id, day, time, description, symptoms, status, room_id,
			is_follow_up, parent_appointment_id, follow_up_instructions
		) VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		a.ID, a.DoctorID, a.PatientID, a.Day, a.Time, a.Description, a.Symptoms, a.Status, a.RoomID,
		a.IsFollowUp, a.ParentAppointmentID, a.FollowUpInstructions,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrSlotTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(db.Conn(ctx, r.pool).QueryRow(ctx, selectCols+` WHERE a.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f ListFilter) ([]*Appointment, error) {
	query := selectCols + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.DoctorID != nil {
		query += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, *f.DoctorID)
		idx++
	}
	if f.PatientID != nil {
		query += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		args = append(args, *f.PatientID)
		idx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	query += ` ORDER BY a.day DESC, a.time DESC`

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *repoPG) BookedTimes(ctx context.Context, doctorID uuid.UUID, day string) ([]string, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT time FROM appointments
		WHERE doctor_id = $1 AND day = $2::date AND status <> 'cancelled'`, doctorID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByDays(ctx context.Context, days []string, statuses []string) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		selectCols+` WHERE a.day = ANY($1::date[]) AND a.status = ANY($2) ORDER BY a.day, a.time`,
		days, statuses)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *repoPG) ClaimReminder(ctx context.Context, id uuid.UUID, kind ReminderKind) (bool, error) {
	col, ok := reminderColumns[kind]
	if !ok {
		return false, fmt.Errorf("unknown reminder kind %q", kind)
	}
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE appointments SET `+col+` = TRUE, updated_at = NOW() WHERE id = $1 AND `+col+` = FALSE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
