package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const selectCols = `SELECT r.id, r.prescription_number, r.patient_id, r.doctor_id, r.appointment_id,
	r.medications, r.diagnosis, r.symptoms, r.notes, r.follow_up_instructions, r.created_at,
	p.name, p.contact, d.name, d.speciality,
	COALESCE(to_char(a.day, 'YYYY-MM-DD'), ''), COALESCE(a.time, '')
FROM prescriptions r
JOIN users p ON p.id = r.patient_id
JOIN users d ON d.id = r.doctor_id
LEFT JOIN appointments a ON a.id = r.appointment_id`

func (r *repoPG) scan(row pgx.Row) (*Prescription, error) {
	var p Prescription
	patient := &appointment.Party{}
	doctor := &appointment.Party{}
	var day, clock string
	err := row.Scan(&p.ID, &p.PrescriptionNumber, &p.PatientID, &p.DoctorID, &p.AppointmentID,
		&p.Medications, &p.Diagnosis, &p.Symptoms, &p.Notes, &p.FollowUpInstructions, &p.CreatedAt,
		&patient.Name, &patient.Contact, &doctor.Name, &doctor.Speciality,
		&day, &clock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	patient.ID = p.PatientID
	doctor.ID = p.DoctorID
	p.Patient = patient
	p.Doctor = doctor
	if p.AppointmentID != nil {
		p.Appointment = &Visit{ID: *p.AppointmentID, Day: day, Time: clock}
	}
	return &p, nil
}

func (r *repoPG) list(ctx context.Context, where string, id uuid.UUID) ([]*Prescription, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, selectCols+` WHERE `+where+` = $1 ORDER BY r.created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Prescription
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO prescriptions (
			id, prescription_number, patient_id, doctor_id, appointment_id, medications,
			diagnosis, symptoms, notes, follow_up_instructions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		p.ID, p.PrescriptionNumber, p.PatientID, p.DoctorID, p.AppointmentID, p.Medications,
		p.Diagnosis, p.Symptoms, p.Notes, p.FollowUpInstructions,
	).Scan(&p.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return r.scan(db.Conn(ctx, r.pool).QueryRow(ctx, selectCols+` WHERE r.id = $1`, id))
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Prescription, error) {
	return r.list(ctx, "r.doctor_id", doctorID)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	return r.list(ctx, "r.patient_id", patientID)
}
