package medicalhistory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cureconnect/cureconnect/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) Add(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	return db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO medical_history (id, user_id, image_url, analysis)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		rec.ID, rec.UserID, rec.Image.URL, rec.Analysis,
	).Scan(&rec.CreatedAt)
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, user_id, image_url, analysis, created_at
		FROM medical_history WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Image.URL, &rec.Analysis, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
