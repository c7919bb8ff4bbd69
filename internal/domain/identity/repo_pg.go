package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cureconnect/cureconnect/internal/platform/db"
)

type userRepoPG struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, name, contact, password_hash, role, speciality, availability,
	avatar_url, is_blocked, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Contact, &u.PasswordHash, &u.Role, &u.Speciality,
		&u.Availability, &u.AvatarURL, &u.IsBlocked, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) scanAll(rows pgx.Rows) ([]*User, error) {
	defer rows.Close()
	var out []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO users (id, name, contact, password_hash, role, speciality, availability, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		u.ID, u.Name, u.Contact, u.PasswordHash, u.Role, u.Speciality, u.Availability, u.AvatarURL,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if db.IsUniqueViolation(err) {
		if u.Role == "admin" {
			return ErrAdminExists
		}
		return ErrContactTaken
	}
	return err
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByContact(ctx context.Context, contact string) (*User, error) {
	return r.scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE contact = $1`, contact))
}

func (r *userRepoPG) ListByRole(ctx context.Context, role string) ([]*User, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+userCols+` FROM users WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *userRepoPG) Search(ctx context.Context, f UserFilter, limit, offset int) ([]*User, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Role != "" {
		where += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, f.Role)
		idx++
	}
	if f.ExcludeRole != "" {
		where += fmt.Sprintf(` AND role <> $%d`, idx)
		args = append(args, f.ExcludeRole)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND (name ILIKE $%d OR contact ILIKE $%d)`, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userCols + ` FROM users` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	users, err := r.scanAll(rows)
	return users, total, err
}

func (r *userRepoPG) UpdateAvailability(ctx context.Context, id uuid.UUID, availability string) (*User, error) {
	return r.scanUser(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE users SET availability = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userCols, id, availability))
}

func (r *userRepoPG) SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE users SET is_blocked = $2, updated_at = NOW()
		WHERE id = ANY($1) AND role <> 'admin'`, ids, blocked)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *userRepoPG) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM users WHERE id = ANY($1) AND role <> 'admin'`, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *userRepoPG) CountByRole(ctx context.Context, since time.Time) (map[string]int, map[string]int, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT role, COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1)
		FROM users GROUP BY role`, since)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	total := make(map[string]int)
	recent := make(map[string]int)
	for rows.Next() {
		var role string
		var all, fresh int
		if err := rows.Scan(&role, &all, &fresh); err != nil {
			return nil, nil, err
		}
		total[role] = all
		recent[role] = fresh
	}
	return total, recent, rows.Err()
}

func (r *userRepoPG) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists)
	return exists, err
}
