package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const selectCols = `SELECT t.id, t.ticket_id, t.user_id, t.subject, t.description, t.category,
	t.priority, t.status, t.assigned_to, t.admin_notes, t.resolved_at, t.closed_at,
	t.created_at, t.updated_at, u.name, u.contact
FROM tickets t
JOIN users u ON u.id = t.user_id`

// groupable lists the columns CountBy may aggregate on.
var groupable = map[string]bool{"category": true, "priority": true, "status": true}

func (r *repoPG) scan(row pgx.Row) (*Ticket, error) {
	var t Ticket
	owner := &Owner{}
	err := row.Scan(&t.ID, &t.TicketID, &t.UserID, &t.Subject, &t.Description, &t.Category,
		&t.Priority, &t.Status, &t.AssignedTo, &t.AdminNotes, &t.ResolvedAt, &t.ClosedAt,
		&t.CreatedAt, &t.UpdatedAt, &owner.Name, &owner.Contact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	owner.ID = t.UserID
	t.User = owner
	if t.AdminNotes == nil {
		t.AdminNotes = []AdminNote{}
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *Ticket) error {
	t.ID = uuid.New()
	if t.AdminNotes == nil {
		t.AdminNotes = []AdminNote{}
	}
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO tickets (id, ticket_id, user_id, subject, description, category, priority, status, admin_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		t.ID, t.TicketID, t.UserID, t.Subject, t.Description, t.Category, t.Priority, t.Status, t.AdminNotes,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateID
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	return r.scan(db.Conn(ctx, r.pool).QueryRow(ctx, selectCols+` WHERE t.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Ticket, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.UserID != nil {
		where += fmt.Sprintf(` AND t.user_id = $%d`, idx)
		args = append(args, *f.UserID)
		idx++
	}
	for col, val := range map[string]string{"t.status": f.Status, "t.priority": f.Priority, "t.category": f.Category} {
		if val == "" || val == "all" {
			continue
		}
		where += fmt.Sprintf(` AND %s = $%d`, col, idx)
		args = append(args, val)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(` AND (t.ticket_id ILIKE $%d ESCAPE '\' OR t.subject ILIKE $%d ESCAPE '\' OR t.description ILIKE $%d ESCAPE '\')`, idx, idx, idx)
		args = append(args, likePattern(f.Search))
		idx++
	}

	conn := db.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := selectCols + where + fmt.Sprintf(` ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Ticket
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *repoPG) CountByStatus(ctx context.Context) (StatusCounts, error) {
	var counts StatusCounts
	groups, err := r.CountBy(ctx, "status")
	if err != nil {
		return counts, err
	}
	for _, g := range groups {
		counts.Add(g.Name, g.Count)
	}
	return counts, nil
}

func (r *repoPG) CountBy(ctx context.Context, column string) ([]GroupCount, error) {
	if !groupable[column] {
		return nil, fmt.Errorf("cannot group tickets by %q", column)
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+column+`, COUNT(*) FROM tickets GROUP BY `+column+` ORDER BY COUNT(*) DESC, `+column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repoPG) Modify(ctx context.Context, id uuid.UUID, fn func(t *Ticket)) (*Ticket, error) {
	var t *Ticket
	err := db.WithinTx(ctx, r.pool, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.pool)
		var err error
		t, err = r.scan(conn.QueryRow(ctx, selectCols+` WHERE t.id = $1 FOR UPDATE OF t`, id))
		if err != nil {
			return err
		}
		fn(t)
		return conn.QueryRow(ctx, `
			UPDATE tickets SET status = $2, assigned_to = $3, admin_notes = $4,
				resolved_at = $5, closed_at = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			t.ID, t.Status, t.AssignedTo, t.AdminNotes, t.ResolvedAt, t.ClosedAt,
		).Scan(&t.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns free text into a substring match for ILIKE ... ESCAPE '\'
// so that % and _ typed by the user match literally.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
