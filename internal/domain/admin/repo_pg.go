package admin

import (
	"context"
	"errors"
	"time"

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

const pharmacyCols = `p.id, p.name, p.owner_id, p.address, p.license_number,
	p.verification_status, p.created_at, p.updated_at, u.name, u.contact`

const orderCols = `o.id, o.user_id, o.pharmacy_id, o.status, o.total_amount::float8,
	o.created_at, u.name, u.contact, ph.name`

func (r *repoPG) scanPharmacy(row pgx.Row) (*Pharmacy, error) {
	var p Pharmacy
	var ownerName, ownerContact *string
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.Address, &p.LicenseNumber,
		&p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt, &ownerName, &ownerContact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPharmacyNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.OwnerID != nil && ownerName != nil {
		p.Owner = &Owner{ID: *p.OwnerID, Name: *ownerName, Contact: deref(ownerContact)}
	}
	return &p, nil
}

func (r *repoPG) scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var user Owner
	var pharmacy *string
	err := row.Scan(&o.ID, &o.UserID, &o.PharmacyID, &o.Status, &o.TotalAmount,
		&o.CreatedAt, &user.Name, &user.Contact, &pharmacy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	user.ID = o.UserID
	o.User = &user
	o.PharmacyName = deref(pharmacy)
	return &o, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *repoPG) ListPharmacies(ctx context.Context) ([]*Pharmacy, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+pharmacyCols+`
		FROM pharmacies p
		LEFT JOIN users u ON u.id = p.owner_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Pharmacy
	for rows.Next() {
		p, err := r.scanPharmacy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repoPG) UpdatePharmacyStatus(ctx context.Context, id uuid.UUID, status string) (*Pharmacy, error) {
	return r.scanPharmacy(db.Conn(ctx, r.pool).QueryRow(ctx, `
		WITH p AS (
			UPDATE pharmacies SET verification_status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT `+pharmacyCols+`
		FROM p
		LEFT JOIN users u ON u.id = p.owner_id`, id, status))
}

func (r *repoPG) CountPharmacies(ctx context.Context) (PharmacyCounts, error) {
	var c PharmacyCounts
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE verification_status = 'verified'),
			COUNT(*) FILTER (WHERE verification_status = 'pending')
		FROM pharmacies`).Scan(&c.Total, &c.Verified, &c.Pending)
	return c, err
}

func (r *repoPG) ListOrders(ctx context.Context, limit int) ([]*Order, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+orderCols+`
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN pharmacies ph ON ph.id = o.pharmacy_id
		ORDER BY o.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repoPG) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.scanOrder(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+orderCols+`
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN pharmacies ph ON ph.id = o.pharmacy_id
		WHERE o.id = $1`, id))
}

func (r *repoPG) CountOrders(ctx context.Context, since time.Time) (OrderCounts, error) {
	var c OrderCounts
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COALESCE(SUM(total_amount) FILTER (WHERE status = $2), 0)::float8,
			COALESCE(SUM(total_amount) FILTER (WHERE status = $2 AND created_at >= $1), 0)::float8
		FROM orders`, since, OrderDelivered).Scan(&c.Total, &c.Recent, &c.Revenue, &c.RecentRevenue)
	return c, err
}
