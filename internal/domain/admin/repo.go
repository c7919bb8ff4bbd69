package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the pharmacy and order store behind the admin dashboard.
type Repository interface {
	ListPharmacies(ctx context.Context) ([]*Pharmacy, error)
	UpdatePharmacyStatus(ctx context.Context, id uuid.UUID, status string) (*Pharmacy, error)
	CountPharmacies(ctx context.Context) (PharmacyCounts, error)
	// ListOrders returns the newest orders first.
	ListOrders(ctx context.Context, limit int) ([]*Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	CountOrders(ctx context.Context, since time.Time) (OrderCounts, error)
}
