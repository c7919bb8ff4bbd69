package medicalhistory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Add(ctx context.Context, r *Record) error
	// ListByUser returns a user's records oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Record, error)
}
