package ticket

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create returns ErrDuplicateID when the display code is taken.
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// List returns matches newest first along with the total match count.
	List(ctx context.Context, f Filter, limit, offset int) ([]*Ticket, int, error)
	CountByStatus(ctx context.Context) (StatusCounts, error)
	CountBy(ctx context.Context, column string) ([]GroupCount, error)
	// Modify loads the ticket under a row lock, applies fn and persists
	// status, assignment, notes and lifecycle stamps. Concurrent calls for
	// the same ticket are serialised so no note is lost.
	Modify(ctx context.Context, id uuid.UUID, fn func(t *Ticket)) (*Ticket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
