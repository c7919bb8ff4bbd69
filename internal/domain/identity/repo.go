package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByContact(ctx context.Context, contact string) (*User, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	Search(ctx context.Context, f UserFilter, limit, offset int) ([]*User, int, error)
	UpdateAvailability(ctx context.Context, id uuid.UUID, availability string) (*User, error)
	SetBlocked(ctx context.Context, ids []uuid.UUID, blocked bool) (int, error)
	// Delete removes the given users, never touching admins.
	Delete(ctx context.Context, ids []uuid.UUID) (int, error)
	// CountByRole counts users per role, overall and created at or after since.
	CountByRole(ctx context.Context, since time.Time) (total, recent map[string]int, err error)
	AdminExists(ctx context.Context) (bool, error)
}
