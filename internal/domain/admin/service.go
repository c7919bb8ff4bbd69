package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
)

// listableRoles may be asked for by name on GET /admin/users.
var listableRoles = map[string]bool{
	auth.RolePatient:    true,
	auth.RoleDoctor:     true,
	auth.RolePharmacist: true,
}

// Service backs the admin dashboard: user moderation on top of the identity
// store, plus pharmacy and order oversight.
type Service struct {
	users  identity.UserRepository
	store  Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(users identity.UserRepository, store Repository, logger zerolog.Logger) *Service {
	return &Service{users: users, store: store, logger: logger, now: time.Now}
}

// Users lists non-admin accounts, optionally narrowed to one role.
func (s *Service) Users(ctx context.Context, role string, limit, offset int) ([]*identity.User, int, error) {
	f := identity.UserFilter{ExcludeRole: auth.RoleAdmin}
	if listableRoles[role] {
		f = identity.UserFilter{Role: role}
	}
	return s.users.Search(ctx, f, limit, offset)
}

func (s *Service) Doctors(ctx context.Context) ([]*identity.User, error) {
	return s.users.ListByRole(ctx, auth.RoleDoctor)
}

// SearchRole pages through one role, matching search against name or contact.
func (s *Service) SearchRole(ctx context.Context, role, search string, limit, offset int) ([]*identity.User, int, error) {
	return s.users.Search(ctx, identity.UserFilter{Role: role, Search: strings.TrimSpace(search)}, limit, offset)
}

func (s *Service) UpdateAvailability(ctx context.Context, id uuid.UUID, availability string) (*identity.User, error) {
	return s.users.UpdateAvailability(ctx, id, strings.TrimSpace(availability))
}

// SetBlocked blocks or unblocks one account. Admins, including the caller,
// cannot be blocked.
func (s *Service) SetBlocked(ctx context.Context, actorID, id uuid.UUID, blocked bool) (*identity.User, error) {
	if actorID == id {
		return nil, apperr.Invalid("Cannot block/unblock your own account")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdmin {
		return nil, apperr.Forbidden("Cannot modify admin users")
	}
	if _, err := s.users.SetBlocked(ctx, []uuid.UUID{id}, blocked); err != nil {
		return nil, err
	}
	u.IsBlocked = blocked
	s.logger.Info().Str("user_id", id.String()).Bool("blocked", blocked).Msg("user block state changed")
	return u, nil
}

// DeleteUser removes one non-admin account other than the caller's.
func (s *Service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) (*identity.User, error) {
	if actorID == id {
		return nil, apperr.Invalid("Cannot delete your own account")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdmin {
		return nil, ErrAdminTarget
	}
	if _, err := s.users.Delete(ctx, []uuid.UUID{id}); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id.String()).Str("role", u.Role).Msg("user deleted")
	return u, nil
}

// targets parses ids and drops the caller. emptyMsg is returned when nothing
// is left to act on.
func targets(actorID uuid.UUID, ids []string, emptyMsg string) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, ErrNoUserIDs
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrNoUserIDs
		}
		if id != actorID {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, apperr.Invalid(emptyMsg)
	}
	return out, nil
}

// BulkDelete removes the listed accounts. Admin rows are skipped by the store.
func (s *Service) BulkDelete(ctx context.Context, actorID uuid.UUID, ids []string) (int, error) {
	list, err := targets(actorID, ids, "Cannot delete selected users")
	if err != nil {
		return 0, err
	}
	n, err := s.users.Delete(ctx, list)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("requested", len(list)).Int("deleted", n).Msg("bulk user delete")
	return n, nil
}

func (s *Service) BulkSetBlocked(ctx context.Context, actorID uuid.UUID, in BulkInput) (int, error) {
	list, err := targets(actorID, in.UserIDs, "Cannot modify selected users")
	if err != nil {
		return 0, err
	}
	if in.IsBlocked == nil {
		return 0, apperr.Invalid("isBlocked is required")
	}
	return s.users.SetBlocked(ctx, list, *in.IsBlocked)
}

// Stats counts accounts per role, overall and over the last 30 days.
func (s *Service) Stats(ctx context.Context) (*DashboardStats, error) {
	total, recent, err := s.users.CountByRole(ctx, s.now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	pharmacies, err := s.store.CountPharmacies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pharmacies: %w", err)
	}
	st := &DashboardStats{
		TotalUsers:        total[auth.RolePatient],
		TotalDoctors:      total[auth.RoleDoctor],
		TotalPharmacists:  total[auth.RolePharmacist],
		TotalPharmacies:   pharmacies.Total,
		RecentUsers:       recent[auth.RolePatient],
		RecentDoctors:     recent[auth.RoleDoctor],
		RecentPharmacists: recent[auth.RolePharmacist],
	}
	st.Total = st.TotalUsers + st.TotalDoctors + st.TotalPharmacists
	return st, nil
}

// -- Pharmacies and orders --

func (s *Service) Pharmacies(ctx context.Context) ([]*Pharmacy, error) {
	return s.store.ListPharmacies(ctx)
}

func (s *Service) SetPharmacyStatus(ctx context.Context, id uuid.UUID, status string) (*Pharmacy, error) {
	if !validPharmacyStatus[status] {
		return nil, ErrInvalidStatus
	}
	p, err := s.store.UpdatePharmacyStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("pharmacy_id", id.String()).Str("status", status).Msg("pharmacy status updated")
	return p, nil
}

func (s *Service) Orders(ctx context.Context) ([]*Order, error) {
	return s.store.ListOrders(ctx, ordersLimit)
}

func (s *Service) Order(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.store.GetOrder(ctx, id)
}

// Analytics summarises pharmacies, orders and patients. Revenue only counts
// delivered orders.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	since := s.now().Add(-recentWindow)
	pharmacies, err := s.store.CountPharmacies(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pharmacies: %w", err)
	}
	orders, err := s.store.CountOrders(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	total, recent, err := s.users.CountByRole(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &Analytics{
		TotalPharmacies:    pharmacies.Total,
		VerifiedPharmacies: pharmacies.Verified,
		PendingPharmacies:  pharmacies.Pending,
		TotalOrders:        orders.Total,
		TotalUsers:         total[auth.RolePatient],
		RecentOrders:       orders.Recent,
		RecentUsers:        recent[auth.RolePatient],
		TotalRevenue:       orders.Revenue,
		MonthlyRevenue:     orders.RecentRevenue,
	}, nil
}
