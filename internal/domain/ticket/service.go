package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/domain/identity"
	"github.com/cureconnect/cureconnect/internal/platform/apperr"
	"github.com/cureconnect/cureconnect/internal/platform/auth"
	"github.com/cureconnect/cureconnect/internal/platform/notification"
)

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Options struct {
	// AdminContact receives a message for every new ticket.
	AdminContact string
	Logger       zerolog.Logger
}

type Service struct {
	repo     Repository
	users    UserLookup
	notifier notification.Notifier
	opts     Options
	now      func() time.Time
	newID    func(time.Time) string
}

func NewService(repo Repository, users UserLookup, notifier notification.Notifier, opts Options) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		opts:     opts,
		now:      time.Now,
		newID:    NewTicketID,
	}
}

const createAttempts = 3

func tooLong(s string, max int) bool {
	return len([]rune(s)) > max
}

// Create opens a ticket for userID and tells the admin mailbox about it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Ticket, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	if in.Subject == "" || in.Description == "" {
		return nil, apperr.Invalid("Subject and description are required")
	}
	if tooLong(in.Subject, maxSubject) {
		return nil, apperr.Invalid("Subject cannot exceed 100 characters")
	}
	if tooLong(in.Description, maxDescription) {
		return nil, apperr.Invalid("Description cannot exceed 1000 characters")
	}
	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if !validCategories[in.Category] {
		return nil, apperr.Invalid(fmt.Sprintf("invalid category: %s", in.Category))
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !validPriorities[in.Priority] {
		return nil, apperr.Invalid(fmt.Sprintf("invalid priority: %s", in.Priority))
	}

	owner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := &Ticket{
		UserID:      userID,
		Subject:     in.Subject,
		Description: in.Description,
		Category:    in.Category,
		Priority:    in.Priority,
		Status:      StatusOpen,
		AdminNotes:  []AdminNote{},
	}
	for attempt := 1; ; attempt++ {
		t.TicketID = s.newID(s.now())
		err = s.repo.Create(ctx, t)
		if !errors.Is(err, ErrDuplicateID) || attempt == createAttempts {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	t.User = &Owner{ID: owner.ID, Name: owner.Name, Contact: owner.Contact}

	s.notify(ctx, s.opts.AdminContact, notification.TplTicketCreatedAdmin, map[string]string{
		"ticket_id":    t.TicketID,
		"user_name":    owner.Name,
		"user_contact": owner.Contact,
		"subject":      t.Subject,
		"category":     t.Category,
		"priority":     t.Priority,
		"description":  t.Description,
	})
	s.opts.Logger.Info().Str("ticket_id", t.TicketID).Str("priority", t.Priority).Msg("ticket created")
	return t, nil
}

func validateFilter(f Filter) error {
	if f.Status != "" && f.Status != "all" && !validStatuses[f.Status] {
		return apperr.Invalid(fmt.Sprintf("invalid status: %s", f.Status))
	}
	if f.Priority != "" && f.Priority != "all" && !validPriorities[f.Priority] {
		return apperr.Invalid(fmt.Sprintf("invalid priority: %s", f.Priority))
	}
	if f.Category != "" && f.Category != "all" && !validCategories[f.Category] {
		return apperr.Invalid(fmt.Sprintf("invalid category: %s", f.Category))
	}
	return nil
}

// Mine pages through the caller's own tickets, newest first.
func (s *Service) Mine(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*Ticket, int, error) {
	f := Filter{UserID: &userID, Status: status}
	if err := validateFilter(f); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Details returns a ticket to its owner or an admin.
func (s *Service) Details(ctx context.Context, id, userID uuid.UUID, role string) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID && role != auth.RoleAdmin {
		return nil, ErrForbidden
	}
	return t, nil
}

// All is the admin listing, with counts per status across every ticket.
func (s *Service) All(ctx context.Context, f Filter, limit, offset int) ([]*Ticket, int, StatusCounts, error) {
	f.UserID = nil
	f.Search = strings.TrimSpace(f.Search)
	if err := validateFilter(f); err != nil {
		return nil, 0, StatusCounts{}, err
	}
	list, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, StatusCounts{}, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, 0, StatusCounts{}, err
	}
	return list, total, counts, nil
}

// Stats aggregates tickets by status, category (largest first) and priority.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.repo.CountBy(ctx, "category")
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repo.CountBy(ctx, "priority")
	if err != nil {
		return nil, err
	}
	if byCategory == nil {
		byCategory = []GroupCount{}
	}
	if byPriority == nil {
		byPriority = []GroupCount{}
	}
	return &Stats{
		Totals: Totals{
			TotalTickets:      counts.Total(),
			OpenTickets:       counts.Open,
			InProgressTickets: counts.InProgress,
			ResolvedTickets:   counts.Resolved,
			ClosedTickets:     counts.Closed,
		},
		CategoryStats: byCategory,
		PriorityStats: byPriority,
	}, nil
}

// Update applies an admin's status change, assignment and note, then
// notifies the ticket owner.
func (s *Service) Update(ctx context.Context, id, adminID uuid.UUID, in UpdateInput) (*Ticket, error) {
	if in.Status != "" && !validStatuses[in.Status] {
		return nil, apperr.Invalid(fmt.Sprintf("invalid status: %s", in.Status))
	}
	in.AdminNote = strings.TrimSpace(in.AdminNote)
	if tooLong(in.AdminNote, maxNote) {
		return nil, apperr.Invalid("Note cannot exceed 500 characters")
	}

	now := s.now()
	t, err := s.repo.Modify(ctx, id, func(t *Ticket) {
		if in.Status != "" {
			t.SetStatus(in.Status, now)
		}
		if in.AssignedTo != "" {
			t.AssignedTo = strings.TrimSpace(in.AssignedTo)
		}
		if in.AdminNote != "" {
			t.AdminNotes = append(t.AdminNotes, AdminNote{Note: in.AdminNote, AddedBy: adminID, AddedAt: now})
		}
	})
	if err != nil {
		return nil, err
	}

	if t.User != nil {
		note := ""
		if in.AdminNote != "" {
			note = "Admin Note: " + in.AdminNote + "\n"
		}
		s.notify(ctx, t.User.Contact, notification.TplTicketUpdated, map[string]string{
			"ticket_id": t.TicketID,
			"user_name": t.User.Name,
			"subject":   t.Subject,
			"status":    t.Status,
			"note":      note,
		})
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) notify(ctx context.Context, contact, tpl string, data map[string]string) {
	if s.notifier == nil || contact == "" {
		return
	}
	if _, err := s.notifier.Notify(ctx, contact, tpl, data); err != nil {
		s.opts.Logger.Warn().Err(err).Str("template", tpl).Str("ticket_id", data["ticket_id"]).Msg("ticket notification failed")
	}
}
