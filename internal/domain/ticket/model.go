package ticket

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/cureconnect/cureconnect/internal/platform/apperr"
)

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

var validStatuses = map[string]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
}

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

const DefaultCategory = "General Inquiry"

var validCategories = map[string]bool{
	"Technical Issue":    true,
	"Account Problem":    true,
	"Appointment Issue":  true,
	"Payment Issue":      true,
	"Medical Records":    true,
	"Prescription Issue": true,
	DefaultCategory:      true,
	"Bug Report":         true,
	"Feature Request":    true,
	"Other":              true,
}

const (
	maxSubject     = 100
	maxDescription = 1000
	maxNote        = 500
)

type AdminNote struct {
	Note    string    `json:"note"`
	AddedBy uuid.UUID `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// Owner is the user who raised the ticket.
type Owner struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact string    `json:"contact"`
}

type Ticket struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	TicketID    string      `db:"ticket_id" json:"ticketId"`
	UserID      uuid.UUID   `db:"user_id" json:"userId"`
	Subject     string      `db:"subject" json:"subject"`
	Description string      `db:"description" json:"description"`
	Category    string      `db:"category" json:"category"`
	Priority    string      `db:"priority" json:"priority"`
	Status      string      `db:"status" json:"status"`
	AssignedTo  string      `db:"assigned_to" json:"assignedTo,omitempty"`
	AdminNotes  []AdminNote `db:"admin_notes" json:"adminNotes"`
	ResolvedAt  *time.Time  `db:"resolved_at" json:"resolvedAt"`
	ClosedAt    *time.Time  `db:"closed_at" json:"closedAt"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`

	User *Owner `json:"user,omitempty"`
}

// SetStatus moves the ticket to status, stamping resolved/closed times the
// first time those states are reached.
func (t *Ticket) SetStatus(status string, now time.Time) {
	t.Status = status
	switch status {
	case StatusResolved:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	case StatusClosed:
		if t.ClosedAt == nil {
			t.ClosedAt = &now
		}
	}
}

type CreateInput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

type UpdateInput struct {
	Status     string `json:"status"`
	AssignedTo string `json:"assignedTo"`
	AdminNote  string `json:"adminNote"`
}

// Filter narrows ticket listings. Empty fields and "all" match everything.
type Filter struct {
	UserID   *uuid.UUID
	Status   string
	Priority string
	Category string
	Search   string
}

// StatusCounts is the per-status breakdown shown next to the admin list.
type StatusCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

func (c *StatusCounts) Add(status string, n int) {
	switch status {
	case StatusOpen:
		c.Open += n
	case StatusInProgress:
		c.InProgress += n
	case StatusResolved:
		c.Resolved += n
	case StatusClosed:
		c.Closed += n
	}
}

func (c StatusCounts) Total() int {
	return c.Open + c.InProgress + c.Resolved + c.Closed
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Totals struct {
	TotalTickets      int `json:"totalTickets"`
	OpenTickets       int `json:"openTickets"`
	InProgressTickets int `json:"inProgressTickets"`
	ResolvedTickets   int `json:"resolvedTickets"`
	ClosedTickets     int `json:"closedTickets"`
}

type Stats struct {
	Totals        Totals       `json:"stats"`
	CategoryStats []GroupCount `json:"categoryStats"`
	PriorityStats []GroupCount `json:"priorityStats"`
}

var (
	ErrNotFound    = apperr.NotFound("Ticket not found")
	ErrForbidden   = apperr.Forbidden("Access denied")
	ErrDuplicateID = apperr.Conflict("ticket id already exists")
)

// NewTicketID returns a display code of the form TKT-<unix-ms>-<0..999>.
func NewTicketID(now time.Time) string {
	return fmt.Sprintf("TKT-%d-%d", now.UnixMilli(), rand.IntN(1000))
}
