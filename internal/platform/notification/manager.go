package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cureconnect/cureconnect/internal/platform/validation"
)

// Notifier is what domain services depend on to reach a user.
type Notifier interface {
	Notify(ctx context.Context, contact, templateID string, data map[string]string) (*Notification, error)
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// CountryPrefix is prepended to phone contacts that lack a leading '+'.
	CountryPrefix string
	// MaxKept bounds the in-memory delivery log; the oldest entries drop first.
	MaxKept int
	Logger  zerolog.Logger
}

// Manager renders templates, routes them by contact type, and keeps a
// bounded in-memory log of deliveries for the admin console.
type Manager struct {
	email     EmailSender
	sms       SMSSender
	templates *TemplateEngine
	prefix    string
	maxKept   int
	logger    zerolog.Logger
	now       func() time.Time

	mu            sync.RWMutex
	notifications map[string]*Notification
	order         []string
}

func NewManager(email EmailSender, sms SMSSender, tpl *TemplateEngine, opts ManagerOptions) *Manager {
	if tpl == nil {
		tpl = NewTemplateEngine()
	}
	if opts.MaxKept <= 0 {
		opts.MaxKept = 1000
	}
	return &Manager{
		email:         email,
		sms:           sms,
		templates:     tpl,
		prefix:        opts.CountryPrefix,
		maxKept:       opts.MaxKept,
		logger:        opts.Logger,
		now:           func() time.Time { return time.Now().UTC() },
		notifications: make(map[string]*Notification),
	}
}

// ChannelFor picks email for anything that parses as an address, SMS otherwise.
func ChannelFor(contact string) Channel {
	if validation.IsEmail(contact) {
		return ChannelEmail
	}
	return ChannelSMS
}

// Address returns the channel and the deliverable address for a contact.
func (m *Manager) Address(contact string) (Channel, string) {
	contact = strings.TrimSpace(contact)
	ch := ChannelFor(contact)
	if ch == ChannelSMS && !strings.HasPrefix(contact, "+") {
		return ch, m.prefix + contact
	}
	return ch, contact
}

// Notify renders templateID for the contact's channel and delivers it. The
// returned notification is populated even when delivery fails.
func (m *Manager) Notify(ctx context.Context, contact, templateID string, data map[string]string) (*Notification, error) {
	if strings.TrimSpace(contact) == "" {
		return nil, fmt.Errorf("notification %s: recipient contact is empty", templateID)
	}
	ch, addr := m.Address(contact)
	subject, body, err := m.templates.Render(templateID, ch, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	n := &Notification{
		Channel:    ch,
		Recipient:  addr,
		Subject:    subject,
		Body:       body,
		TemplateID: templateID,
		Data:       data,
	}
	err = m.Send(ctx, n)
	return n, err
}

// Send delivers n, stamps its outcome and records it.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = m.now()

	err := m.deliver(ctx, n)
	m.record(n, err)

	m.mu.Lock()
	if _, exists := m.notifications[n.ID]; !exists {
		m.order = append(m.order, n.ID)
	}
	m.notifications[n.ID] = n
	for len(m.order) > m.maxKept {
		delete(m.notifications, m.order[0])
		m.order = m.order[1:]
	}
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn().Err(err).
			Str("notification_id", n.ID).
			Str("template", n.TemplateID).
			Str("channel", string(n.Channel)).
			Msg("notification delivery failed")
	}
	return err
}

func (m *Manager) deliver(ctx context.Context, n *Notification) error {
	switch n.Channel {
	case ChannelEmail:
		if m.email == nil {
			return fmt.Errorf("no email sender configured")
		}
		return m.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
	case ChannelSMS:
		if m.sms == nil {
			return fmt.Errorf("no sms sender configured")
		}
		return m.sms.SendSMS(ctx, n.Recipient, n.Body)
	default:
		return fmt.Errorf("unsupported channel: %s", n.Channel)
	}
}

func (m *Manager) record(n *Notification, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.Attempts++
	if err != nil {
		n.Status = StatusFailed
		n.Error = err.Error()
		return
	}
	sentAt := m.now()
	n.Status = StatusSent
	n.SentAt = &sentAt
	n.Error = ""
}

// Get returns a snapshot of one notification.
func (m *Manager) Get(id string) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	cp := *n
	return &cp, nil
}

// List returns up to limit notifications, newest first, optionally filtered
// by status.
func (m *Manager) List(status string, limit int) []*Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Notification, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		n := m.notifications[m.order[i]]
		if status != "" && n.Status != status {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out
}

// Retry re-sends a failed notification.
func (m *Manager) Retry(ctx context.Context, id string) (*Notification, error) {
	m.mu.RLock()
	n, ok := m.notifications[id]
	var status string
	if ok {
		status = n.Status
	}
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("notification %q not found", id)
	}
	if status != StatusFailed {
		return nil, fmt.Errorf("notification %q is not in failed status (current: %s)", id, status)
	}

	err := m.deliver(ctx, n)
	m.record(n, err)
	cp, _ := m.Get(id)
	return cp, err
}

// Stats counts retained notifications by status and by template.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byStatus := make(map[string]int)
	byTemplate := make(map[string]int)
	for _, n := range m.notifications {
		byStatus[n.Status]++
		if n.TemplateID != "" {
			byTemplate[n.TemplateID]++
		}
	}
	return map[string]interface{}{
		"total":       len(m.notifications),
		"by_status":   byStatus,
		"by_template": byTemplate,
	}
}
