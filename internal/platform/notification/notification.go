// Package notification sends text messages to patients' families, keeping a
// record of every attempt so failed deliveries can be retried.
package notification

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/pkg/apperr"
)

// Delivery statuses.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// TemplateDebtReminder is the built-in payment reminder.
const TemplateDebtReminder = "debt-reminder"

// Notification is one outbound message and its delivery state.
type Notification struct {
	ID           string            `json:"id"`
	Recipient    string            `json:"recipient"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Status       string            `json:"status"`
	Attempts     int               `json:"attempts"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogSender writes messages to the log instead of delivering them. It is
// the sender used when no SMS gateway is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger.With().Str("component", "sms").Logger()}
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.logger.Info().Str("to", to).Str("body", body).Msg("sms")
	return nil
}

// Template is a message body with {{key}} placeholders.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Body string `json:"body"`
}

// Templates holds the registered message templates.
type Templates struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewTemplates returns a registry holding the built-in templates.
func NewTemplates() *Templates {
	t := &Templates{templates: make(map[string]Template)}
	t.Register(Template{
		ID:   TemplateDebtReminder,
		Name: "Payment reminder",
		Body: "Hello {{parent_name}}, this is a reminder that the balance for {{patient_name}}'s sessions is {{amount}}. Thank you!",
	})
	return t
}

// Register adds or replaces a template.
func (t *Templates) Register(tpl Template) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.templates[tpl.ID] = tpl
}

// Render fills the template's placeholders from data. Placeholders with no
// value are left as they are.
func (t *Templates) Render(id string, data map[string]string) (string, error) {
	t.mu.RLock()
	tpl, ok := t.templates[id]
	t.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template %q not found", id)
	}
	body := tpl.Body
	for k, v := range data {
		body = strings.ReplaceAll(body, "{{"+k+"}}", v)
	}
	return body, nil
}

// Manager sends notifications and keeps them in memory.
type Manager struct {
	sender    SMSSender
	templates *Templates
	logger    zerolog.Logger
	now       func() time.Time

	mu            sync.RWMutex
	notifications map[string]*Notification
}

func NewManager(sender SMSSender, templates *Templates, logger zerolog.Logger) *Manager {
	return &Manager{
		sender:        sender,
		templates:     templates,
		logger:        logger.With().Str("component", "notification").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
		notifications: make(map[string]*Notification),
	}
}

// Send delivers n and records the outcome. The notification is stored
// even when delivery fails.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if strings.TrimSpace(n.Recipient) == "" {
		return apperr.Validation("recipient is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = m.now()

	m.mu.Lock()
	m.notifications[n.ID] = n
	m.mu.Unlock()

	return m.deliver(ctx, n)
}

// SendTemplate renders the template and sends the result to recipient.
func (m *Manager) SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*Notification, error) {
	body, err := m.templates.Render(templateID, data)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	n := &Notification{
		Recipient:    recipient,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
	}
	if err := m.Send(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

func (m *Manager) deliver(ctx context.Context, n *Notification) error {
	err := m.sender.SendSMS(ctx, n.Recipient, n.Body)

	m.mu.Lock()
	defer m.mu.Unlock()
	n.Attempts++
	if err != nil {
		n.Status = StatusFailed
		n.Error = err.Error()
		m.logger.Error().Err(err).Str("notification_id", n.ID).Int("attempts", n.Attempts).Msg("failed to send notification")
		return apperr.Store("failed to send notification", err)
	}
	sentAt := m.now()
	n.Status = StatusSent
	n.SentAt = &sentAt
	n.Error = ""
	return nil
}

// Get returns a copy of the stored notification.
func (m *Manager) Get(_ context.Context, id string) (*Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification", id)
	}
	cp := *n
	return &cp, nil
}

// ListByRecipient returns the notifications sent to recipient, newest
// first, at most limit of them. A non-positive limit returns all.
func (m *Manager) ListByRecipient(_ context.Context, recipient string, limit int) []*Notification {
	m.mu.RLock()
	out := make([]*Notification, 0)
	for _, n := range m.notifications {
		if n.Recipient == recipient {
			cp := *n
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
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
		return nil, apperr.NotFound("notification", id)
	}
	if status != StatusFailed {
		return nil, apperr.Validation("notification %s is %s, only failed notifications can be retried", id, status)
	}
	err := m.deliver(ctx, n)
	out, _ := m.Get(ctx, id)
	return out, err
}

// Stats counts notifications by status.
func (m *Manager) Stats(_ context.Context) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make(map[string]int)
	for _, n := range m.notifications {
		stats[n.Status]++
	}
	return stats
}
