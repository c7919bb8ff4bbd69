// Package notification delivers CureConnect emails and SMS messages. A
// recipient's contact decides the channel: email addresses get mail, anything
// else is treated as a phone number.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Channel is the delivery route used for a notification.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Notification is a single outbound message and its delivery outcome.
type Notification struct {
	ID         string            `json:"id"`
	Channel    Channel           `json:"channel"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body"`
	TemplateID string            `json:"template_id,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	CreatedAt  time.Time         `json:"created_at"`
	SentAt     *time.Time        `json:"sent_at,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// EmailSender delivers a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a text message to a full international number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Template holds the email and SMS variants of one message. Placeholders are
// written {{key}}.
type Template struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	SMS     string `json:"sms"`
}

const (
	TplWelcome              = "welcome"
	TplAppointmentPatient   = "appointment-booked-patient"
	TplAppointmentDoctor    = "appointment-booked-doctor"
	TplAppointmentReminder  = "appointment-reminder"
	TplSameDayReminder      = "appointment-same-day"
	TplFollowUpReminder     = "follow-up-reminder"
	TplFollowUpScheduled    = "follow-up-scheduled"
	TplAppointmentCompleted = "appointment-completed"
	TplDoctorJoined         = "doctor-joined"
	TplTicketCreatedAdmin   = "ticket-created-admin"
	TplTicketUpdated        = "ticket-updated"
)

var builtInTemplates = []Template{
	{
		ID:      TplWelcome,
		Subject: "Welcome to CureConnect",
		Body:    "Welcome to CureConnect {{name}}",
		SMS:     "Welcome to CureConnect {{name}}",
	},
	{
		ID:      TplAppointmentPatient,
		Subject: "Appointment Confirmed - Dr. {{doctor_name}}",
		Body: `Dear {{patient_name}},
Your appointment has been successfully scheduled with Dr. {{doctor_name}}.

Appointment Details:
-------------------
Date: {{day}}
Time: {{time}}
Doctor: Dr. {{doctor_name}}
Speciality: {{speciality}}
Description: {{description}}
Symptoms: {{symptoms}}
Room: {{room_url}}

Best regards,
CureConnect Team`,
		SMS: "CureConnect: Appointment confirmed! Dr. {{doctor_name}} ({{speciality}}) Date: {{day}} Time: {{time}} Room: {{room_url}}",
	},
	{
		ID:      TplAppointmentDoctor,
		Subject: "New Appointment - {{patient_name}}",
		Body: `Dear Dr. {{doctor_name}},
You have a new appointment scheduled.

Patient Details:
---------------
Patient: {{patient_name}}
Contact: {{patient_contact}}
Date: {{day}}
Time: {{time}}
Description: {{description}}
Symptoms: {{symptoms}}
Room: {{room_url}}

Best regards,
CureConnect Team`,
		SMS: "CureConnect: New appointment with {{patient_name}} on {{day}} at {{time}}. Room: {{room_url}}",
	},
	{
		ID:      TplAppointmentReminder,
		Subject: "Appointment Reminder - starts in 5 minutes",
		Body: `Dear {{name}},
Your appointment on {{day}} at {{time}} starts in 5 minutes.

Join here: {{room_url}}

Best regards,
CureConnect Team`,
		SMS: "CureConnect Reminder: your appointment starts in 5 minutes ({{day}} {{time}}). Room: {{room_url}}",
	},
	{
		ID:      TplSameDayReminder,
		Subject: "Reminder: Appointment in 2 hours - Dr. {{doctor_name}}",
		Body: `Dear {{patient_name}},
This is a reminder that you have an appointment in 2 hours.

Appointment Details:
-------------------
Date: Today ({{day}})
Time: {{time}}
Doctor: Dr. {{doctor_name}}
Speciality: {{speciality}}
Room: {{room_url}}

Please be ready to join the video call 5 minutes before your scheduled time.

Best regards,
CureConnect Team`,
		SMS: "CureConnect Reminder: appointment with Dr. {{doctor_name}} today at {{time}}. Room: {{room_url}}",
	},
	{
		ID:      TplFollowUpReminder,
		Subject: "Reminder: Follow-up Appointment Tomorrow - Dr. {{doctor_name}}",
		Body: `Dear {{patient_name}},
This is a reminder that you have a follow-up appointment tomorrow.

Appointment Details:
-------------------
Date: {{day}}
Time: {{time}}
Doctor: Dr. {{doctor_name}}
Speciality: {{speciality}}
Room: {{room_url}}
{{instructions}}
Please be ready 5 minutes before your scheduled time.

Best regards,
CureConnect Team`,
		SMS: "CureConnect Reminder: Follow-up appointment with Dr. {{doctor_name}} tomorrow at {{time}}. Room: {{room_url}}",
	},
	{
		ID:      TplFollowUpScheduled,
		Subject: "Follow-up Appointment Scheduled - Dr. {{doctor_name}}",
		Body: `Dear {{patient_name}},
Dr. {{doctor_name}} has scheduled a follow-up appointment for you.

Date: {{day}}
Time: {{time}}
Room: {{room_url}}
{{instructions}}
Best regards,
CureConnect Team`,
		SMS: "CureConnect: Follow-up with Dr. {{doctor_name}} on {{day}} at {{time}}. Room: {{room_url}}",
	},
	{
		ID:      TplAppointmentCompleted,
		Subject: "Appointment Completed - Dr. {{doctor_name}}",
		Body: `Dear {{patient_name}},

Your appointment with Dr. {{doctor_name}} has been completed.

Appointment Details:
-------------------
Date: {{day}}
Time: {{time}}
Doctor: Dr. {{doctor_name}}
Speciality: {{speciality}}
Status: Completed

Thank you for choosing CureConnect for your healthcare needs.

Best regards,
CureConnect Team`,
		SMS: "CureConnect: Appointment with Dr. {{doctor_name}} completed on {{day}} at {{time}}. Thank you for choosing CureConnect!",
	},
	{
		ID:      TplDoctorJoined,
		Subject: "Doctor {{doctor_name}} has joined your video consultation",
		Body: `Dear {{patient_name}},

Dr. {{doctor_name}} has joined the video consultation and is waiting for you.

Join now: {{room_url}}

Best regards,
CureConnect Team`,
		SMS: "CureConnect: Dr. {{doctor_name}} is waiting in your video consultation. Join: {{room_url}}",
	},
	{
		ID:      TplTicketCreatedAdmin,
		Subject: "New Support Ticket - {{ticket_id}}",
		Body: `A new support ticket has been created.

Ticket ID: {{ticket_id}}
User: {{user_name}} ({{user_contact}})
Subject: {{subject}}
Category: {{category}}
Priority: {{priority}}

Description:
{{description}}`,
		SMS: "CureConnect: new ticket {{ticket_id}} ({{priority}}) - {{subject}}",
	},
	{
		ID:      TplTicketUpdated,
		Subject: "Ticket Update - {{ticket_id}}",
		Body: `Dear {{user_name}},

Your support ticket has been updated.

Ticket ID: {{ticket_id}}
Subject: {{subject}}
Status: {{status}}
{{note}}
Best regards,
CureConnect Support Team`,
		SMS: "CureConnect: ticket {{ticket_id}} is now {{status}}.",
	},
}

// TemplateEngine renders registered templates.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewTemplateEngine returns an engine preloaded with the CureConnect templates.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]Template, len(builtInTemplates))}
	for _, t := range builtInTemplates {
		e.templates[t.ID] = t
	}
	return e
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = t
}

// Render fills a template for the given channel. SMS renders carry no subject.
// Placeholders without a value are left untouched.
func (e *TemplateEngine) Render(templateID string, ch Channel, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	if ch == ChannelSMS {
		body = t.SMS
		if body == "" {
			body = t.Body
		}
	} else {
		subject, body = t.Subject, t.Body
	}
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// SMSCall records a single call to SendSMS.
type SMSCall struct {
	To   string
	Body string
}

// MockSMSSender is a test double for SMSSender.
type MockSMSSender struct {
	mu         sync.Mutex
	calls      []SMSCall
	ShouldFail bool
	FailError  string
}

func (m *MockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, SMSCall{To: to, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded SMS calls.
func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// RoomURL builds the link patients and doctors use to join a video room.
func RoomURL(base, roomID string) string {
	if base == "" {
		return roomID
	}
	return base + "?roomID=" + roomID
}
