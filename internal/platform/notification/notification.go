// Package notification delivers appointment emails (and optional SMS) off the
// request path through a queue drained by background workers.
package notification

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Kinds
// ---------------------------------------------------------------------------

// Kind selects one of the fixed appointment templates.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindReminder     Kind = "reminder"
)

func (k Kind) Valid() bool {
	switch k {
	case KindConfirmation, KindCancellation, KindReminder:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Payloads
// ---------------------------------------------------------------------------

// AppointmentData is what every template can reference. DoctorName and Notes
// are optional and omitted from the output when empty.
type AppointmentData struct {
	AppointmentID int64  `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	DoctorName    string `json:"doctor_name,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Task is one outbound message waiting in the queue.
type Task struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Recipient  string          `json:"recipient"`
	Phone      string          `json:"phone,omitempty"`
	Data       AppointmentData `json:"data"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Result reports the outcome of a single send. It never carries a Go error so
// it can be logged or serialized as-is.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Email is a rendered message ready for transport.
type Email struct {
	ID      string
	To      string
	Subject string
	HTML    string
}

// ---------------------------------------------------------------------------
// Sender Interfaces
// ---------------------------------------------------------------------------

type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ---------------------------------------------------------------------------
// Mock Senders (test doubles)
// ---------------------------------------------------------------------------

// MockEmailSender records every email and optionally fails.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []Email
	ShouldFail bool
	FailError  string
}

func (m *MockEmailSender) SendEmail(_ context.Context, msg Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, msg)
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded emails.
func (m *MockEmailSender) Calls() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.calls))
	copy(out, m.calls)
	return out
}

type SMSCall struct {
	To   string
	Body string
}

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

func (m *MockSMSSender) Calls() []SMSCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SMSCall, len(m.calls))
	copy(out, m.calls)
	return out
}
