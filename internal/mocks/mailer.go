package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/arolitec/taskboard-api/internal/notification"
)

// AssignmentEmail records one SendAssignment call.
type AssignmentEmail struct {
	Email    string
	FullName string
	Title    string
}

// OverdueEmail records one SendOverdue call.
type OverdueEmail struct {
	Email string
	Title string
}

// MockMailer implements notification.Mailer for testing. It records every
// send under a mutex, so tests can assert on emails sent from background
// goroutines.
type MockMailer struct {
	mu sync.Mutex

	// Err is returned by every send when set
	Err error

	Assignments []AssignmentEmail
	Overdues    []OverdueEmail
}

// Ensure MockMailer implements notification.Mailer
var _ notification.Mailer = (*MockMailer)(nil)

// SendAssignment implements the Mailer interface
func (m *MockMailer) SendAssignment(_ context.Context, email, fullName, title, _ string, _ *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Assignments = append(m.Assignments, AssignmentEmail{Email: email, FullName: fullName, Title: title})
	return m.Err
}

// SendOverdue implements the Mailer interface
func (m *MockMailer) SendOverdue(_ context.Context, email, _, title string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Overdues = append(m.Overdues, OverdueEmail{Email: email, Title: title})
	return m.Err
}

// SentAssignments returns a snapshot of the recorded assignment emails.
func (m *MockMailer) SentAssignments() []AssignmentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AssignmentEmail, len(m.Assignments))
	copy(out, m.Assignments)
	return out
}
