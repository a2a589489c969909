package notification

import (
	"context"
	"time"
)

// Mailer sends the two notification emails the tracker produces.
// Both sends are best-effort from the caller's perspective: failures are
// logged by the caller and never abort the operation that triggered them.
type Mailer interface {
	// SendAssignment notifies a user that a task was assigned to them.
	// dueDate is nil when the task has no due date.
	SendAssignment(ctx context.Context, email, fullName, title, description string, dueDate *time.Time) error

	// SendOverdue reminds a user that an assigned task has passed its
	// due date.
	SendOverdue(ctx context.Context, email, fullName, title string, dueDate time.Time) error
}
