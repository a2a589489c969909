package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/domain"
)

// Message is the JSON payload placed on the overdue queue, one per
// overdue task. AssignedTo is null for unassigned tasks; consumers must
// tolerate that and skip the email.
type Message struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	DueDate    time.Time       `json:"dueDate"`
	AssignedTo *domain.Contact `json:"assignedTo"`
}

// NewMessage builds the queue payload for one overdue task.
func NewMessage(task *domain.OverdueTask) Message {
	return Message{
		ID:         task.TaskID,
		Title:      task.Title,
		DueDate:    task.DueDate,
		AssignedTo: task.Assignee,
	}
}

// Encode serializes the message for publishing.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMessage parses a queue payload. An error means the payload is
// malformed and should be rejected without requeue.
func DecodeMessage(body []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
