package events

import (
	"time"

	"github.com/spec-kit/submission-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated       EventType = "submission_created"
	EventSubmissionStatusChanged EventType = "submission_status_changed"
	EventTaskCompletionFailed    EventType = "task_completion_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	SubmissionID string      `json:"submission_id"`
	TaskID       string      `json:"task_id"`
	ActorID      string      `json:"actor_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// SubmissionCreatedPayload payload.
type SubmissionCreatedPayload struct {
	SubmitterID string `json:"submitter_id"`
}

// SubmissionStatusChangedPayload payload.
type SubmissionStatusChangedPayload struct {
	OldStatus      domain.SubmissionStatus `json:"old_status"`
	NewStatus      domain.SubmissionStatus `json:"new_status"`
	ContentChanged bool                    `json:"content_changed"`
}

// TaskCompletionFailedPayload payload.
type TaskCompletionFailedPayload struct {
	Reason string `json:"reason"`
}
