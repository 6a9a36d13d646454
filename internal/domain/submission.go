package domain

import (
	"strings"
	"time"
)

// SubmissionStatus enumerates review states for a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// ParseSubmissionStatus matches raw case-insensitively against the known statuses.
func ParseSubmissionStatus(raw string) (SubmissionStatus, bool) {
	switch status := SubmissionStatus(strings.ToUpper(strings.TrimSpace(raw))); status {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return status, true
	default:
		return "", false
	}
}

// Lower returns the boundary-facing spelling of the status.
func (s SubmissionStatus) Lower() string {
	return strings.ToLower(string(s))
}

// Submission is a piece of work submitted by a user against a task.
type Submission struct {
	ID          string
	TaskID      string
	SubmitterID string
	Status      SubmissionStatus
	Content     string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// MarkStatus applies a status transition. Any status may follow any other.
func (s *Submission) MarkStatus(status SubmissionStatus, at time.Time) {
	s.Status = status
	s.UpdatedAt = at
}

// RefreshContent replaces the submitted content.
func (s *Submission) RefreshContent(content string, at time.Time) {
	s.Content = content
	s.UpdatedAt = at
}
