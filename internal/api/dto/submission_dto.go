package dto

import (
	"time"

	"github.com/spec-kit/submission-service/internal/domain"
)

// CreateSubmissionRequest payload.
type CreateSubmissionRequest struct {
	TaskID  string `json:"taskId"`
	Content string `json:"content"`
}

// UpdateSubmissionRequest payload. Content is optional.
type UpdateSubmissionRequest struct {
	Status  string  `json:"status"`
	Content *string `json:"content"`
}

// SubmissionResponse is the wire form of a submission.
type SubmissionResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSubmissionResponse maps a domain submission to its response form.
func NewSubmissionResponse(s *domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:        s.ID,
		TaskID:    s.TaskID,
		UserID:    s.SubmitterID,
		Status:    s.Status.Lower(),
		Content:   s.Content,
		CreatedAt: s.SubmittedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// NewSubmissionListResponse maps a slice, never returning nil.
func NewSubmissionListResponse(items []domain.Submission) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(items))
	for i := range items {
		out = append(out, NewSubmissionResponse(&items[i]))
	}
	return out
}
