package domain

// TaskStatus is the task service's lifecycle state.
type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "PENDING"
	TaskStatusAssigned TaskStatus = "ASSIGNED"
	TaskStatusDone     TaskStatus = "DONE"
)

// TaskSnapshot is a read-only projection of a task owned by the task service.
type TaskSnapshot struct {
	ID             string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	AssignedUserID *string    `json:"assignedUserId"`
	Status         TaskStatus `json:"status"`
}

// IsFinished reports whether the task no longer accepts submissions.
func (t TaskSnapshot) IsFinished() bool {
	return t.Status == TaskStatusDone
}

// AssignedToOther reports whether the task is assigned to someone other than userID.
func (t TaskSnapshot) AssignedToOther(userID string) bool {
	return t.AssignedUserID != nil && *t.AssignedUserID != userID
}
