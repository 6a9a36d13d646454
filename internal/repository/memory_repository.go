package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/submission-service/internal/domain"
)

type memoryEntry struct {
	seq        int64
	submission domain.Submission
}

type memorySubmissionRepository struct {
	mu      sync.RWMutex
	nextSeq int64
	byID    map[string]*memoryEntry
	byPair  map[string]string
}

// NewMemorySubmissionRepository returns a process-local store. It enforces the
// same task/submitter uniqueness as the Postgres schema.
func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{
		byID:   make(map[string]*memoryEntry),
		byPair: make(map[string]string),
	}
}

func pairKey(taskID, submitterID string) string {
	return taskID + "\x00" + submitterID
}

func (r *memorySubmissionRepository) Insert(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(submission.TaskID, submission.SubmitterID)
	if _, exists := r.byPair[key]; exists {
		return ErrDuplicate
	}
	submission.ID = uuid.NewString()
	r.nextSeq++
	r.byID[submission.ID] = &memoryEntry{seq: r.nextSeq, submission: *submission}
	r.byPair[key] = submission.ID
	return nil
}

func (r *memorySubmissionRepository) Update(_ context.Context, submission *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[submission.ID]
	if !ok {
		return ErrNotFound
	}
	// identity fields are immutable
	entry.submission.Status = submission.Status
	entry.submission.Content = submission.Content
	entry.submission.UpdatedAt = submission.UpdatedAt
	return nil
}

func (r *memorySubmissionRepository) FindByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := entry.submission
	return &found, nil
}

func (r *memorySubmissionRepository) FindByTaskAndSubmitter(ctx context.Context, taskID, submitterID string) (*domain.Submission, error) {
	r.mu.RLock()
	id, ok := r.byPair[pairKey(taskID, submitterID)]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memorySubmissionRepository) ListAll(_ context.Context) ([]domain.Submission, error) {
	return r.collect(func(domain.Submission) bool { return true }), nil
}

func (r *memorySubmissionRepository) ListByTask(_ context.Context, taskID string) ([]domain.Submission, error) {
	return r.collect(func(s domain.Submission) bool { return s.TaskID == taskID }), nil
}

// collect returns matching submissions most recent first, ties in insertion order.
func (r *memorySubmissionRepository) collect(match func(domain.Submission) bool) []domain.Submission {
	r.mu.RLock()
	entries := make([]memoryEntry, 0, len(r.byID))
	for _, entry := range r.byID {
		if match(entry.submission) {
			entries = append(entries, *entry)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.submission.SubmittedAt.Equal(b.submission.SubmittedAt) {
			return a.submission.SubmittedAt.After(b.submission.SubmittedAt)
		}
		return a.seq < b.seq
	})

	result := make([]domain.Submission, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.submission)
	}
	return result
}
