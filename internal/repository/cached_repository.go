package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/submission-service/internal/domain"
)

// CachedSubmissionRepository serves FindByID from Redis and falls back to the
// wrapped repository on a miss or any Redis failure.
type CachedSubmissionRepository struct {
	SubmissionRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedSubmissionRepository wraps base with a Redis read-through cache.
// A nil client or non-positive ttl turns caching off.
func NewCachedSubmissionRepository(base SubmissionRepository, client *redis.Client, ttl time.Duration) *CachedSubmissionRepository {
	if base == nil {
		panic("repository.NewCachedSubmissionRepository: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CachedSubmissionRepository{SubmissionRepository: base, redis: client, ttl: ttl}
}

func (c *CachedSubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	if submission, ok := c.load(ctx, id); ok {
		return submission, nil
	}
	submission, err := c.SubmissionRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.store(ctx, submission)
	return submission, nil
}

// Update writes through to the cache once the base store has committed. A
// concurrent FindByID that read the old row before the commit can still
// overwrite the entry afterwards; such a stale entry lives at most one TTL.
func (c *CachedSubmissionRepository) Update(ctx context.Context, submission *domain.Submission) error {
	if err := c.SubmissionRepository.Update(ctx, submission); err != nil {
		return err
	}
	if err := c.store(ctx, submission); err != nil {
		c.evict(ctx, submission.ID)
	}
	return nil
}

type cachedSubmission struct {
	ID          string                  `json:"id"`
	TaskID      string                  `json:"task_id"`
	SubmitterID string                  `json:"user_id"`
	Status      domain.SubmissionStatus `json:"status"`
	Content     string                  `json:"content"`
	SubmittedAt time.Time               `json:"submitted_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func (c *CachedSubmissionRepository) enabled() bool {
	return c.redis != nil && c.ttl > 0
}

func (c *CachedSubmissionRepository) load(ctx context.Context, id string) (*domain.Submission, bool) {
	if !c.enabled() {
		return nil, false
	}
	data, err := c.redis.Get(ctx, submissionCacheKey(id)).Bytes()
	if err != nil {
		// miss, or Redis is unreachable
		return nil, false
	}
	var cached cachedSubmission
	if err := json.Unmarshal(data, &cached); err != nil {
		_ = c.redis.Del(ctx, submissionCacheKey(id)).Err()
		return nil, false
	}
	return &domain.Submission{
		ID:          cached.ID,
		TaskID:      cached.TaskID,
		SubmitterID: cached.SubmitterID,
		Status:      cached.Status,
		Content:     cached.Content,
		SubmittedAt: cached.SubmittedAt,
		UpdatedAt:   cached.UpdatedAt,
	}, true
}

func (c *CachedSubmissionRepository) store(ctx context.Context, submission *domain.Submission) error {
	if !c.enabled() {
		return nil
	}
	data, err := json.Marshal(cachedSubmission{
		ID:          submission.ID,
		TaskID:      submission.TaskID,
		SubmitterID: submission.SubmitterID,
		Status:      submission.Status,
		Content:     submission.Content,
		SubmittedAt: submission.SubmittedAt,
		UpdatedAt:   submission.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, submissionCacheKey(submission.ID), data, c.ttl).Err()
}

func (c *CachedSubmissionRepository) evict(ctx context.Context, id string) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, submissionCacheKey(id)).Err()
}

func submissionCacheKey(id string) string {
	return "submission:" + id
}
