package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/submission-service/internal/domain"
)

type countingRepository struct {
	SubmissionRepository
	findCalls int
}

func (c *countingRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	c.findCalls++
	return c.SubmissionRepository.FindByID(ctx, id)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedRepositoryMissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, client, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, repo.Insert(ctx, s))

	first, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, base.findCalls)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Status, second.Status)
	assert.True(t, second.SubmittedAt.Equal(s.SubmittedAt))
	ttl := mr.TTL(submissionCacheKey(s.ID))
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)
}

func TestCachedRepositoryUpdateWritesThrough(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, client, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, s))
	_, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(submissionCacheKey(s.ID)))

	s.MarkStatus(domain.SubmissionStatusApproved, s.UpdatedAt.Add(time.Second))
	require.NoError(t, repo.Update(ctx, s))
	require.True(t, mr.Exists(submissionCacheKey(s.ID)))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionStatusApproved, found.Status)
	assert.True(t, found.UpdatedAt.Equal(s.UpdatedAt))
	assert.Equal(t, 1, base.findCalls)
}

func TestCachedRepositoryUpdateMissingIsNotCached(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCachedSubmissionRepository(NewMemorySubmissionRepository(), client, time.Minute)

	s := newSubmission("t1", "u1", time.Now().UTC())
	s.ID = "ghost"
	assert.ErrorIs(t, repo.Update(context.Background(), s), ErrNotFound)
	assert.False(t, mr.Exists(submissionCacheKey("ghost")))
}

func TestCachedRepositoryReadErrorKeepsEntry(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, client, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, s))
	// GET on a list fails with WRONGTYPE
	_, err := mr.Push(submissionCacheKey(s.ID), "x")
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Equal(t, 1, base.findCalls)
	assert.True(t, mr.Exists(submissionCacheKey(s.ID)))
}

func TestCachedRepositoryRedisDownFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, client, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, s))
	mr.Close()

	for i := 0; i < 2; i++ {
		found, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, found.ID)
	}
	assert.Equal(t, 2, base.findCalls)

	s.MarkStatus(domain.SubmissionStatusRejected, time.Now().UTC())
	require.NoError(t, repo.Update(ctx, s))
}

func TestCachedRepositoryCorruptEntryFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, client, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, s))
	require.NoError(t, mr.Set(submissionCacheKey(s.ID), "{not json"))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	assert.Equal(t, 1, base.findCalls)
}

func TestCachedRepositoryDisabledWithoutClient(t *testing.T) {
	base := &countingRepository{SubmissionRepository: NewMemorySubmissionRepository()}
	repo := NewCachedSubmissionRepository(base, nil, time.Minute)
	ctx := context.Background()

	s := newSubmission("t1", "u1", time.Now().UTC())
	require.NoError(t, repo.Insert(ctx, s))
	for i := 0; i < 3; i++ {
		_, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, base.findCalls)

	_, err := repo.FindByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
