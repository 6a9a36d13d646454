package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/submission-service/internal/domain"
)

var (
	// ErrNotFound is returned when no submission matches the lookup.
	ErrNotFound = errors.New("submission not found")
	// ErrDuplicate is returned when a submission already exists for the task and submitter.
	ErrDuplicate = errors.New("submission already exists for task and submitter")
)

const uniqueViolation = "23505"

// SubmissionRepository encapsulates submission persistence.
type SubmissionRepository interface {
	Insert(ctx context.Context, submission *domain.Submission) error
	Update(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, id string) (*domain.Submission, error)
	FindByTaskAndSubmitter(ctx context.Context, taskID, submitterID string) (*domain.Submission, error)
	ListAll(ctx context.Context) ([]domain.Submission, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Submission, error)
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository returns a Postgres-backed implementation.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

const submissionColumns = `id::text, task_id, user_id, status, content, submitted_at, updated_at`

func (r *submissionRepository) Insert(ctx context.Context, submission *domain.Submission) error {
	const query = `
        INSERT INTO task_submissions (task_id, user_id, status, content, submitted_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id::text`
	err := r.pool.QueryRow(ctx, query,
		submission.TaskID,
		submission.SubmitterID,
		submission.Status,
		submission.Content,
		submission.SubmittedAt,
		submission.UpdatedAt,
	).Scan(&submission.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *submissionRepository) Update(ctx context.Context, submission *domain.Submission) error {
	const query = `
        UPDATE task_submissions SET status=$1, content=$2, updated_at=$3
        WHERE id::text=$4`
	cmd, err := r.pool.Exec(ctx, query,
		submission.Status,
		submission.Content,
		submission.UpdatedAt,
		submission.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM task_submissions WHERE id::text=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *submissionRepository) FindByTaskAndSubmitter(ctx context.Context, taskID, submitterID string) (*domain.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM task_submissions WHERE task_id=$1 AND user_id=$2`
	return r.fetchSingle(ctx, query, taskID, submitterID)
}

func (r *submissionRepository) ListAll(ctx context.Context) ([]domain.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM task_submissions ORDER BY submitted_at DESC, seq ASC`
	return r.list(ctx, query)
}

func (r *submissionRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Submission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM task_submissions WHERE task_id=$1 ORDER BY submitted_at DESC, seq ASC`
	return r.list(ctx, query, taskID)
}

func (r *submissionRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Submission, error) {
	submission, err := scanSubmission(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *submissionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Submission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Submission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *submission)
	}
	return result, rows.Err()
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var (
		submission  domain.Submission
		submittedAt time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(
		&submission.ID,
		&submission.TaskID,
		&submission.SubmitterID,
		&submission.Status,
		&submission.Content,
		&submittedAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	submission.SubmittedAt = submittedAt.UTC()
	submission.UpdatedAt = updatedAt.UTC()
	return &submission, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
