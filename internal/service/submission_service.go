package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/submission-service/internal/client"
	"github.com/spec-kit/submission-service/internal/domain"
	"github.com/spec-kit/submission-service/internal/events"
	"github.com/spec-kit/submission-service/internal/repository"
	apperrors "github.com/spec-kit/submission-service/pkg/util/errorutil"
)

// IdentityResolver turns a caller credential into a verified actor.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Actor, error)
}

// TaskClient reads and completes tasks owned by the task service.
type TaskClient interface {
	FetchTask(ctx context.Context, taskID, credential string) (*domain.TaskSnapshot, error)
	CompleteTask(ctx context.Context, taskID, credential string) (*domain.TaskSnapshot, error)
}

// CompletionFailureRecorder counts swallowed task completion failures.
type CompletionFailureRecorder interface {
	RecordTaskCompletionFailure()
}

// SubmissionService coordinates the submission workflow against the task service.
type SubmissionService struct {
	submissions repository.SubmissionRepository
	identity    IdentityResolver
	tasks       TaskClient
	dispatcher  events.Dispatcher
	failures    CompletionFailureRecorder
	logger      *zap.Logger
	now         func() time.Time
}

// SubmissionDependencies bundles collaborators for the submission service.
type SubmissionDependencies struct {
	SubmissionRepo repository.SubmissionRepository
	Identity       IdentityResolver
	Tasks          TaskClient
	Dispatcher     events.Dispatcher
	Failures       CompletionFailureRecorder
	Logger         *zap.Logger
	Clock          func() time.Time
}

// SubmissionCreateInput describes a new submission.
type SubmissionCreateInput struct {
	TaskID  string
	Content string
}

// SubmissionUpdateInput describes a status update. A nil or blank Content keeps
// the current content.
type SubmissionUpdateInput struct {
	Status  string
	Content *string
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &SubmissionService{
		submissions: deps.SubmissionRepo,
		identity:    deps.Identity,
		tasks:       deps.Tasks,
		dispatcher:  deps.Dispatcher,
		failures:    deps.Failures,
		logger:      logger,
		now:         clock,
	}
}

// CreateSubmission records work submitted by the caller against a task.
func (s *SubmissionService) CreateSubmission(ctx context.Context, credential string, input SubmissionCreateInput) (*domain.Submission, error) {
	taskID := input.TaskID
	content := strings.TrimSpace(input.Content)
	if strings.TrimSpace(taskID) == "" {
		return nil, apperrors.NewValidationError("taskId is required", map[string]any{"field": "taskId"})
	}
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", map[string]any{"field": "content"})
	}

	actor, err := s.resolveActor(ctx, credential)
	if err != nil {
		return nil, err
	}

	task, err := s.fetchTask(ctx, taskID, credential)
	if err != nil {
		return nil, err
	}
	if task.AssignedToOther(actor.ID) {
		return nil, apperrors.NewForbidden("only the assigned user can submit work for this task")
	}
	if task.IsFinished() {
		return nil, apperrors.NewSubmissionsClosed("task is already completed; submissions are closed",
			map[string]any{"task_id": taskID})
	}

	if _, err := s.submissions.FindByTaskAndSubmitter(ctx, taskID, actor.ID); err == nil {
		return nil, duplicateSubmission(taskID, actor.ID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	submission := &domain.Submission{
		TaskID:      taskID,
		SubmitterID: actor.ID,
		Status:      domain.SubmissionStatusPending,
		Content:     content,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.submissions.Insert(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, duplicateSubmission(taskID, actor.ID)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("submission created",
		zap.String("submission_id", submission.ID),
		zap.String("task_id", taskID),
		zap.String("user_id", actor.ID))
	s.publishEvent(ctx, events.Event{
		Type:         events.EventSubmissionCreated,
		SubmissionID: submission.ID,
		TaskID:       taskID,
		ActorID:      actor.ID,
		Payload:      events.SubmissionCreatedPayload{SubmitterID: actor.ID},
	})
	return submission, nil
}

// GetSubmission returns a submission by id.
func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("submission", map[string]any{"submission_id": submissionID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return submission, nil
}

// ListSubmissions returns every submission, most recent first.
func (s *SubmissionService) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	submissions, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return nonNil(submissions), nil
}

// ListTaskSubmissions returns the submissions for one task, most recent first.
func (s *SubmissionService) ListTaskSubmissions(ctx context.Context, taskID string) ([]domain.Submission, error) {
	submissions, err := s.submissions.ListByTask(ctx, taskID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return nonNil(submissions), nil
}

// UpdateSubmission changes the status and optionally the content of a submission.
// Owners may only keep a submission PENDING; administrators may set any status.
// An approval additionally asks the task service to complete the task; that call
// is advisory and its failure never affects the returned result.
func (s *SubmissionService) UpdateSubmission(ctx context.Context, credential, submissionID string, input SubmissionUpdateInput) (*domain.Submission, error) {
	if strings.TrimSpace(input.Status) == "" {
		return nil, apperrors.NewValidationError("status is required", map[string]any{"field": "status"})
	}

	submission, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	actor, err := s.resolveActor(ctx, credential)
	if err != nil {
		return nil, err
	}

	newStatus, ok := domain.ParseSubmissionStatus(input.Status)
	if !ok {
		return nil, apperrors.NewInvalidStatus(input.Status)
	}

	if !actor.IsOwnerOrAdmin(submission.SubmitterID) {
		return nil, apperrors.NewForbidden("you do not have permission to update this submission")
	}
	if !actor.IsAdmin() && newStatus != domain.SubmissionStatusPending {
		return nil, apperrors.NewForbidden("only administrators can approve or reject submissions")
	}

	now := s.now()
	oldStatus := submission.Status
	contentChanged := false
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		submission.RefreshContent(strings.TrimSpace(*input.Content), now)
		contentChanged = true
	}
	submission.MarkStatus(newStatus, now)

	if err := s.submissions.Update(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("submission", map[string]any{"submission_id": submissionID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("submission updated",
		zap.String("submission_id", submission.ID),
		zap.String("task_id", submission.TaskID),
		zap.String("user_id", actor.ID),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)))
	s.publishEvent(ctx, events.Event{
		Type:         events.EventSubmissionStatusChanged,
		SubmissionID: submission.ID,
		TaskID:       submission.TaskID,
		ActorID:      actor.ID,
		Payload: events.SubmissionStatusChangedPayload{
			OldStatus:      oldStatus,
			NewStatus:      newStatus,
			ContentChanged: contentChanged,
		},
	})

	if newStatus == domain.SubmissionStatusApproved {
		s.completeTask(ctx, submission, actor, credential)
	}
	return submission, nil
}

// completeTask asks the task service to mark the task done. Failures are
// logged, counted and dropped; the submission update is already committed.
func (s *SubmissionService) completeTask(ctx context.Context, submission *domain.Submission, actor *domain.Actor, credential string) {
	if _, err := s.tasks.CompleteTask(ctx, submission.TaskID, credential); err != nil {
		s.logger.Warn("failed to mark task complete after submission approval",
			zap.String("submission_id", submission.ID),
			zap.String("task_id", submission.TaskID),
			zap.Error(err))
		if s.failures != nil {
			s.failures.RecordTaskCompletionFailure()
		}
		s.publishEvent(ctx, events.Event{
			Type:         events.EventTaskCompletionFailed,
			SubmissionID: submission.ID,
			TaskID:       submission.TaskID,
			ActorID:      actor.ID,
			Payload:      events.TaskCompletionFailedPayload{Reason: err.Error()},
		})
	}
}

func (s *SubmissionService) resolveActor(ctx context.Context, credential string) (*domain.Actor, error) {
	actor, err := s.identity.Resolve(ctx, credential)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, apperrors.NewUnauthorized("unable to resolve caller identity")
	}
	if actor == nil || actor.ID == "" {
		return nil, apperrors.NewUnauthorized("unable to resolve caller identity")
	}
	return actor, nil
}

func (s *SubmissionService) fetchTask(ctx context.Context, taskID, credential string) (*domain.TaskSnapshot, error) {
	task, err := s.tasks.FetchTask(ctx, taskID, credential)
	if err != nil {
		if errors.Is(err, client.ErrTaskNotFound) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		s.logger.Error("failed to fetch task", zap.String("task_id", taskID), zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable("unable to retrieve task details at this time", err)
	}
	return task, nil
}

func (s *SubmissionService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func duplicateSubmission(taskID, userID string) error {
	return apperrors.NewDuplicateSubmission("a submission already exists for this task and user",
		map[string]any{"task_id": taskID, "user_id": userID})
}

func nonNil(submissions []domain.Submission) []domain.Submission {
	if submissions == nil {
		return []domain.Submission{}
	}
	return submissions
}
