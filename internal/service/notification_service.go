package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/submission-service/internal/config"
	"github.com/spec-kit/submission-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionCreated, n.handleSubmissionCreated)
	n.dispatcher.Subscribe(events.EventSubmissionStatusChanged, n.handleSubmissionStatusChanged)
	n.dispatcher.Subscribe(events.EventTaskCompletionFailed, n.handleTaskCompletionFailed)
}

func (n *NotificationService) handleSubmissionCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionCreated",
		zap.String("submission_id", event.SubmissionID),
		zap.String("task_id", event.TaskID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSubmissionStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("SubmissionStatusChanged",
		zap.String("submission_id", event.SubmissionID),
		zap.String("task_id", event.TaskID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// Completion failures go to operators only.
func (n *NotificationService) handleTaskCompletionFailed(_ context.Context, event events.Event) error {
	n.logger.Warn("TaskCompletionFailed",
		zap.String("submission_id", event.SubmissionID),
		zap.String("task_id", event.TaskID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("submission_id", event.SubmissionID),
		zap.String("event_type", string(event.Type)))
}
