package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/submission-service/internal/config"
	"github.com/spec-kit/submission-service/internal/events"
	"github.com/spec-kit/submission-service/internal/service"
)

// StartNotificationWorker builds the notification service and subscribes it
// to submission events on dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg)
	notifications.RegisterHandlers()
	logger.Info("notification worker started", zap.Bool("webhook_enabled", cfg.WebhookURL != ""))
	return notifications
}
