package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/wellness-service/internal/config"
	"github.com/spec-kit/wellness-service/internal/events"
)

// NotificationService turns domain events into user-facing notifications.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger, cfg: cfg}
}

// Handlers maps each notified event type to its handler.
func (n *NotificationService) Handlers() map[events.EventType]events.EventHandler {
	return map[events.EventType]events.EventHandler{
		events.EventGoalCompleted:                 n.handleGoalCompleted,
		events.EventGoalProgressRecorded:          n.handleGoalProgress,
		events.EventConsultationBooked:            n.handleConsultationBooked,
		events.EventConsultationStatusChanged:     n.handleConsultationStatusChanged,
		events.EventConsultationDieticianAssigned: n.handleDieticianAssigned,
		events.EventConsultationDeleted:           n.handleConsultationDeleted,
	}
}

func (n *NotificationService) handleGoalCompleted(ctx context.Context, event events.Event) error {
	n.logger.Info("GoalCompleted", zap.String("goal_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGoalProgress(_ context.Context, event events.Event) error {
	n.logger.Debug("GoalProgressRecorded", zap.String("goal_id", event.AggregateID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleConsultationBooked(ctx context.Context, event events.Event) error {
	n.logger.Info("ConsultationBooked", zap.String("consultation_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleConsultationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ConsultationStatusChanged", zap.String("consultation_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDieticianAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ConsultationDieticianAssigned", zap.String("consultation_id", event.AggregateID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleConsultationDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("ConsultationDeleted", zap.String("consultation_id", event.AggregateID), zap.String("actor_id", event.ActorID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}
