package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/config"
	"github.com/spec-kit/inquiry-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventInquiryCreated, n.handleInquiryCreated)
	n.dispatcher.Subscribe(events.EventInquiryStatusChanged, n.handleInquiryStatusChanged)
	n.dispatcher.Subscribe(events.EventInquiryAssigned, n.handleInquiryAssigned)
	n.dispatcher.Subscribe(events.EventFollowUpLogged, n.handleFollowUpLogged)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleInquiryCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("InquiryCreated", zap.String("inquiry_id", event.InquiryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInquiryStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("InquiryStatusChanged", zap.String("inquiry_id", event.InquiryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleInquiryAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("InquiryAssigned", zap.String("inquiry_id", event.InquiryID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleFollowUpLogged(ctx context.Context, event events.Event) error {
	n.logger.Info("FollowUpLogged", zap.String("inquiry_id", event.InquiryID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handlePasswordResetRequested is the only delivery path for reset tokens:
// the HTTP response never carries them.
func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("PasswordResetRequested", zap.String("email", payload.Email))
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return nil
	}
	n.logger.Debug("sendPasswordResetEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", payload.Email),
		zap.String("token", payload.Token),
		zap.Time("expires_at", payload.ExpiresAt))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("inquiry_id", event.InquiryID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("inquiry_id", event.InquiryID),
		zap.String("event_type", string(event.Type)))
}
