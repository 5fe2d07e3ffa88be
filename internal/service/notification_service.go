package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/recognition-service/internal/config"
	"github.com/spec-kit/recognition-service/internal/events"
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
	n.dispatcher.Subscribe(events.EventCampaignCreated, n.handleCampaignCreated)
	n.dispatcher.Subscribe(events.EventCampaignPublished, n.handleCampaignPublished)
	n.dispatcher.Subscribe(events.EventVoteCast, n.handleVoteCast)
	n.dispatcher.Subscribe(events.EventVoteAmended, n.handleVoteAmended)
}

func (n *NotificationService) handleCampaignCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CampaignCreated", zap.String("campaign_id", event.CampaignID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCampaignPublished(ctx context.Context, event events.Event) error {
	n.logger.Info("CampaignPublished", zap.String("campaign_id", event.CampaignID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVoteCast(ctx context.Context, event events.Event) error {
	n.logger.Info("VoteCast", zap.String("campaign_id", event.CampaignID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVoteAmended(ctx context.Context, event events.Event) error {
	n.logger.Info("VoteAmended", zap.String("campaign_id", event.CampaignID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("campaign_id", event.CampaignID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("campaign_id", event.CampaignID),
		zap.String("event_type", string(event.Type)))
}
