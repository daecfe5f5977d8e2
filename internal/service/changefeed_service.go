package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/events"
)

// defaultPublishTimeout bounds how long a write waits on Redis.
const defaultPublishTimeout = 500 * time.Millisecond

// ChangeFeedService logs committed changes and mirrors them onto a Redis
// pub/sub channel when a client is configured.
type ChangeFeedService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	client     *redis.Client
	channel    string

	publishTimeout time.Duration
}

// NewChangeFeedService creates the service. client may be nil.
func NewChangeFeedService(dispatcher events.Dispatcher, logger *zap.Logger, client *redis.Client, channel string) *ChangeFeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeedService{
		dispatcher: dispatcher,
		logger:     logger,
		client:     client,
		channel:    channel,

		publishTimeout: defaultPublishTimeout,
	}
}

// RegisterHandlers subscribes to every change event.
func (s *ChangeFeedService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		s.dispatcher.Subscribe(eventType, s.handleChange)
	}
}

func (s *ChangeFeedService) handleChange(ctx context.Context, event events.Event) error {
	s.logger.Info("change committed",
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID),
		zap.Any("payload", event.Payload))

	if s.client == nil || s.channel == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("encode change event", zap.Error(err))
		return nil
	}
	// Publishing runs inside the write request, so a stalled Redis must not
	// hold the response.
	pubCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.client.Publish(pubCtx, s.channel, body).Err(); err != nil {
		s.logger.Warn("publish change event",
			zap.String("channel", s.channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
