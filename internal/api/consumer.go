package api

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/publish"
)

const resubscribeDelay = 5 * time.Second

// StreamConsumer bridges the Redis opportunity channel into the WebSocket
// hub. It reconnects with a fixed backoff if the subscription drops.
type StreamConsumer struct {
	cfg    *config.RedisConfig
	hub    *Hub
	logger logrus.FieldLogger
}

// NewStreamConsumer creates a consumer feeding the given hub.
func NewStreamConsumer(cfg *config.RedisConfig, hub *Hub, logger logrus.FieldLogger) *StreamConsumer {
	return &StreamConsumer{cfg: cfg, hub: hub, logger: logger}
}

// Start consumes until the context is cancelled.
func (c *StreamConsumer) Start(ctx context.Context) {
	for {
		if err := c.consume(ctx); err != nil && ctx.Err() == nil {
			c.logger.WithError(err).Warn("Opportunity stream dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
	}
}

func (c *StreamConsumer) consume(ctx context.Context) error {
	sub, client, err := publish.Subscribe(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	defer sub.Close()

	c.logger.WithField("channel", c.cfg.Channel).Info("Subscribed to opportunity stream")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return redis.ErrClosed
			}
			c.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
