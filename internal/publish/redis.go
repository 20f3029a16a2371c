// Package publish streams accepted opportunities to Redis pub/sub so
// downstream consumers (dashboards, the WebSocket API) get them live.
package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Xavi146570/football-value-detector/internal/config"
	"github.com/Xavi146570/football-value-detector/internal/models"
)

// Publisher pushes accepted opportunities onto the live stream.
type Publisher interface {
	PublishOpportunity(ctx context.Context, opp *models.Opportunity) error
	Close() error
}

// RedisPublisher implements Publisher over Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  logrus.FieldLogger
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, cfg *config.RedisConfig, logger logrus.FieldLogger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPublisher{
		client:  client,
		channel: cfg.Channel,
		logger:  logger,
	}, nil
}

// PublishOpportunity pushes one opportunity as JSON onto the channel.
func (p *RedisPublisher) PublishOpportunity(ctx context.Context, opp *models.Opportunity) error {
	payload, err := json.Marshal(opp)
	if err != nil {
		return fmt.Errorf("failed to encode opportunity: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish opportunity: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"fixture_id": opp.FixtureID,
		"channel":    p.channel,
	}).Debug("Opportunity published")
	return nil
}

// Close releases the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Subscribe returns a subscription on the opportunity channel. The caller
// owns the subscription and must close it.
func Subscribe(ctx context.Context, cfg *config.RedisConfig) (*redis.PubSub, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client.Subscribe(ctx, cfg.Channel), client, nil
}

// NopPublisher discards all publishes. Used when Redis is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOpportunity(context.Context, *models.Opportunity) error { return nil }

func (NopPublisher) Close() error { return nil }
