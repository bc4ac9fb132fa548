// Package events fans friend-request changes out to other processes (for
// example a notification socket server) over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	OperationRequest  = "REQUEST"
	OperationAccepted = "ACCEPTED"

	TypeFriendRequest = "friend-request"
)

// FriendEvent is addressed to UserID, the user who should be notified.
type FriendEvent struct {
	Operation string      `json:"operation"`
	Type      string      `json:"type"`
	UserID    string      `json:"userId"`
	Payload   interface{} `json:"payload"`
}

// Publisher delivers friend events.
type Publisher interface {
	Publish(ctx context.Context, event FriendEvent) error
}

// RedisPublisher publishes JSON events on one channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisClient parses url (redis://...) and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	logrus.WithField("addr", opt.Addr).Info("Connected to Redis")
	return client, nil
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event FriendEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, FriendEvent) error { return nil }
