package redis

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SignalBus carries agent envelopes over redis pub/sub, one channel per
// topic. Delivery is at-most-once: nothing is replayed to late subscribers.
type SignalBus struct {
	client *redis.Client
}

func NewSignalBus(client *redis.Client) *SignalBus {
	return &SignalBus{
		client: client,
	}
}

func (b *SignalBus) Publish(ctx context.Context, topic string, env domain.SignalEnvelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if err := b.client.Publish(ctx, topic, raw).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w: %w", topic, domain.ErrUpstreamUnavailable, err)
	}

	return nil
}

// StartForwarder subscribes to the topics and forwards every decodable
// envelope to onMsg from a single goroutine. Malformed payloads are logged
// and skipped. The subscription ends with ctx.
func (b *SignalBus) StartForwarder(ctx context.Context, onMsg func(topic string, env domain.SignalEnvelope), topics ...string) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.client.Subscribe(ctx, topics...)

	// ensures the subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w: %w", domain.ErrUpstreamUnavailable, err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}

				var env domain.SignalEnvelope
				if err := json.Unmarshal([]byte(m.Payload), &env); err != nil {
					logger.Warn("Dropping malformed signal payload", "topic", m.Channel, "error", err)
					continue
				}

				onMsg(m.Channel, env)
			}
		}
	}()

	return nil
}

func (b *SignalBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *SignalBus) Close() error {
	return b.client.Close()
}
