package memory

import (
	"context"
	"dynamicPricing/domain"
	"dynamicPricing/pkg/logger"
	"errors"
	"fmt"
	"sync"
)

// SignalBus is an in-process stand-in for the redis bus, selected with
// BUS_DRIVER=memory for single-binary runs and tests. Delivery is
// at-most-once: a subscriber with a full backlog drops new messages.
type SignalBus struct {
	mu          sync.Mutex
	subscribers []*subscriber
	closed      bool
}

type subscriber struct {
	topics map[string]struct{}
	ch     chan delivery
}

type delivery struct {
	topic string
	env   domain.SignalEnvelope
}

const subscriberBacklog = 256

func NewSignalBus() *SignalBus {
	return &SignalBus{}
}

func (b *SignalBus) Publish(ctx context.Context, topic string, env domain.SignalEnvelope) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("bus closed")
	}

	for _, sub := range b.subscribers {
		if _, ok := sub.topics[topic]; !ok {
			continue
		}

		select {
		case sub.ch <- delivery{topic: topic, env: env}:
		default:
			logger.Warn("Dropping signal, subscriber backlog full", "topic", topic)
		}
	}

	return nil
}

// StartForwarder registers a subscriber for the topics and forwards each
// delivery to onMsg from a single goroutine until ctx ends.
func (b *SignalBus) StartForwarder(ctx context.Context, onMsg func(topic string, env domain.SignalEnvelope), topics ...string) error {
	if onMsg == nil {
		return errors.New("onMsg callback required")
	}

	sub := &subscriber{
		topics: make(map[string]struct{}, len(topics)),
		ch:     make(chan delivery, subscriberBacklog),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.New("bus closed")
	}
	b.subscribers = append(b.subscribers, sub)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.remove(sub)
				return
			case d := <-sub.ch:
				onMsg(d.topic, d.env)
			}
		}
	}()

	return nil
}

func (b *SignalBus) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subscribers {
		if s == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

func (b *SignalBus) Ping(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("bus closed")
	}

	return nil
}

func (b *SignalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	return nil
}
