package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// EventPublisher delivers one queue event to reception and display subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.QueueEvent) error
}

type redisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher publishes events as JSON on a Redis pub/sub channel
func NewRedisPublisher(client *redis.Client, channel string) EventPublisher {
	return &redisPublisher{
		client:  client,
		channel: channel,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, event entity.QueueEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event entity.QueueEvent) error {
	return nil
}

// Notifier dispatches events on their own goroutine with their own timeout.
// Callers never wait for delivery and never see delivery errors.
type Notifier struct {
	publisher EventPublisher
	log       *logrus.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration

	// mu orders the stopped check in Notify against Stop, so wg.Add never
	// races wg.Wait
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewNotifier(publisher EventPublisher, log *logrus.Logger, m *metrics.Metrics, timeout time.Duration) *Notifier {
	return &Notifier{
		publisher: publisher,
		log:       log,
		metrics:   m,
		timeout:   timeout,
	}
}

// Notify is fire-and-forget; events raised after Stop are dropped.
func (n *Notifier) Notify(event entity.QueueEvent) {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		n.log.Warnf("Notifier stopped, dropping %s event", event.Type)
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.publisher.Publish(ctx, event); err != nil {
			n.metrics.NotificationsFailed.WithLabelValues(string(event.Type)).Inc()
			n.log.Warnf("Failed to publish %s event: %+v", event.Type, err)
			return
		}
		n.metrics.NotificationsPublished.WithLabelValues(string(event.Type)).Inc()
	}()
}

// Stop refuses new events and waits for in-flight ones.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	n.mu.Unlock()

	n.wg.Wait()
	n.log.Info("Notifier stopped")
}

// Wait blocks until every dispatched event has been handled
func (n *Notifier) Wait() {
	n.wg.Wait()
}
