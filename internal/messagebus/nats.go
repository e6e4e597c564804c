package messagebus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsMessageBus implements a message bus using NATS with JetStream
type NatsMessageBus struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	streamName    string
}

// Config holds NATS configuration
type Config struct {
	URL        string        // NATS server URL (e.g., "nats://localhost:4222")
	StreamName string        // JetStream stream name (default: "LINKODIN")
	Timeout    time.Duration // Connection timeout
}

const DefaultStreamName = "LINKODIN"

// NewNatsMessageBus connects to NATS and makes sure the stream exists.
func NewNatsMessageBus(cfg Config) (*NatsMessageBus, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.StreamName == "" {
		cfg.StreamName = DefaultStreamName
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Name("linkodin"),
		nats.Timeout(cfg.Timeout),
		nats.ReconnectWait(1*time.Second),
		nats.MaxReconnects(3),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("[Events] Warning: NATS disconnected: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	mb := &NatsMessageBus{
		conn:          nc,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
		streamName:    cfg.StreamName,
	}

	if err := mb.ensureStream(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	log.Printf("[Events] Debug: connected to NATS at %s with JetStream stream %s", cfg.URL, cfg.StreamName)
	return mb, nil
}

// ensureStream creates or updates the JetStream stream.
func (mb *NatsMessageBus) ensureStream() error {
	streamConfig := &nats.StreamConfig{
		Name:      mb.streamName,
		Subjects:  []string{"linkodin.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
		Replicas:  1,
		Discard:   nats.DiscardOld,
	}

	if _, err := mb.js.StreamInfo(mb.streamName); err != nil {
		if _, err := mb.js.AddStream(streamConfig); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		log.Printf("[Events] Created JetStream stream: %s", mb.streamName)
		return nil
	}
	if _, err := mb.js.UpdateStream(streamConfig); err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}
	return nil
}

// PublishPostGenerated publishes a post event to linkodin.posts.generated.
func (mb *NatsMessageBus) PublishPostGenerated(ctx context.Context, event *PostGeneratedEvent) error {
	return mb.publish(ctx, SubjectPostGenerated, event)
}

func (mb *NatsMessageBus) publish(ctx context.Context, subject string, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, err := mb.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", subject, err)
	}
	return nil
}

// SubscribePostGenerated delivers post events to handler through a durable consumer.
func (mb *NatsMessageBus) SubscribePostGenerated(consumerName string, handler func(*PostGeneratedEvent)) error {
	sub, err := mb.js.Subscribe(SubjectPostGenerated, func(msg *nats.Msg) {
		var event PostGeneratedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("[Events] Failed to unmarshal post event: %v", err)
			msg.Nak()
			return
		}
		handler(&event)
		msg.Ack()
	},
		nats.Durable(consumerName),
		nats.AckExplicit(),
		nats.MaxDeliver(3),
		nats.AckWait(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectPostGenerated, err)
	}
	mb.subscriptions[consumerName] = sub
	return nil
}

// Close closes all subscriptions and the NATS connection
func (mb *NatsMessageBus) Close() error {
	for name, sub := range mb.subscriptions {
		_ = sub.Unsubscribe()
		delete(mb.subscriptions, name)
	}
	if err := mb.conn.Drain(); err != nil {
		mb.conn.Close()
	}
	return nil
}

// Health returns the health status of the NATS connection
func (mb *NatsMessageBus) Health() error {
	if mb.conn.IsClosed() {
		return fmt.Errorf("NATS connection is closed")
	}
	if !mb.conn.IsConnected() {
		return fmt.Errorf("NATS is not connected")
	}
	return nil
}
