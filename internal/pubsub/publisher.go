package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

const (
	EventEntitlementChanged = "entitlement.changed"
	EventPostExhausted      = "automation.post_exhausted"
	EventTickFinished       = "automation.tick_finished"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client

	mu     sync.Mutex
	topics map[string]*pubsub.Topic
}

// NewPublisher creates a new PubSubPublisher for the GCP project.
func NewPublisher(ctx context.Context, projectID string) (*PubSubPublisher, error) {
	if projectID == "" {
		return nil, errors.New("failed to create Pub/Sub client: project ID is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client, topics: make(map[string]*pubsub.Topic)}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) topic(id string) *pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.topics[id]
	if !ok {
		t = p.client.Topic(id)
		p.topics[id] = t
	}
	return t
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.mu.Lock()
	for _, t := range p.topics {
		t.Stop()
	}
	p.topics = map[string]*pubsub.Topic{}
	p.mu.Unlock()
	return p.client.Close()
}

// NoopPublisher drops every message. Used when no GCP project is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) (string, error) {
	return "", nil
}

// Event is the JSON envelope of every domain event.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// PublishEvent wraps data in an Event envelope and publishes it.
func PublishEvent(ctx context.Context, p Publisher, topic, eventType string, data any) (string, error) {
	payload, err := json.Marshal(Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		return "", fmt.Errorf("marshaling %s event: %w", eventType, err)
	}
	return p.Publish(ctx, topic, payload)
}
