package pubsub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	ps "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic   string
	payload []byte
}

func (c *capturePublisher) Publish(_ context.Context, topic string, payload []byte) (string, error) {
	c.topic = topic
	c.payload = payload
	return "msg-1", nil
}

func TestNewPublisherInvalidProject(t *testing.T) {
	_, err := NewPublisher(context.Background(), "")
	assert.Error(t, err)
}

func TestPublishEventEnvelope(t *testing.T) {
	c := &capturePublisher{}
	id, err := PublishEvent(context.Background(), c, "wordflow-events", EventEntitlementChanged, map[string]any{"userId": "u1", "wordLimit": 60000})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "wordflow-events", c.topic)

	var got struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(c.payload, &got))
	assert.Equal(t, EventEntitlementChanged, got.Type)
	assert.Equal(t, "u1", got.Data["userId"])
	assert.EqualValues(t, 60000, got.Data["wordLimit"])
}

func TestPublishEventUnmarshalable(t *testing.T) {
	_, err := PublishEvent(context.Background(), NoopPublisher{}, "t", "x", make(chan int))
	assert.Error(t, err)
}

func TestPublishWithEmulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, "test-project")
	require.NoError(t, err)
	defer pub.Close()

	topic, err := pub.client.CreateTopic(ctx, "wordflow-events-test")
	require.NoError(t, err)
	sub, err := pub.client.CreateSubscription(ctx, "wordflow-events-test-sub", ps.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	msgID, err := PublishEvent(ctx, pub, "wordflow-events-test", EventPostExhausted, map[string]string{"postId": "p1"})
	require.NoError(t, err)
	require.NotEmpty(t, msgID)

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	c := make(chan []byte, 1)
	go func() {
		_ = sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			c <- m.Data
			m.Ack()
			cancel()
		})
	}()

	select {
	case data := <-c:
		assert.Contains(t, string(data), EventPostExhausted)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
