package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"letsshare/config"
	"letsshare/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/pubsub/mempubsub"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent() *service.Event {
	return &service.Event{
		ID:         "evt-1",
		Type:       service.EventPostCreated,
		RequestID:  "req-1",
		UserID:     7,
		PostID:     42,
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_Publish(t *testing.T) {
	var received PushMessage
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())
	require.NoError(t, publisher.Publish(context.Background(), testEvent()))
	require.NoError(t, publisher.Close())

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "evt-1", received.Message.MessageID)
	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, map[string]string{
		"event_id":   "evt-1",
		"event_type": "post.created",
		"user_id":    "7",
		"post_id":    "42",
		"request_id": "req-1",
	}, received.Message.Attributes)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)
	var event service.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, *testEvent(), event)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewLocalHTTPPublisher(server.URL, discardLogger()).Publish(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGoCloudPublisher_Publish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	topic := mempubsub.NewTopic()
	sub := mempubsub.NewSubscription(topic, time.Minute)
	defer sub.Shutdown(ctx)

	publisher := newGoCloudPublisher(topic, discardLogger())
	event := testEvent()
	event.PostID = 0
	event.Type = service.EventUserRegistered
	require.NoError(t, publisher.Publish(ctx, event))

	msg, err := sub.Receive(ctx)
	require.NoError(t, err)
	msg.Ack()

	assert.Equal(t, "user.registered", msg.Metadata["event_type"])
	assert.NotContains(t, msg.Metadata, "post_id")

	var got service.Event
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, *event, got)

	require.NoError(t, publisher.Close())
}

func TestNoopPublisher(t *testing.T) {
	publisher, err := newPublisher(context.Background(), nil, discardLogger())
	require.NoError(t, err)

	require.NoError(t, publisher.Publish(context.Background(), testEvent()))
	require.NoError(t, publisher.Close())
}

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr string
	}{
		{name: "not configured", cfg: nil},
		{name: "empty provider", cfg: &config.PubSubConfig{}},
		{name: "local", cfg: &config.PubSubConfig{Provider: config.PubSubProviderLocal, LocalEndpoint: "http://localhost:9999/push"}},
		{name: "local without endpoint", cfg: &config.PubSubConfig{Provider: config.PubSubProviderLocal}, wantErr: "local endpoint"},
		{name: "google without project", cfg: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, TopicID: "events"}, wantErr: "project ID"},
		{name: "google without topic", cfg: &config.PubSubConfig{Provider: config.PubSubProviderGoogle, ProjectID: "p"}, wantErr: "topic ID"},
		{name: "gocloud mem topic", cfg: &config.PubSubConfig{Provider: config.PubSubProviderGoCloud, TopicURL: "mem://letsshare-events"}},
		{name: "gocloud without url", cfg: &config.PubSubConfig{Provider: config.PubSubProviderGoCloud}, wantErr: "topic URL"},
		{name: "gocloud unknown scheme", cfg: &config.PubSubConfig{Provider: config.PubSubProviderGoCloud, TopicURL: "nope://x"}, wantErr: "failed to open topic"},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: "unknown pubsub provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := newPublisher(ctx, tt.cfg, discardLogger())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.NotNil(t, publisher)
			require.NoError(t, publisher.Close())
		})
	}
}
