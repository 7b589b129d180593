package pubsub

import (
	"context"
	"log/slog"

	"letsshare/internal/domain/service"
	"letsshare/internal/errors"

	gcpubsub "gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub" // registers the mem:// scheme
)

// goCloudPublisher publishes through a portable gocloud topic, so the broker
// is chosen by URL scheme (mem://, gcppubsub://, ...).
type goCloudPublisher struct {
	topic  *gcpubsub.Topic
	logger *slog.Logger
}

// NewGoCloudPublisher opens the topic at topicURL.
func NewGoCloudPublisher(ctx context.Context, topicURL string, logger *slog.Logger) (service.EventPublisher, error) {
	topic, err := gcpubsub.OpenTopic(ctx, topicURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open topic %s", topicURL)
	}

	return newGoCloudPublisher(topic, logger), nil
}

func newGoCloudPublisher(topic *gcpubsub.Topic, logger *slog.Logger) *goCloudPublisher {
	return &goCloudPublisher{topic: topic, logger: logger}
}

func (p *goCloudPublisher) Publish(ctx context.Context, event *service.Event) error {
	data, attributes, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if err := p.topic.Send(ctx, &gcpubsub.Message{Body: data, Metadata: attributes}); err != nil {
		return errors.Wrapf(err, "failed to publish %s", event.Type)
	}

	p.logger.DebugContext(ctx, "[GoCloudPubSub] Event published",
		slog.String("event_type", event.Type),
		slog.String("event_id", event.ID),
	)

	return nil
}

// Close flushes buffered messages.
func (p *goCloudPublisher) Close() error {
	return errors.WithStack(p.topic.Shutdown(context.Background()))
}
