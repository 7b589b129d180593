package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "letsshare/internal/delivery/context"
	"letsshare/internal/domain/service"

	"github.com/google/uuid"
)

// eventPublishTimeout bounds how long a committed request waits on the broker.
const eventPublishTimeout = 2 * time.Second

// eventEmitter publishes domain events after a successful commit.
// Publishing is best effort and never fails the calling operation.
type eventEmitter struct {
	publisher service.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	timeout   time.Duration
}

func newEventEmitter(publisher service.EventPublisher, logger *slog.Logger) *eventEmitter {
	return &eventEmitter{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		timeout:   eventPublishTimeout,
	}
}

func (e *eventEmitter) emit(ctx context.Context, eventType string, userID, postID int64) {
	if e == nil || e.publisher == nil {
		return
	}

	// The request may finish before the broker acknowledges.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	event := &service.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		UserID:     userID,
		PostID:     postID,
		OccurredAt: e.now().UTC(),
	}

	if err := e.publisher.Publish(pubCtx, event); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, e.logger).Warn("Failed to publish domain event",
			slog.String("eventType", eventType),
			slog.String("eventID", event.ID),
			slog.Any("error", err),
		)
	}
}
