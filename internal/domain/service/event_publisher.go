package service

import (
	"context"
	"time"
)

// Domain event types.
const (
	EventUserRegistered = "user.registered"
	EventPostCreated    = "post.created"
)

// Event is a domain event emitted after a successful commit.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	UserID     int64     `json:"user_id"`
	PostID     int64     `json:"post_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish sends the event and waits for the broker to accept it.
	Publish(ctx context.Context, event *Event) error

	// Close releases any resources held by the publisher
	Close() error
}
