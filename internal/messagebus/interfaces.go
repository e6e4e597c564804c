package messagebus

import (
	"context"
	"time"
)

// SubjectPostGenerated carries one event per stored post.
const SubjectPostGenerated = "linkodin.posts.generated"

// PostGeneratedEvent is published after a generated post has been saved.
type PostGeneratedEvent struct {
	PostID    string    `json:"post_id"`
	PersonaID string    `json:"persona_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EventPublisher abstracts event publishing for testability.
type EventPublisher interface {
	PublishPostGenerated(ctx context.Context, event *PostGeneratedEvent) error
}

// EventSubscriber abstracts event subscription for testability.
type EventSubscriber interface {
	SubscribePostGenerated(consumerName string, handler func(*PostGeneratedEvent)) error
}

// Verify NatsMessageBus implements all interfaces at compile time.
var (
	_ EventPublisher  = (*NatsMessageBus)(nil)
	_ EventSubscriber = (*NatsMessageBus)(nil)
)
